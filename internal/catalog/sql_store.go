package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type entryRow struct {
	Position      int `gorm:"primaryKey;autoIncrement:false"`
	Name          string
	Description   string
	Properties    string
	Applications  string
	GOSTStandards datatypes.JSON
}

func (entryRow) TableName() string { return "catalog_entries" }

type vectorRow struct {
	Position int `gorm:"primaryKey;autoIncrement:false"`
	Values   datatypes.JSON
}

func (vectorRow) TableName() string { return "catalog_vectors" }

type metaRow struct {
	ID        int `gorm:"primaryKey;autoIncrement:false"`
	Dimension int
	SavedAt   time.Time
}

func (metaRow) TableName() string { return "catalog_meta" }

// SQLStore keeps the snapshot in a SQLite database, rewritten in one
// transaction per save.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(path string) (*SQLStore, error) {
	if path == "" {
		return nil, errors.New("catalog: sqlite path required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog sqlite: %w", err)
	}
	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB migrates the catalog tables on an existing connection.
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&entryRow{}, &vectorRow{}, &metaRow{}); err != nil {
		return nil, fmt.Errorf("migrate catalog tables: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Load(ctx context.Context) (*Snapshot, error) {
	db := s.db.WithContext(ctx)

	var meta metaRow
	if err := db.Where("id = ?", 1).Limit(1).Find(&meta).Error; err != nil {
		return nil, fmt.Errorf("load catalog meta: %w", err)
	}
	if meta.ID == 0 {
		return nil, ErrNoSnapshot
	}

	var entries []entryRow
	if err := db.Order("position ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load catalog entries: %w", err)
	}
	var vectors []vectorRow
	if err := db.Order("position ASC").Find(&vectors).Error; err != nil {
		return nil, fmt.Errorf("load catalog vectors: %w", err)
	}

	snap := &Snapshot{Dimension: meta.Dimension, SavedAt: meta.SavedAt}
	snap.Entries = make([]Entry, 0, len(entries))
	for i, r := range entries {
		if r.Position != i {
			return nil, fmt.Errorf("catalog entries not contiguous at position %d", r.Position)
		}
		e := Entry{Name: r.Name, Description: r.Description, Properties: r.Properties, Applications: r.Applications}
		if len(r.GOSTStandards) > 0 {
			if err := json.Unmarshal(r.GOSTStandards, &e.GOSTStandards); err != nil {
				return nil, fmt.Errorf("decode standards of %q: %w", r.Name, err)
			}
		}
		snap.Entries = append(snap.Entries, e)
	}
	snap.Vectors = make([]Vector, 0, len(vectors))
	for _, r := range vectors {
		v := Vector{Position: r.Position}
		if err := json.Unmarshal(r.Values, &v.Values); err != nil {
			return nil, fmt.Errorf("decode vector %d: %w", r.Position, err)
		}
		snap.Vectors = append(snap.Vectors, v)
	}
	return snap, nil
}

func (s *SQLStore) Save(ctx context.Context, snap *Snapshot) error {
	entries := make([]entryRow, 0, len(snap.Entries))
	for i, e := range snap.Entries {
		standards, err := json.Marshal(nonNil(e.GOSTStandards))
		if err != nil {
			return err
		}
		entries = append(entries, entryRow{
			Position:      i,
			Name:          e.Name,
			Description:   e.Description,
			Properties:    e.Properties,
			Applications:  e.Applications,
			GOSTStandards: datatypes.JSON(standards),
		})
	}
	vectors := make([]vectorRow, 0, len(snap.Vectors))
	for _, v := range snap.Vectors {
		values, err := json.Marshal(v.Values)
		if err != nil {
			return err
		}
		vectors = append(vectors, vectorRow{Position: v.Position, Values: datatypes.JSON(values)})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entryRow{}).Error; err != nil {
			return fmt.Errorf("clear catalog entries: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&vectorRow{}).Error; err != nil {
			return fmt.Errorf("clear catalog vectors: %w", err)
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, 100).Error; err != nil {
				return fmt.Errorf("insert catalog entries: %w", err)
			}
		}
		if len(vectors) > 0 {
			if err := tx.CreateInBatches(vectors, 50).Error; err != nil {
				return fmt.Errorf("insert catalog vectors: %w", err)
			}
		}
		meta := metaRow{ID: 1, Dimension: snap.Dimension, SavedAt: snap.SavedAt}
		if err := tx.Save(&meta).Error; err != nil {
			return fmt.Errorf("save catalog meta: %w", err)
		}
		return nil
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
