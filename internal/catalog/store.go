package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNoSnapshot = errors.New("catalog: no snapshot saved")

// Vector is the embedding of the entry at Position.
type Vector struct {
	Position int       `json:"position"`
	Values   []float32 `json:"values"`
}

// Snapshot is the complete persisted catalog state.
type Snapshot struct {
	Dimension int       `json:"dimension"`
	Entries   []Entry   `json:"entries"`
	Vectors   []Vector  `json:"vectors"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store persists whole snapshots. Load returns ErrNoSnapshot when nothing was saved.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

func (s *Snapshot) validate(dim int) error {
	if s.Dimension != 0 && s.Dimension != dim {
		return fmt.Errorf("%w: snapshot has %d, configured %d", ErrDimension, s.Dimension, dim)
	}
	seen := make(map[int]bool, len(s.Vectors))
	for _, v := range s.Vectors {
		if v.Position < 0 || v.Position >= len(s.Entries) {
			return fmt.Errorf("catalog: snapshot vector position %d out of range", v.Position)
		}
		if seen[v.Position] {
			return fmt.Errorf("catalog: snapshot vector position %d duplicated", v.Position)
		}
		seen[v.Position] = true
		if len(v.Values) != dim {
			return fmt.Errorf("%w: snapshot vector %d has %d values", ErrDimension, v.Position, len(v.Values))
		}
	}
	return nil
}

// MemoryStore keeps the snapshot in process. It is used by tests and when no
// catalog path is configured.
type MemoryStore struct {
	snap    *Snapshot
	SaveErr error
	Saves   int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	if m.snap == nil {
		return nil, ErrNoSnapshot
	}
	return cloneSnapshot(m.snap), nil
}

func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snap = cloneSnapshot(snap)
	m.Saves++
	return nil
}

func cloneSnapshot(s *Snapshot) *Snapshot {
	out := &Snapshot{Dimension: s.Dimension, SavedAt: s.SavedAt}
	out.Entries = make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		out.Entries[i] = e.clone()
	}
	out.Vectors = make([]Vector, len(s.Vectors))
	for i, v := range s.Vectors {
		out.Vectors[i] = Vector{Position: v.Position, Values: append([]float32(nil), v.Values...)}
	}
	return out
}
