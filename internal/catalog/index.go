package catalog

import (
	"fmt"
	"math"
	"sort"
)

// flatIndex is an exact L2 index. Each vector remembers the position of the
// entry it belongs to, so the index may hold fewer vectors than there are entries.
type flatIndex struct {
	dim       int
	vectors   [][]float32
	positions []int
	has       map[int]bool
}

type hit struct {
	pos  int
	dist float64
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim, has: map[int]bool{}}
}

func (ix *flatIndex) len() int { return len(ix.vectors) }

func (ix *flatIndex) contains(pos int) bool { return ix.has[pos] }

func (ix *flatIndex) add(pos int, vec []float32) error {
	if len(vec) != ix.dim {
		return fmt.Errorf("%w: got %d want %d", ErrDimension, len(vec), ix.dim)
	}
	if ix.has[pos] {
		return fmt.Errorf("catalog: position %d already indexed", pos)
	}
	ix.vectors = append(ix.vectors, append([]float32(nil), vec...))
	ix.positions = append(ix.positions, pos)
	ix.has[pos] = true
	return nil
}

// truncate drops vectors added after the first n.
func (ix *flatIndex) truncate(n int) {
	for _, pos := range ix.positions[n:] {
		delete(ix.has, pos)
	}
	ix.vectors = ix.vectors[:n]
	ix.positions = ix.positions[:n]
}

// search returns up to k nearest vectors by Euclidean distance; equal
// distances keep entry order.
func (ix *flatIndex) search(q []float32, k int) ([]hit, error) {
	if len(q) != ix.dim {
		return nil, fmt.Errorf("%w: got %d want %d", ErrDimension, len(q), ix.dim)
	}
	hits := make([]hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = hit{pos: ix.positions[i], dist: euclidean(q, v)}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].pos < hits[b].pos
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// similarity maps a distance to (0,1], strictly decreasing.
func similarity(d float64) float64 {
	return 1 / (1 + d)
}
