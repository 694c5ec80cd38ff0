package ot

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// sample is a fitted source point tagged with its row index.
type sample struct {
	row   int
	coord []float64
}

var _ kdtree.Comparable = sample{}

func (s sample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord[d] - c.(sample).coord[d]
}

func (s sample) Dims() int { return len(s.coord) }

func (s sample) Distance(c kdtree.Comparable) float64 {
	return sqDist(s.coord, c.(sample).coord)
}

// samples implements kdtree.Interface over fitted source points.
type samples []sample

var _ kdtree.Interface = samples(nil)

func (p samples) Index(i int) kdtree.Comparable { return p[i] }
func (p samples) Len() int                      { return len(p) }
func (p samples) Pivot(d kdtree.Dim) int {
	return plane{samples: p, Dim: d}.Pivot()
}
func (p samples) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts samples along a single dimension.
type plane struct {
	kdtree.Dim
	samples
}

func (p plane) Less(i, j int) bool {
	return p.samples[i].coord[p.Dim] < p.samples[j].coord[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfRandoms(p, 100)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}

// nearest answers nearest-fitted-sample queries.
type nearest struct {
	tree *kdtree.Tree
}

func newNearest(pts [][]float64) *nearest {
	s := make(samples, len(pts))
	for i, c := range pts {
		s[i] = sample{row: i, coord: c}
	}
	return &nearest{tree: kdtree.New(s, false)}
}

// row returns the index of the fitted sample closest to q.
func (n *nearest) row(q []float64) int {
	got, _ := n.tree.Nearest(sample{row: -1, coord: q})
	return got.(sample).row
}
