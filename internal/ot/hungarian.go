package ot

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// assign solves the balanced assignment problem for a square cost matrix with
// the Kuhn–Munkres (Hungarian) algorithm in O(n³) time. It returns perm where
// row i is matched to column perm[i] and the total cost is minimal.
//
// Between two clouds of n equally weighted samples the set of couplings is the
// Birkhoff polytope scaled by 1/n; its vertices are permutations, so an optimal
// assignment is also an optimal transport plan.
func assign(cost mat.Matrix) []int {
	n, _ := cost.Dims()
	if n == 0 {
		return nil
	}

	// Potentials formulation (Jonker-Volgenant variant) with 1-indexed
	// arrays; column 0 is a virtual column used to start each augmentation.
	const inf = math.MaxFloat64 / 2

	u := make([]float64, n+1) // Row potentials
	v := make([]float64, n+1) // Column potentials
	p := make([]int, n+1)     // p[j] = row assigned to column j
	way := make([]int, n+1)   // way[j] = previous column in augmenting path
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	c := rows(cost)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0

		for j := 1; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the path.
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	perm := make([]int, n)
	for j := 1; j <= n; j++ {
		perm[p[j]-1] = j - 1
	}
	return perm
}
