package retriever

import "math"

// CosineSimilarity of a and b; 0 when either is a zero vector or the
// lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MaxMarginalRelevance picks up to k candidate indexes, trading relevance to
// query (weight lambda) against similarity to what is already picked
// (weight 1-lambda). The first pick is always the most relevant candidate.
// Indexes are returned in pick order; ties go to the lower index.
func MaxMarginalRelevance(query []float32, candidates [][]float32, k int, lambda float64) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	k = min(k, len(candidates))

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = CosineSimilarity(query, c)
	}

	// redundancy[i] is the highest similarity of candidate i to any pick.
	redundancy := make([]float64, len(candidates))
	for i := range redundancy {
		redundancy[i] = math.Inf(-1)
	}

	picked := make([]int, 0, k)
	taken := make([]bool, len(candidates))
	for len(picked) < k {
		best, bestScore := -1, math.Inf(-1)
		for i := range candidates {
			if taken[i] {
				continue
			}
			score := relevance[i]
			if len(picked) > 0 {
				score = lambda*relevance[i] - (1-lambda)*redundancy[i]
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		picked = append(picked, best)
		taken[best] = true
		for i := range candidates {
			if !taken[i] {
				redundancy[i] = max(redundancy[i], CosineSimilarity(candidates[i], candidates[best]))
			}
		}
	}
	return picked
}
