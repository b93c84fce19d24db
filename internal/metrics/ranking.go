package metrics

import "math"

// NDCGAtK computes Normalized Discounted Cumulative Gain at rank K with
// binary relevance: gain is 1 for a relevant id, 0 otherwise, discounted by
// 1/log2(position+1) with 1-indexed positions.
//
// The ideal DCG is computed from the relevant slice in its given order, not
// re-sorted. With binary relevance any order of relevant ids yields the same
// ideal, so callers must pass the relevant set in a stable order to keep
// results reproducible. An empty relevant set defines the ideal as 1.0, so
// NDCG degenerates to the raw DCG (0 for any ranking).
func NDCGAtK(ranked []string, relevant []string, k int) float64 {
	rel := make(map[string]struct{}, len(relevant))
	for _, id := range relevant {
		rel[id] = struct{}{}
	}

	ideal := dcgAtK(relevant, rel, k)
	if ideal == 0 {
		ideal = 1.0
	}

	return dcgAtK(ranked, rel, k) / ideal
}

func dcgAtK(ids []string, relevant map[string]struct{}, k int) float64 {
	n := min(k, len(ids))
	var dcg float64

	for i := 0; i < n; i++ {
		if _, ok := relevant[ids[i]]; ok {
			dcg += 1.0 / math.Log2(float64(i)+2)
		}
	}

	return dcg
}

// MRRAtK returns 1/rank of the first relevant id within the top K positions
// (1-indexed), or 0 if none of the first K ids is relevant.
func MRRAtK(ranked []string, relevant []string, k int) float64 {
	rel := make(map[string]struct{}, len(relevant))
	for _, id := range relevant {
		rel[id] = struct{}{}
	}

	n := min(k, len(ranked))
	for i := 0; i < n; i++ {
		if _, ok := rel[ranked[i]]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0
}
