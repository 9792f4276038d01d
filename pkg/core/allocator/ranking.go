package allocator

import (
	"slices"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

// Candidate is a ranked (format, slot) pairing with its historical evidence
type Candidate struct {
	Key         model.CandidateKey `json:"key"`
	Mean        float64            `json:"mean"`
	MeanRevenue float64            `json:"meanRevenue"`
	Count       int                `json:"count"`
}

// RankCandidates orders every candidate in the index best first and then rotates
// the list by iteration so successive runs explore different orderings.
func RankCandidates(index *performance.Index, iteration int) []Candidate {
	return Rotate(SortCandidates(index), iteration)
}

// SortCandidates orders candidates by mean attendance descending, then record count
// descending, then key ascending. The order is total so the result is deterministic.
func SortCandidates(index *performance.Index) []Candidate {
	keys := index.Candidates()
	candidates := make([]Candidate, 0, len(keys))
	for _, key := range keys {
		agg := index.GroupAverage(key)
		candidates = append(candidates, Candidate{
			Key:         key,
			Mean:        agg.Mean(),
			MeanRevenue: agg.MeanRevenue(),
			Count:       agg.Count,
		})
	}

	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

func compareCandidates(a, b Candidate) int {
	switch {
	case a.Mean > b.Mean:
		return -1
	case a.Mean < b.Mean:
		return 1
	case a.Count > b.Count:
		return -1
	case a.Count < b.Count:
		return 1
	case a.Key.Less(b.Key):
		return -1
	case b.Key.Less(a.Key):
		return 1
	}
	return 0
}

// Rotate returns a copy of the candidates cyclically shifted left by iteration mod len
func Rotate(candidates []Candidate, iteration int) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	if len(candidates) == 0 {
		return out
	}
	offset := iteration % len(candidates)
	if offset < 0 {
		offset += len(candidates)
	}
	out = append(out, candidates[offset:]...)
	out = append(out, candidates[:offset]...)
	return out
}
