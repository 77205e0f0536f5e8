package search

import (
	"slices"

	"github.com/poiesic/sift/core"
)

// Scored is one channel's hit: a post ID with its raw channel score.
type Scored struct {
	Id    core.ID
	Score float64
}

// Fused is the merged ranking entry for one post across both channels.
// Lexical and Semantic are the min-max normalized channel scores, zero
// when the post was absent from that channel.
type Fused struct {
	Id       core.ID
	Combined float64
	Lexical  float64
	Semantic float64
}

// Weights blends the two channels into the combined score.
type Weights struct {
	Lexical  float64
	Semantic float64
}

// DefaultWeights gives both channels equal influence.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.5, Semantic: 0.5}
}

// Fuse merges lexical and semantic hits into one ranking.
// Each channel's scores are min-max normalized to [0,1] independently,
// then combined as a weighted sum over the union of hits; a post absent
// from a channel contributes zero there. Pure function: no index or
// repository access, deterministic output (combined desc, id asc).
func Fuse(lexical, semantic []Scored, w Weights) []Fused {
	lexNorm := normalize(lexical)
	semNorm := normalize(semantic)

	merged := make(map[core.ID]*Fused, len(lexNorm)+len(semNorm))
	for id, score := range lexNorm {
		merged[id] = &Fused{Id: id, Lexical: score}
	}
	for id, score := range semNorm {
		entry, ok := merged[id]
		if !ok {
			entry = &Fused{Id: id}
			merged[id] = entry
		}
		entry.Semantic = score
	}

	fused := make([]Fused, 0, len(merged))
	for _, entry := range merged {
		entry.Combined = w.Lexical*entry.Lexical + w.Semantic*entry.Semantic
		fused = append(fused, *entry)
	}

	slices.SortFunc(fused, func(a, b Fused) int {
		if a.Combined > b.Combined {
			return -1
		}
		if a.Combined < b.Combined {
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return fused
}

// normalize min-max scales channel scores to [0,1].
// A single candidate, or a channel where every score is equal, maps to
// 1.0: the channel considers them its best answers.
func normalize(scored []Scored) map[core.ID]float64 {
	if len(scored) == 0 {
		return nil
	}

	min, max := scored[0].Score, scored[0].Score
	for _, s := range scored[1:] {
		if s.Score < min {
			min = s.Score
		}
		if s.Score > max {
			max = s.Score
		}
	}

	norm := make(map[core.ID]float64, len(scored))
	span := max - min
	for _, s := range scored {
		if span == 0 {
			norm[s.Id] = 1.0
			continue
		}
		norm[s.Id] = (s.Score - min) / span
	}
	return norm
}

// compareScored orders channel hits score descending, id ascending.
func compareScored(a, b Scored) int {
	if a.Score > b.Score {
		return -1
	}
	if a.Score < b.Score {
		return 1
	}
	if a.Id < b.Id {
		return -1
	}
	if a.Id > b.Id {
		return 1
	}
	return 0
}
