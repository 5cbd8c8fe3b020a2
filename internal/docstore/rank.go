package docstore

import (
	"sort"

	"github.com/ragstack/ragserve/internal/vector"
)

// Rank scores every embedded document against the query vector and returns
// the topK best matches in descending score order. Documents that have not
// been embedded yet are left out of the candidate set. Ties keep insertion
// order (stable sort). topK <= 0 yields an empty result; topK larger than
// the embedded corpus yields the whole embedded corpus.
func (s *Store) Rank(query []float32, topK int) ([]ScoredDocument, error) {
	if topK <= 0 {
		return []ScoredDocument{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]ScoredDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		if doc.Embedding == nil {
			continue
		}

		score, err := vector.CosineSimilarity(query, doc.Embedding)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, ScoredDocument{
			Document: doc,
			Score:    score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	return candidates[:topK], nil
}
