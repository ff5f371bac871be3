package search

import "songfinder/lyricsearch/internal/domain"

// Assemble merges hits with their enrichments by position. Order is the
// primary source's order; nothing is re-ranked.
func Assemble(hits []domain.SearchHit, enrichments []domain.Enrichment) domain.ResultSet {
	results := make(domain.ResultSet, 0, len(hits))
	for i, hit := range hits {
		result := domain.ResultFromHit(hit)
		if i < len(enrichments) {
			if snippet := enrichments[i].Snippet; snippet != "" {
				result.Lyrics = snippet
			}
			result.PreviewURL = enrichments[i].PreviewURL
		}
		results = append(results, result)
	}
	return results
}
