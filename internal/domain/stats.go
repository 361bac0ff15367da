package domain

import "strings"

// Stats are the figures shown above the repository table. They are derived
// from the list on demand and never stored.
type Stats struct {
	Count      int
	TotalStars int
	Languages  int
}

// ComputeStats counts repositories, sums their stars and counts distinct
// non-empty languages. Negative star counts are treated as zero.
func ComputeStats(repos []Repository) Stats {
	languages := make(map[string]struct{})
	stats := Stats{Count: len(repos)}
	for _, r := range repos {
		if r.Stars > 0 {
			stats.TotalStars += r.Stars
		}
		if lang := strings.TrimSpace(r.Language); lang != "" {
			languages[lang] = struct{}{}
		}
	}
	stats.Languages = len(languages)
	return stats
}
