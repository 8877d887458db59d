package usecases

import "github.com/buildgate/regiongate/internal/domain"

// IntersectByRevision returns the subsequence of base whose revision
// identifier also appears in other, preserving base order. The comparison
// is always by revision identity, never by file paths, so two unrelated
// commits that touch the same files are never conflated.
func IntersectByRevision(base, other []domain.Changeset) []domain.Changeset {
	if len(base) == 0 || len(other) == 0 {
		return nil
	}

	revisions := make(map[string]struct{}, len(other))
	for _, cs := range other {
		revisions[cs.Revision] = struct{}{}
	}

	var kept []domain.Changeset
	for _, cs := range base {
		if _, ok := revisions[cs.Revision]; ok {
			kept = append(kept, cs)
		}
	}
	return kept
}
