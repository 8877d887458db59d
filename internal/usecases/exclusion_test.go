package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buildgate/regiongate/internal/domain"
)

func cs(rev string, files ...string) domain.Changeset {
	return domain.Changeset{Revision: rev, Files: files}
}

func TestIntersectByRevision(t *testing.T) {
	tests := []struct {
		name  string
		base  []domain.Changeset
		other []domain.Changeset
		want  []string
	}{
		{
			name:  "keeps commits present in both lists",
			base:  []domain.Changeset{cs("A"), cs("B"), cs("C")},
			other: []domain.Changeset{cs("B"), cs("C"), cs("D")},
			want:  []string{"B", "C"},
		},
		{
			name:  "no overlap yields empty result",
			base:  []domain.Changeset{cs("A"), cs("B")},
			other: []domain.Changeset{cs("X"), cs("Y")},
			want:  nil,
		},
		{
			name:  "empty base",
			base:  nil,
			other: []domain.Changeset{cs("A")},
			want:  nil,
		},
		{
			name:  "empty other",
			base:  []domain.Changeset{cs("A")},
			other: nil,
			want:  nil,
		},
		{
			name: "intersects by revision not by files",
			base: []domain.Changeset{
				cs("A", "shared.go"),
				cs("B", "other.go"),
			},
			other: []domain.Changeset{
				cs("Z", "shared.go"),
				cs("B", "different.go"),
			},
			want: []string{"B"},
		},
		{
			name:  "preserves base order",
			base:  []domain.Changeset{cs("C"), cs("A"), cs("B")},
			other: []domain.Changeset{cs("A"), cs("B"), cs("C")},
			want:  []string{"C", "A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntersectByRevision(tt.base, tt.other)

			var revs []string
			for _, c := range got {
				revs = append(revs, c.Revision)
			}
			assert.Equal(t, tt.want, revs)
		})
	}
}
