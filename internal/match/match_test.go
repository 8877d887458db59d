package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{
			name:    "double star matches nested file",
			pattern: "src/**/*.go",
			path:    "src/pkg/sub/file.go",
			want:    true,
		},
		{
			name:    "double star matches zero directories",
			pattern: "src/**/*.go",
			path:    "src/file.go",
			want:    true,
		},
		{
			name:    "unrelated file does not match",
			pattern: "src/**/*.go",
			path:    "README.md",
			want:    false,
		},
		{
			name:    "single star does not cross separator",
			pattern: "*.txt",
			path:    "dir/notes.txt",
			want:    false,
		},
		{
			name:    "single star matches within one segment",
			pattern: "*.txt",
			path:    "notes.txt",
			want:    true,
		},
		{
			name:    "trailing double star matches subtree",
			pattern: "docs/**",
			path:    "docs/guides/install.md",
			want:    true,
		},
		{
			name:    "trailing double star matches direct child",
			pattern: "docs/**",
			path:    "docs/readme.md",
			want:    true,
		},
		{
			name:    "trailing double star does not match sibling",
			pattern: "docs/**",
			path:    "src/main.go",
			want:    false,
		},
		{
			name:    "trailing separator implies double star",
			pattern: "docs/",
			path:    "docs/readme.md",
			want:    true,
		},
		{
			name:    "leading double star matches any depth",
			pattern: "**/Makefile",
			path:    "a/b/c/Makefile",
			want:    true,
		},
		{
			name:    "leading double star matches root",
			pattern: "**/Makefile",
			path:    "Makefile",
			want:    true,
		},
		{
			name:    "question mark matches one character",
			pattern: "file?.go",
			path:    "file1.go",
			want:    true,
		},
		{
			name:    "question mark needs exactly one character",
			pattern: "file?.go",
			path:    "file.go",
			want:    false,
		},
		{
			name:    "question mark does not match separator",
			pattern: "a?b",
			path:    "a/b",
			want:    false,
		},
		{
			name:    "matching is anchored not substring",
			pattern: "pkg/*.go",
			path:    "src/pkg/main.go",
			want:    false,
		},
		{
			name:    "matching is case sensitive",
			pattern: "Docs/**",
			path:    "docs/readme.md",
			want:    false,
		},
		{
			name:    "exact literal path",
			pattern: "go.mod",
			path:    "go.mod",
			want:    true,
		},
		{
			name:    "double star between literals",
			pattern: "src/**/testdata/**",
			path:    "src/a/b/testdata/x/y.json",
			want:    true,
		},
		{
			name:    "double star between literals requires middle literal",
			pattern: "src/**/testdata/**",
			path:    "src/a/b/fixtures/x/y.json",
			want:    false,
		},
		{
			name:    "consecutive double stars collapse",
			pattern: "**/**/*.go",
			path:    "main.go",
			want:    true,
		},
		{
			name:    "pattern longer than path",
			pattern: "a/b/c",
			path:    "a/b",
			want:    false,
		},
		{
			name:    "path longer than pattern",
			pattern: "a/b",
			path:    "a/b/c",
			want:    false,
		},
		{
			name:    "empty pattern never matches a file",
			pattern: "",
			path:    "a.txt",
			want:    false,
		},
		{
			name:    "star and literal mix backtracks",
			pattern: "*a*b",
			path:    "xaxaxb",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Matches(tt.pattern, tt.path)
			assert.Equal(t, tt.want, got, "pattern %q against path %q", tt.pattern, tt.path)
		})
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"docs/**", "src/**/*.go"}

	assert.True(t, MatchesAny(patterns, "docs/readme.md"))
	assert.True(t, MatchesAny(patterns, "src/pkg/main.go"))
	assert.False(t, MatchesAny(patterns, "build/output.bin"))
	assert.False(t, MatchesAny(nil, "docs/readme.md"))
	assert.False(t, MatchesAny([]string{}, "anything"))
}

func TestMatchesAny_FirstMatchWins(t *testing.T) {
	// Both patterns match; the call must still return true after the first.
	patterns := []string{"**", "docs/**"}
	assert.True(t, MatchesAny(patterns, "docs/readme.md"))
}
