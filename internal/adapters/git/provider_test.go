package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnerFromURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantErr   bool
	}{
		{
			name:      "HTTPS URL with .git suffix",
			url:       "https://github.com/acme/widgets.git",
			wantOwner: "acme/widgets",
			wantErr:   false,
		},
		{
			name:      "HTTPS URL without .git suffix",
			url:       "https://github.com/acme/widgets",
			wantOwner: "acme/widgets",
			wantErr:   false,
		},
		{
			name:      "SSH URL with .git suffix",
			url:       "git@github.com:acme/widgets.git",
			wantOwner: "acme/widgets",
			wantErr:   false,
		},
		{
			name:      "SSH URL without .git suffix",
			url:       "git@github.com:acme/widgets",
			wantOwner: "acme/widgets",
			wantErr:   false,
		},
		{
			name:      "HTTPS URL with different host",
			url:       "https://gitlab.com/owner/project.git",
			wantOwner: "owner/project",
			wantErr:   false,
		},
		{
			name:      "URL with whitespace trimmed",
			url:       "  https://github.com/owner/repo.git  ",
			wantOwner: "owner/repo",
			wantErr:   false,
		},
		{
			name:    "invalid URL - no path",
			url:     "https://github.com",
			wantErr: true,
		},
		{
			name:    "invalid URL - only owner",
			url:     "https://github.com/owner",
			wantErr: true,
		},
		{
			name:    "invalid URL - empty string",
			url:     "",
			wantErr: true,
		},
		{
			name:    "invalid URL - file path",
			url:     "/path/to/repo",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := parseOwnerFromURL(tt.url)

			if tt.wantErr {
				require.Error(t, err, "expected error for URL: %s", tt.url)
				return
			}

			require.NoError(t, err, "unexpected error for URL: %s", tt.url)
			assert.Equal(t, tt.wantOwner, owner, "owner mismatch")
		})
	}
}
