// Package domain defines the core business entities and interfaces for regiongate.
package domain

// Source identifies the repository a head belongs to. For the local git
// provider this is a filesystem path; remote providers may accept a URL.
type Source struct {
	// Path is the repository location understood by the ChangesetProvider.
	Path string
}

// Owner identifies who a source belongs to, in owner/repo form.
// Derived from the 'origin' remote URL by the git provider.
type Owner struct {
	Name string
}

// Head is a named line of development: a branch or a pull request.
// Pull-request-ness is carried by the revision, not the head (see Revision).
type Head struct {
	// Name is the branch or pull request name, e.g. "main" or "PR-42".
	Name string
}

// Revision is an immutable identifier for a point in a head's history.
// It is a closed sum: PlainRevision for ordinary branch tips and
// PullRequestRevision for pull requests, which carry both the pull head
// and the merge target. Callers discriminate with a type switch.
// A nil Revision means "no revision recorded" (e.g. no previous build).
type Revision interface {
	// Hash returns the commit identifier this revision resolves to.
	Hash() string

	// String renders the revision for cache keys and log lines.
	String() string

	isRevision()
}

// PlainRevision is a single commit on an ordinary branch.
type PlainRevision struct {
	SHA string
}

func (r PlainRevision) Hash() string   { return r.SHA }
func (r PlainRevision) String() string { return r.SHA }
func (r PlainRevision) isRevision()    {}

// PullRequestRevision is the revision pair of a pull request: the pull
// head itself and the target branch revision it would merge into.
type PullRequestRevision struct {
	Pull   PlainRevision
	Target PlainRevision
}

// Hash returns the pull head's commit identifier.
func (r PullRequestRevision) Hash() string { return r.Pull.SHA }

func (r PullRequestRevision) String() string { return r.Pull.SHA + "+" + r.Target.SHA }
func (r PullRequestRevision) isRevision()    {}

// Changeset is one committed change: a revision identifier plus the file
// paths it touches. Changesets are immutable once produced by a provider.
type Changeset struct {
	// Revision is the commit identifier of this change.
	Revision string

	// Files are the repository-relative paths touched by this change,
	// using forward slashes regardless of platform.
	Files []string
}

// MaxChangesets bounds how many changesets a provider enumerates for one
// decision. Histories deeper than this are truncated at the oldest end.
const MaxChangesets = 1024
