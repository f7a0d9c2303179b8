package model

// FileStatus is the outcome of formatting one file.
type FileStatus int

const (
	// Unchanged indicates no rule changed the file.
	Unchanged FileStatus = iota
	// Formatted indicates at least one rule changed the file.
	Formatted
	// Cached indicates the file matched its cached formatted form and skipped per-file rules.
	Cached
	// Failed indicates parsing or a rule failed for the file.
	Failed
)

func (s FileStatus) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Formatted:
		return "formatted"
	case Cached:
		return "cached"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult holds the formatting outcome for a single document.
type FileResult struct {
	Path    Path       `yaml:"path"`
	Grammar Grammar    `yaml:"grammar"`
	Status  FileStatus `yaml:"-"`
	State   string     `yaml:"status"`
	Rules   []string   `yaml:"rules,omitempty"` // rules that changed the file, in application order
	Phase   string     `yaml:"phase,omitempty"` // phase that failed
	Message string     `yaml:"error,omitempty"`
	Err     error      `yaml:"-"`
}

// RunReport aggregates a formatting run.
type RunReport struct {
	Files       []FileResult `yaml:"files"`
	GlobalRules []string     `yaml:"global_rules,omitempty"` // global rules that committed edits
	Errors      []string     `yaml:"errors,omitempty"`       // program-level failures
}

// Count returns how many files have status.
func (r *RunReport) Count(status FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}

	return n
}

// Changed lists the paths of formatted files.
func (r *RunReport) Changed() []Path {
	var out []Path
	for _, f := range r.Files {
		if f.Status == Formatted {
			out = append(out, f.Path)
		}
	}

	return out
}
