package watch

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludes matches the image formats generation pipelines produce.
var DefaultIncludes = []string{"**/*.{png,jpg,jpeg,webp,gif}"}

// PatternFilter filters file paths based on include/exclude doublestar patterns.
// Patterns are matched against the slash-separated path relative to Root and, for
// patterns without a separator, against the base name.
type PatternFilter struct {
	Root    string
	Include []string
	Exclude []string
}

// NewPatternFilter creates a new pattern filter. Invalid patterns are rejected.
func NewPatternFilter(root string, include, exclude []string) (*PatternFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
	}
	return &PatternFilter{
		Root:    root,
		Include: include,
		Exclude: exclude,
	}, nil
}

// PatternError reports a malformed glob.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string { return "invalid watch pattern: " + e.Pattern }

// Matches returns true if the path passes the filter.
// If include patterns are set, at least one must match.
// If exclude patterns are set, none must match.
func (f *PatternFilter) Matches(path string) bool {
	rel := path
	if f.Root != "" {
		if r, err := filepath.Rel(f.Root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range f.Exclude {
		if match(pattern, rel, base) {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if match(pattern, rel, base) {
			return true
		}
	}

	return false
}

func match(pattern, rel, base string) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	ok, _ := doublestar.Match(pattern, base)
	return ok
}
