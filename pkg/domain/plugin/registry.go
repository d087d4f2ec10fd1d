package plugin

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

var (
	ErrInvalidName   = errors.New("invalid plugin name")
	ErrNotRegistered = errors.New("plugin not registered")
)

// Names double as plugin_path values, so they must never look like a file path.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateName checks that name can be used to select a registered analyzer.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Entry locates one analyzer binary.
type Entry struct {
	Binary       string    `yaml:"binary" json:"binary"`
	Description  string    `yaml:"description,omitempty" json:"description,omitempty"`
	RegisteredAt time.Time `yaml:"registered_at,omitempty" json:"registered_at,omitempty"`
}

// Registry holds the analyzers a workspace can select as its vision backend with
// provider: plugin and plugin_path set to the analyzer's name.
type Registry struct {
	Analyzers map[string]Entry `yaml:"plugins" json:"plugins"`
}

func NewRegistry() *Registry {
	return &Registry{Analyzers: make(map[string]Entry)}
}

// Register adds or replaces the analyzer stored under name.
func (r *Registry) Register(name string, e Entry) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if e.Binary == "" {
		return fmt.Errorf("plugin %s: binary path cannot be empty", name)
	}
	if r.Analyzers == nil {
		r.Analyzers = make(map[string]Entry)
	}
	r.Analyzers[name] = e
	return nil
}

// Lookup returns the analyzer registered under name.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, ok := r.Analyzers[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return e, nil
}

// Remove drops the analyzer registered under name.
func (r *Registry) Remove(name string) error {
	if _, ok := r.Analyzers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	delete(r.Analyzers, name)
	return nil
}

// Names returns the registered analyzer names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Analyzers))
	for name := range r.Analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
