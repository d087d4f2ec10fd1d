package storage

import (
	"github.com/ultrapreps/visionqa/pkg/domain/plugin"
)

// SavePluginRegistry writes the analyzer registry to plugins.yaml.
func (r *FilesystemRepository) SavePluginRegistry(reg *plugin.Registry) error {
	return r.writeYAML(PluginsFile, reg)
}

// LoadPluginRegistry reads plugins.yaml. A missing file is an empty registry.
func (r *FilesystemRepository) LoadPluginRegistry() (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	if _, err := r.readYAML(PluginsFile, reg); err != nil {
		return nil, err
	}
	if reg.Analyzers == nil {
		reg.Analyzers = make(map[string]plugin.Entry)
	}
	return reg, nil
}

// LookupPlugin returns the analyzer registered under name.
func (r *FilesystemRepository) LookupPlugin(name string) (plugin.Entry, error) {
	reg, err := r.LoadPluginRegistry()
	if err != nil {
		return plugin.Entry{}, err
	}
	return reg.Lookup(name)
}

// RegisterPlugin stores e under name, replacing any earlier entry.
func (r *FilesystemRepository) RegisterPlugin(name string, e plugin.Entry) error {
	reg, err := r.LoadPluginRegistry()
	if err != nil {
		return err
	}
	if err := reg.Register(name, e); err != nil {
		return err
	}
	return r.SavePluginRegistry(reg)
}

// RemovePlugin drops the analyzer registered under name.
func (r *FilesystemRepository) RemovePlugin(name string) error {
	reg, err := r.LoadPluginRegistry()
	if err != nil {
		return err
	}
	if err := reg.Remove(name); err != nil {
		return err
	}
	return r.SavePluginRegistry(reg)
}
