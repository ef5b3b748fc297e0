package project

// Metadata describes the create-fun package itself: what it is called on the
// registry, which version is running, and where its templates live.
type Metadata struct {
	Name        string                   `toml:"name"`
	Version     string                   `toml:"version"`
	Description string                   `toml:"description,omitempty"`
	Registry    string                   `toml:"registry,omitempty"`
	Repository  string                   `toml:"repository,omitempty"` // owner/repo used for release lookups
	Templates   map[string]TemplateEntry `toml:"templates,omitempty"`
}

// TemplateEntry is a single row of the template table.
type TemplateEntry struct {
	Framework string `toml:"framework"`
	Variant   string `toml:"variant"`
	Source    string `toml:"source"`
}

// UserConfig is the optional per-user configuration file.
// Fields left empty keep the package defaults.
type UserConfig struct {
	Registry  string                   `toml:"registry,omitempty"`
	Templates map[string]TemplateEntry `toml:"templates,omitempty"`
}

// NewMetadata creates and returns a Metadata instance with initialized maps.
func NewMetadata() *Metadata {
	return &Metadata{
		Templates: make(map[string]TemplateEntry),
	}
}

// Merge overlays the user configuration on top of m and returns the result.
// m itself is left untouched.
func (m *Metadata) Merge(uc *UserConfig) *Metadata {
	merged := *m
	merged.Templates = make(map[string]TemplateEntry, len(m.Templates))
	for name, entry := range m.Templates {
		merged.Templates[name] = entry
	}
	if uc == nil {
		return &merged
	}
	if uc.Registry != "" {
		merged.Registry = uc.Registry
	}
	for name, entry := range uc.Templates {
		merged.Templates[name] = entry
	}
	return &merged
}
