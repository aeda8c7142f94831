package types

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestSchemaVersion is written into every document this tool persists.
const ManifestSchemaVersion = 1

// RepositoryDescriptor is a version-control source. Robot files use the
// key "repo" for the checkout directory name; "name" is accepted as an
// alias.
type RepositoryDescriptor struct {
	URL    string `yaml:"url"`
	Name   string `yaml:"repo"`
	Branch string `yaml:"branch,omitempty"`
}

// Resolvable reports whether the descriptor can be cloned at all.
func (d RepositoryDescriptor) Resolvable() bool {
	return strings.TrimSpace(d.URL) != ""
}

func (d *RepositoryDescriptor) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		URL    *string `yaml:"url"`
		Repo   *string `yaml:"repo"`
		Name   *string `yaml:"name"`
		Branch *string `yaml:"branch"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*d = RepositoryDescriptor{}
	if raw.URL != nil {
		d.URL = strings.TrimSpace(*raw.URL)
	}
	if raw.Repo != nil {
		d.Name = strings.TrimSpace(*raw.Repo)
	} else if raw.Name != nil {
		d.Name = strings.TrimSpace(*raw.Name)
	}
	if raw.Branch != nil {
		d.Branch = strings.TrimSpace(*raw.Branch)
	}
	if d.Name == "" && d.URL != "" {
		d.Name = repoNameFromURL(d.URL)
	}
	return nil
}

func repoNameFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx != -1 {
		trimmed = trimmed[idx+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}

// CollectManifest lists everything the Collect phase acquires.
type CollectManifest struct {
	RTM    []string               `yaml:"rtm"`
	Apt    []string               `yaml:"apt"`
	Pip    []string               `yaml:"pip"`
	Git    []RepositoryDescriptor `yaml:"git"`
	Engine []string               `yaml:"engine"`
	Other  []string               `yaml:"other"`
}

// FlatLists exposes the string categories by manifest key.
func (m *CollectManifest) FlatLists() map[string]*[]string {
	return map[string]*[]string{
		CollectKeyRTM:    &m.RTM,
		CollectKeyApt:    &m.Apt,
		CollectKeyPip:    &m.Pip,
		CollectKeyEngine: &m.Engine,
		CollectKeyOther:  &m.Other,
	}
}

// RunManifest lists everything the Run phase launches.
type RunManifest struct {
	RTM       []string `yaml:"rtm"`
	Rosrun    []string `yaml:"rosrun"`
	Roslaunch []string `yaml:"roslaunch"`
}

func (m *RunManifest) Lists() map[string]*[]string {
	return map[string]*[]string{
		RunKeyRTM:       &m.RTM,
		RunKeyRosrun:    &m.Rosrun,
		RunKeyRoslaunch: &m.Roslaunch,
	}
}

// ManifestDocument is the persisted, versioned unit exchanged between
// phase invocations. Revision increases by one on every write.
type ManifestDocument struct {
	SchemaVersion int              `yaml:"schema_version,omitempty"`
	Revision      int              `yaml:"revision,omitempty"`
	UpdatedBy     string           `yaml:"updated_by,omitempty"`
	UpdatedAt     *time.Time       `yaml:"updated_at,omitempty"`
	Collect       *CollectManifest `yaml:"collect,omitempty"`
	Run           *RunManifest     `yaml:"run,omitempty"`
}

// CollectOrEmpty never returns nil so callers can range freely.
func (d ManifestDocument) CollectOrEmpty() CollectManifest {
	if d.Collect == nil {
		return CollectManifest{}
	}
	return *d.Collect
}

func (d ManifestDocument) RunOrEmpty() RunManifest {
	if d.Run == nil {
		return RunManifest{}
	}
	return *d.Run
}

// LaunchDescriptor is one resolved launch item.
type LaunchDescriptor struct {
	Kind   LaunchKind
	Target string
}
