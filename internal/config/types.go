package config

import (
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notionsync/internal/fingerprint"
)

// DefaultFileName is looked up in the repository root when no --config is given.
const DefaultFileName = ".notionsync.yaml"

// DefaultAPIURL is the Notion public API endpoint.
const DefaultAPIURL = "https://api.notion.com"

// Environment variables consulted before the config file.
const (
	EnvRootPage       = "NOTION_ROOT_PAGE"
	EnvIgnoreDirs     = "NOTION_IGNORE_DIRS"
	EnvSourceLinkBase = "GITHUB_REPO_ROOT"
	EnvToken          = "NOTION_TOKEN"
	EnvTokenLegacy    = "NOTION_TOKEN_V2"
	EnvAPIURL         = "NOTION_API_URL"
	EnvExtensions     = "NOTIONSYNC_EXTENSIONS"
	EnvFingerprint    = "NOTIONSYNC_FINGERPRINT"
	EnvConcurrency    = "NOTIONSYNC_CONCURRENCY"
	EnvTitleFromFM    = "NOTIONSYNC_TITLE_FROM_FRONTMATTER"
)

// File is the on-disk project configuration. Only the notionsync section is read,
// so the file can live alongside other tools' settings.
type File struct {
	NotionSync Section `yaml:"notionsync"`
}

// Section holds the notionsync keys of the project configuration file.
type Section struct {
	RootPage       string       `yaml:"root_page"`
	IgnoreDirs     StringList   `yaml:"ignore_dirs,omitempty"`
	SourceLinkBase string       `yaml:"source_link_base,omitempty"`
	Token          string       `yaml:"token,omitempty"`
	APIURL         string       `yaml:"api_url,omitempty"`
	Extensions     StringList   `yaml:"extensions,omitempty"`
	Fingerprint    string       `yaml:"fingerprint,omitempty"`
	Concurrency    int          `yaml:"concurrency,omitempty"`
	TitleFromFM    bool         `yaml:"title_from_frontmatter,omitempty"`
	Retry          RetrySection `yaml:"retry,omitempty"`
}

// RetrySection is the retry block of the config file. Durations use Go syntax ("1s", "250ms").
type RetrySection struct {
	Mode       string `yaml:"mode,omitempty"`
	Initial    string `yaml:"initial,omitempty"`
	Max        string `yaml:"max,omitempty"`
	MaxRetries *int   `yaml:"max_retries,omitempty"`
}

// StringList accepts either a comma-separated scalar or a YAML sequence.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = SplitList(value.Value)
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*l = compact(items)
	return nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping empties.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return compact(strings.Split(raw, ","))
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SyncConfig is the fully resolved configuration of one run. It is built once by
// Load and never mutated afterwards.
type SyncConfig struct {
	RepositoryRoot        string // absolute path
	RepositoryName        string // basename of RepositoryRoot; title of the repository page
	RootPage              string // opaque page reference (id or URL)
	IgnoredPathSubstrings []string
	SourceLinkBaseURL     string
	Extensions            []string // lowercase, with leading dot
	Fingerprint           fingerprint.Algorithm
	Concurrency           int
	TitleFromFrontmatter  bool // prefer the frontmatter title over the first line
	Token                 string
	APIURL                string
	Retry                 RetryConfig
	Source                string // config file that contributed values, empty when none
}
