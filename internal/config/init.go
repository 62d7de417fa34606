package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init writes an example project configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	retries := 3
	example := File{
		NotionSync: Section{
			RootPage:       "https://www.notion.so/your-workspace/Engineering-Docs-0123456789abcdef0123456789abcdef",
			IgnoreDirs:     StringList{"node_modules", "vendor"},
			SourceLinkBase: "https://github.com/example/repo/blob/main/",
			Token:          "${NOTION_TOKEN}",
			Extensions:     StringList{".md"},
			Fingerprint:    "md5",
			Concurrency:    1,
			Retry: RetrySection{
				Mode:       string(RetryBackoffExponential),
				Initial:    "1s",
				Max:        "30s",
				MaxRetries: &retries,
			},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
