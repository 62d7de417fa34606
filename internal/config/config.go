package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notionsync/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/gitinfo"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	RepositoryRoot string
	// ConfigPath is an explicit config file. When empty, DefaultFileName in the
	// repository root is used if it exists.
	ConfigPath string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv LookupFunc
	// SourceLinkDeriver computes a link base when none is configured. Defaults to
	// gitinfo.SourceLinkBase.
	SourceLinkDeriver func(root string) (string, error)
}

// Load resolves the layered configuration (environment, .env, config file,
// defaults) into a SyncConfig. A missing root page reference is a fatal
// configuration error.
func Load(opts LoadOptions) (*SyncConfig, error) {
	root, err := resolveRoot(opts.RepositoryRoot)
	if err != nil {
		return nil, err
	}

	process := opts.LookupEnv
	if process == nil {
		process = os.LookupEnv
	}
	dotenv, envFile, err := readDotEnv(root)
	if err != nil {
		return nil, ferrors.ConfigError("parse .env file").WithCause(err).WithContext("path", envFile).Build()
	}
	if envFile != "" {
		slog.Debug("Loaded environment file", logfields.Path(envFile))
	}
	env := layered(process, dotenv)

	section, source, err := readFile(root, opts.ConfigPath, env)
	if err != nil {
		return nil, err
	}

	cfg := &SyncConfig{
		RepositoryRoot: root,
		RepositoryName: filepath.Base(root),
		Source:         source,
	}

	cfg.RootPage = pick(env, EnvRootPage, section.RootPage)
	if ignore, ok := env(EnvIgnoreDirs); ok {
		cfg.IgnoredPathSubstrings = SplitList(ignore)
	} else {
		cfg.IgnoredPathSubstrings = []string(section.IgnoreDirs)
	}
	cfg.SourceLinkBaseURL = pick(env, EnvSourceLinkBase, section.SourceLinkBase)
	cfg.Token = pick(env, EnvToken, pick(env, EnvTokenLegacy, section.Token))
	cfg.APIURL = strings.TrimRight(pick(env, EnvAPIURL, section.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	exts := []string(section.Extensions)
	if raw, ok := env(EnvExtensions); ok {
		exts = SplitList(raw)
	}
	cfg.Extensions = normalizeExtensions(exts)

	alg, err := fingerprint.Parse(pick(env, EnvFingerprint, section.Fingerprint))
	if err != nil {
		return nil, ferrors.ConfigError("invalid fingerprint algorithm").WithCause(err).Build()
	}
	cfg.Fingerprint = alg

	cfg.Concurrency = section.Concurrency
	if raw, ok := env(EnvConcurrency); ok {
		n, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil {
			return nil, ferrors.ConfigError("invalid concurrency").WithCause(convErr).WithContext("env", EnvConcurrency).Build()
		}
		cfg.Concurrency = n
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	cfg.TitleFromFrontmatter = section.TitleFromFM
	if raw, ok := env(EnvTitleFromFM); ok && strings.TrimSpace(raw) != "" {
		b, convErr := strconv.ParseBool(strings.TrimSpace(raw))
		if convErr != nil {
			return nil, ferrors.ConfigError("invalid boolean").WithCause(convErr).WithContext("env", EnvTitleFromFM).Build()
		}
		cfg.TitleFromFrontmatter = b
	}

	cfg.Retry, err = resolveRetry(section.Retry)
	if err != nil {
		return nil, err
	}

	if cfg.SourceLinkBaseURL == "" {
		derive := opts.SourceLinkDeriver
		if derive == nil {
			derive = gitinfo.SourceLinkBase
		}
		if base, deriveErr := derive(root); deriveErr != nil {
			slog.Debug("No source link base derived from git", logfields.Error(deriveErr))
		} else {
			cfg.SourceLinkBaseURL = base
		}
	}

	if strings.TrimSpace(cfg.RootPage) == "" {
		return nil, ferrors.ConfigError("root page reference is required").
			WithContext("env", EnvRootPage).
			WithContext("key", "notionsync.root_page").
			Build()
	}
	return cfg, nil
}

func resolveRoot(raw string) (string, error) {
	if raw == "" {
		raw = "."
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", ferrors.ConfigError("resolve repository root").WithCause(err).WithContext("path", raw).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", ferrors.ConfigError("repository root not accessible").WithCause(err).WithContext("path", abs).Build()
	}
	if !info.IsDir() {
		return "", ferrors.ConfigError("repository root is not a directory").WithContext("path", abs).Build()
	}
	return abs, nil
}

// readFile loads the notionsync section. An explicitly requested file must exist.
func readFile(root, explicit string, env LookupFunc) (Section, string, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(root, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return Section{}, "", nil
		}
		return Section{}, "", ferrors.ConfigError("read configuration file").WithCause(err).WithContext("path", path).Build()
	}

	expanded := os.Expand(string(data), func(key string) string {
		v, _ := env(key)
		return v
	})

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return Section{}, "", ferrors.ConfigError("parse configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return file.NotionSync, path, nil
}

func resolveRetry(rs RetrySection) (RetryConfig, error) {
	rc := RetryConfig{Mode: rs.Mode, MaxRetries: -1}
	if rs.MaxRetries != nil {
		rc.MaxRetries = *rs.MaxRetries
	}
	var err error
	if rc.Initial, err = parseDuration("retry.initial", rs.Initial); err != nil {
		return rc, err
	}
	if rc.Max, err = parseDuration("retry.max", rs.Max); err != nil {
		return rc, err
	}
	if rs.Mode != "" && NormalizeRetryBackoff(rs.Mode) == "" {
		return rc, ferrors.ConfigError("unknown retry mode").WithContext("key", "retry.mode").WithContext("value", rs.Mode).Build()
	}
	return rc, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, ferrors.ConfigError(fmt.Sprintf("invalid duration for %s", key)).WithCause(err).Build()
	}
	return d, nil
}

func pick(env LookupFunc, key, fallback string) string {
	if v, ok := env(key); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(fallback)
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return []string{".md"}
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return []string{".md"}
	}
	return out
}
