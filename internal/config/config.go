// Package config loads fixo.toml, .env and FIXO_* overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"fixo/internal/checker"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = "fixo.toml"

const envPrefix = "FIXO_"

// Config is the merged project configuration. CLI flags override it.
type Config struct {
	Path  string      `toml:"-"` // file the values came from, empty for defaults
	Check CheckConfig `toml:"check"`
	Rules RulesConfig `toml:"rules"`
	Edit  EditConfig  `toml:"edit"`
	Cache CacheConfig `toml:"cache"`
}

type CheckConfig struct {
	Command string `toml:"command"`
}

type RulesConfig struct {
	Set    string   `toml:"set"` // path or inline JSON
	Select []string `toml:"select"`
}

type EditConfig struct {
	PreferImportAs bool `toml:"prefer_import_as"`
	Jobs           int  `toml:"jobs"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no fixo.toml exists.
func Default() Config {
	return Config{
		Check: CheckConfig{Command: checker.DefaultCommand},
		Cache: CacheConfig{Enabled: true},
	}
}

// Root is the directory holding the config file, or "" for defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Find walks up from startDir to locate fixo.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Unknown keys are an error; relative
// paths in the file are taken relative to its directory.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Edit.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: edit.jobs must not be negative", path)
	}
	cfg.Path = path
	root := filepath.Dir(path)
	if s := cfg.Rules.Set; s != "" && !strings.Contains(s, "{") && !filepath.IsAbs(s) {
		cfg.Rules.Set = filepath.Join(root, s)
	}
	if d := cfg.Cache.Dir; d != "" && !filepath.IsAbs(d) {
		cfg.Cache.Dir = filepath.Join(root, d)
	}
	return cfg, nil
}

// Resolve builds the configuration for a run started in startDir: the
// explicit file if given, else the nearest fixo.toml, else the defaults.
// A .env next to the config file (or in startDir) is loaded first, then
// FIXO_* variables override file values.
func Resolve(startDir, explicit string) (Config, error) {
	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}

	envDir := startDir
	if path != "" {
		envDir = filepath.Dir(path)
	}
	if err := godotenv.Load(filepath.Join(envDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FIXO_<SECTION>_<KEY> variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	if v, ok := get("CHECK_COMMAND"); ok {
		c.Check.Command = v
	}
	if v, ok := get("RULES_SET"); ok {
		c.Rules.Set = v
	}
	if v, ok := get("RULES_SELECT"); ok {
		c.Rules.Select = splitList(v)
	}
	if v, ok := get("EDIT_PREFER_IMPORT_AS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sEDIT_PREFER_IMPORT_AS: %w", envPrefix, err)
		}
		c.Edit.PreferImportAs = b
	}
	if v, ok := get("EDIT_JOBS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%sEDIT_JOBS: invalid value %q", envPrefix, v)
		}
		c.Edit.Jobs = n
	}
	if v, ok := get("CACHE_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_ENABLED: %w", envPrefix, err)
		}
		c.Cache.Enabled = b
	}
	if v, ok := get("CACHE_DIR"); ok {
		c.Cache.Dir = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
