package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultDefinitions is the built-in rule set.
func DefaultDefinitions() map[string]Definition {
	return map[string]Definition{
		"bools": {
			Parent:    ".pyright",
			NameMatch: "(is|has)_.*",
			TypeName:  "bool",
		},
		"self_params": {
			Parent:     ".pyright",
			Categories: []string{"function"},
			NameMatch:  "self",
			TypeName:   "torch.Tensor",
		},
	}
}

// Defaults compiles DefaultDefinitions.
func Defaults() *Set {
	s, err := Compile(DefaultDefinitions())
	if err != nil {
		panic("rules: built-in rule set: " + err.Error())
	}
	return s
}

// Parse resolves a --rule-set value: empty selects the defaults, text
// containing '{' is inline JSON, anything else is a file path.
func Parse(arg string) (*Set, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return Defaults(), nil
	case strings.Contains(arg, "{"):
		defs, err := decodeJSON([]byte(arg))
		if err != nil {
			return nil, fmt.Errorf("inline rule set: %w", err)
		}
		return Compile(defs)
	default:
		return Load(arg)
	}
}

// Load reads a rule set file; the format follows the extension
// (.json, .toml, .yaml, .yml).
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Compile(defs)
}

// Decode parses rule definitions in the format named by ext.
func Decode(ext string, data []byte) (map[string]Definition, error) {
	switch strings.ToLower(ext) {
	case ".json", "":
		return decodeJSON(data)
	case ".toml":
		var defs map[string]Definition
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&defs)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
		return defs, nil
	case ".yaml", ".yml":
		var defs map[string]Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&defs); err != nil {
			return nil, err
		}
		return defs, nil
	}
	return nil, fmt.Errorf("unsupported rule set format %q", ext)
}

func decodeJSON(data []byte) (map[string]Definition, error) {
	var defs map[string]Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return nil, err
	}
	return defs, nil
}
