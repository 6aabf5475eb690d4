package rules

import (
	"fmt"
	"regexp"
	"sort"

	"fixo/internal/message"
	"fixo/internal/report"
)

// Definition is a rule as written in a rule set file. Empty fields are taken
// from Parent, which names a preset or another rule of the same set.
type Definition struct {
	Parent            string            `json:"parent,omitempty" toml:"parent" yaml:"parent,omitempty"`
	ParseIntoMessages string            `json:"parse_into_messages,omitempty" toml:"parse_into_messages" yaml:"parse_into_messages,omitempty"`
	AcceptMessage     string            `json:"accept_message,omitempty" toml:"accept_message" yaml:"accept_message,omitempty"`
	MessageToEdits    string            `json:"message_to_edits,omitempty" toml:"message_to_edits" yaml:"message_to_edits,omitempty"`
	NameMatch         string            `json:"name_match,omitempty" toml:"name_match" yaml:"name_match,omitempty"`
	Categories        []string          `json:"categories,omitempty" toml:"categories" yaml:"categories,omitempty"`
	TypeName          string            `json:"type_name,omitempty" toml:"type_name" yaml:"type_name,omitempty"`
	PreferImportAs    *bool             `json:"prefer_import_as,omitempty" toml:"prefer_import_as" yaml:"prefer_import_as,omitempty"`
	Match             map[string]string `json:"match,omitempty" toml:"match" yaml:"match,omitempty"`
	Contains          map[string]string `json:"contains,omitempty" toml:"contains" yaml:"contains,omitempty"`
}

// over fills the empty fields of d from parent.
func (d Definition) over(parent Definition) Definition {
	if d.ParseIntoMessages == "" {
		d.ParseIntoMessages = parent.ParseIntoMessages
	}
	if d.AcceptMessage == "" {
		d.AcceptMessage = parent.AcceptMessage
	}
	if d.MessageToEdits == "" {
		d.MessageToEdits = parent.MessageToEdits
	}
	if d.NameMatch == "" {
		d.NameMatch = parent.NameMatch
	}
	if d.Categories == nil {
		d.Categories = parent.Categories
	}
	if d.TypeName == "" {
		d.TypeName = parent.TypeName
	}
	if d.PreferImportAs == nil {
		d.PreferImportAs = parent.PreferImportAs
	}
	d.Match = mergeMap(parent.Match, d.Match)
	d.Contains = mergeMap(parent.Contains, d.Contains)
	return d
}

func mergeMap(base, top map[string]string) map[string]string {
	if len(base) == 0 {
		return top
	}
	out := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Compile resolves parents and strategies of every definition. Rules are
// ordered by name.
func Compile(defs map[string]Definition) (*Set, error) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	set := &Set{}
	for _, name := range names {
		d, err := resolve(name, defs, map[string]bool{})
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		r, err := compileOne(name, d)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		set.rules = append(set.rules, r)
	}
	return set, nil
}

func resolve(name string, defs map[string]Definition, visiting map[string]bool) (Definition, error) {
	if visiting[name] {
		return Definition{}, fmt.Errorf("parent cycle through %q", name)
	}
	visiting[name] = true
	d := defs[name]
	if d.Parent == "" {
		return d, nil
	}
	if _, ok := defs[d.Parent]; ok && d.Parent != name {
		parent, err := resolve(d.Parent, defs, visiting)
		if err != nil {
			return Definition{}, err
		}
		return d.over(parent), nil
	}
	if preset, ok := lookupPreset(d.Parent); ok {
		return d.over(preset), nil
	}
	return Definition{}, fmt.Errorf("unknown parent %q", d.Parent)
}

var knownAttrs = map[string]bool{
	"source_name": true, "name": true, "base_name": true, "file": true,
	"severity": true, "message": true, "category": true, "param": true,
}

func compileOne(name string, d Definition) (*Rule, error) {
	var missing []string
	if d.ParseIntoMessages == "" {
		missing = append(missing, "parse_into_messages")
	}
	if d.AcceptMessage == "" {
		missing = append(missing, "accept_message")
	}
	if d.MessageToEdits == "" {
		missing = append(missing, "message_to_edits")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("not set: %v", missing)
	}
	if d.TypeName == "" {
		return nil, fmt.Errorf("type_name is required")
	}

	r := &Rule{Name: name, TypeName: d.TypeName, Match: d.Match, Contains: d.Contains}
	var err error
	if r.Parser, err = report.Lookup(strategyName(d.ParseIntoMessages)); err != nil {
		return nil, err
	}
	if r.Acceptor, err = lookupAcceptor(d.AcceptMessage); err != nil {
		return nil, err
	}
	if r.Producer, err = lookupProducer(d.MessageToEdits); err != nil {
		return nil, err
	}
	if d.NameMatch != "" {
		if r.NameMatch, err = regexp.Compile(`^(?:` + d.NameMatch + `)$`); err != nil {
			return nil, fmt.Errorf("name_match: %w", err)
		}
	}
	for _, c := range d.Categories {
		switch cat := message.Category(c); cat {
		case message.Function, message.Param:
			r.Categories = append(r.Categories, cat)
		default:
			return nil, fmt.Errorf("unknown category %q", c)
		}
	}
	for _, m := range []map[string]string{d.Match, d.Contains} {
		for field := range m {
			if !knownAttrs[field] {
				return nil, fmt.Errorf("unknown message attribute %q", field)
			}
		}
	}
	if d.PreferImportAs != nil {
		r.PreferImportAs = *d.PreferImportAs
	}
	return r, nil
}
