package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fixo/internal/annotate"
	"fixo/internal/message"
	"fixo/internal/plan"
	"fixo/internal/pyfile"
	"fixo/internal/report"
)

// Files provides parsed files by path.
type Files interface {
	File(path string) (*pyfile.File, error)
}

// Set is an ordered collection of compiled rules.
type Set struct {
	rules []*Rule
}

// Rules returns the rules in order. The slice must not be modified.
func (s *Set) Rules() []*Rule { return s.rules }

func (s *Set) Len() int { return len(s.rules) }

// Names lists rule names in order.
func (s *Set) Names() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Name
	}
	return out
}

// Get returns the rule called name.
func (s *Set) Get(name string) (*Rule, bool) {
	for _, r := range s.rules {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Select keeps only the named rules, in set order. Unknown names are an error.
func (s *Set) Select(names []string) (*Set, error) {
	if len(names) == 0 {
		return s, nil
	}
	want := make(map[string]bool, len(names))
	var unknown []string
	for _, n := range names {
		if _, ok := s.Get(n); !ok {
			unknown = append(unknown, n)
		}
		want[n] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown rule: %s", strings.Join(unknown, ", "))
	}
	out := &Set{}
	for _, r := range s.rules {
		if want[r.Name] {
			out.rules = append(out.rules, r)
		}
	}
	return out, nil
}

// Parser returns the report parser shared by every rule of the set.
func (s *Set) Parser() (report.Parser, error) {
	if len(s.rules) == 0 {
		return nil, errors.New("empty rule set")
	}
	p := s.rules[0].Parser
	for _, r := range s.rules[1:] {
		if r.Parser.Name() != p.Name() {
			return nil, fmt.Errorf("rules %s and %s read different report formats (%s, %s)",
				s.rules[0].Name, r.Name, p.Name(), r.Parser.Name())
		}
	}
	return p, nil
}

// Warning is a non-fatal problem met while planning.
type Warning struct {
	Rule string
	File string
	Err  error
}

func (w Warning) String() string {
	if w.Rule == "" {
		return fmt.Sprintf("%s: %v", w.File, w.Err)
	}
	return fmt.Sprintf("%s: rule %s: %v", w.File, w.Rule, w.Err)
}

// ErrConflict marks two rules asking for different types in one slot.
var ErrConflict = errors.New("conflicting annotation")

type slot struct {
	file, block, param string
}

// Plan runs every rule over msgs. Files are visited in sorted order, rules
// in set order. A request already planned by an earlier rule is dropped; a
// different type for an already planned slot keeps the first and warns.
// Files that fail to load are reported once and skipped.
func (s *Set) Plan(files Files, msgs []message.Message) (plan.Plan, []Warning) {
	out := plan.Plan{}
	var warnings []Warning

	byFile := message.ByFile(msgs)
	paths := make([]string, 0, len(byFile))
	for p := range byFile {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		pf, err := files.File(path)
		if err != nil {
			warnings = append(warnings, Warning{File: path, Err: err})
			continue
		}
		owners := make(map[slot]string)
		taken := make(map[slot]annotate.Request)
		for _, r := range s.rules {
			for _, m := range byFile[path] {
				if !r.Accept(m) {
					continue
				}
				reqs, err := r.Produce(pf, m)
				if err != nil {
					warnings = append(warnings, Warning{Rule: r.Name, File: path, Err: err})
					continue
				}
				for _, req := range reqs {
					key := slot{path, req.BlockName, req.Param}
					prev, ok := taken[key]
					switch {
					case !ok:
						taken[key] = req
						owners[key] = r.Name
						out.Add(path, req)
					case prev.TypeName != req.TypeName:
						warnings = append(warnings, Warning{Rule: r.Name, File: path,
							Err: fmt.Errorf("%w: %s wants %s, keeping %s from rule %s",
								ErrConflict, slotName(req), req.TypeName, prev.TypeName, owners[key])})
					}
				}
			}
		}
	}
	return out, warnings
}

func slotName(r annotate.Request) string {
	if r.IsReturn() {
		return r.BlockName + " return"
	}
	return r.BlockName + "(" + r.Param + ")"
}
