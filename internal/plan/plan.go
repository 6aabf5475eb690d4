// Package plan is the persisted unit of deferred work: for each file, the
// ordered annotation requests to apply to it.
package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"fixo/internal/annotate"
)

// ErrBadPlan wraps decoding failures.
var ErrBadPlan = errors.New("malformed plan")

// Plan maps a file path to its requests. The JSON form is an object keyed by
// path with arrays of request records.
type Plan map[string][]annotate.Request

// Add appends reqs for path.
func (p Plan) Add(path string, reqs ...annotate.Request) {
	p[path] = append(p[path], reqs...)
}

// Files returns the paths in sorted order.
func (p Plan) Files() []string {
	out := make([]string, 0, len(p))
	for f := range p {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len counts requests over all files.
func (p Plan) Len() int {
	n := 0
	for _, reqs := range p {
		n += len(reqs)
	}
	return n
}

// Merge appends every request of other.
func (p Plan) Merge(other Plan) {
	for _, f := range other.Files() {
		p.Add(f, other[f]...)
	}
}

// Encode writes p as JSON indented with four spaces. Files without requests
// are kept so that an empty result still lists what was examined.
func (p Plan) Encode(w io.Writer) error {
	m := make(map[string][]annotate.Request, len(p))
	for f, reqs := range p {
		if reqs == nil {
			reqs = []annotate.Request{}
		}
		m[f] = reqs
	}
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Decode reads a plan. Requests may use the older function_name and
// prefer_as keys.
func Decode(r io.Reader) (Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	if p == nil {
		p = Plan{}
	}
	return p, nil
}

// Load reads a plan file.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path.
func (p Plan) Save(path string) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
