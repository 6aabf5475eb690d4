// Package annotate turns annotation requests into token edits and applies
// them to one parsed file.
package annotate

import (
	"errors"
	"strings"

	"fixo/internal/edit"
	"fixo/internal/pyfile"
)

// Plan is the set of edits derived from a batch of requests for one file.
type Plan struct {
	Edits   []edit.TokenEdit
	Imports []string // new import statements, in first-seen order
	Applied []Request
	Failed  []*RequestError
}

// Result is the outcome of Annotate.
type Result struct {
	Text    string
	Changed bool
	Edits   []edit.TokenEdit
	Applied []Request
	Failed  []*RequestError
}

// ErrNotIndexed is returned for a file whose blocks could not be built.
var ErrNotIndexed = errors.New("file has no block index")

// PlanEdits locates every request. Failures are recorded per request and do
// not stop the batch. Identical requests are planned once; the new imports
// are merged into a single edit at the file's import insertion point.
func PlanEdits(pf *pyfile.File, reqs []Request) *Plan {
	p := &Plan{}
	seen := make(map[Request]bool, len(reqs))
	pending := make(map[string]string)
	lines := make(map[string]bool)

	for _, req := range reqs {
		if seen[req] {
			continue
		}
		seen[req] = true

		pos, text, bnd, rerr := planOne(pf, req, pending)
		if rerr != nil {
			p.Failed = append(p.Failed, rerr)
			continue
		}
		if bnd.line != "" {
			pending[bnd.alias] = bnd.addr
			if !lines[bnd.line] {
				lines[bnd.line] = true
				p.Imports = append(p.Imports, bnd.line)
			}
		}
		p.Edits = append(p.Edits, edit.TokenEdit{Position: pos, Text: text})
		p.Applied = append(p.Applied, req)
	}

	if len(p.Imports) > 0 {
		pt := pf.InsertImportToken()
		var b strings.Builder
		if pt.NeedNewline {
			b.WriteString(pt.EOL)
		}
		for _, line := range p.Imports {
			b.WriteString(line)
			b.WriteString(pt.EOL)
		}
		p.Edits = append(p.Edits, edit.TokenEdit{Position: pt.Index, Text: b.String()})
	}
	return p
}

func planOne(pf *pyfile.File, req Request, pending map[string]string) (int, string, binding, *RequestError) {
	if req.BlockName == "" || req.TypeName == "" {
		return 0, "", binding{}, failf(req, InvalidRequest, -1, "block_name and type_name are required")
	}
	block, ok := pf.Blocks.ByName(req.BlockName)
	if !ok {
		msg := "no block named " + req.BlockName
		if reason, bad := pf.Blocks.Errors[req.BlockName]; bad {
			msg += " (" + reason + ")"
		}
		return 0, "", binding{}, failf(req, BlockNotFound, -1, "%s", msg)
	}
	pos, err := Locate(pf, block, req.Param)
	if err != nil {
		var rerr *RequestError
		if errors.As(err, &rerr) {
			rerr.Request = req
			return 0, "", binding{}, rerr
		}
		return 0, "", binding{}, failf(req, InvalidRequest, -1, "%v", err)
	}
	bnd, rerr := bind(pf.Imports, req, pending)
	if rerr != nil {
		return 0, "", binding{}, rerr
	}
	if req.IsReturn() {
		return pos, " -> " + bnd.local, bnd, nil
	}
	return pos, ": " + bnd.local, bnd, nil
}

// Annotate plans reqs against pf and renders the edited text. The error is
// structural: the file is not indexed or several edits share a position
// (for example two different types requested for one parameter).
func Annotate(pf *pyfile.File, reqs []Request) (*Result, error) {
	if pf == nil || pf.Blocks == nil || pf.Imports == nil {
		return nil, ErrNotIndexed
	}
	p := PlanEdits(pf, reqs)
	text, err := edit.Apply(p.Edits, pf.Tokens, pf.Source.Content)
	if err != nil {
		return nil, err
	}
	return &Result{
		Text:    text,
		Changed: len(p.Edits) > 0,
		Edits:   p.Edits,
		Applied: p.Applied,
		Failed:  p.Failed,
	}, nil
}
