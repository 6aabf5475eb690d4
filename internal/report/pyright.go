package report

import (
	"encoding/json"
	"errors"
	"regexp"

	"fixo/internal/message"
)

// Pyright reads `pyright --outputjson --verifytypes` reports.
type Pyright struct{}

func (Pyright) Name() string { return "pyright" }

type pyrightPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type pyrightDiagnostic struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Range    *struct {
		Start pyrightPosition `json:"start"`
		End   pyrightPosition `json:"end"`
	} `json:"range"`
}

type pyrightReport struct {
	TypeCompleteness *struct {
		Symbols []struct {
			Category    string              `json:"category"`
			Name        string              `json:"name"`
			Diagnostics []pyrightDiagnostic `json:"diagnostics"`
		} `json:"symbols"`
	} `json:"typeCompleteness"`
}

var pyrightParamRe = regexp.MustCompile(`parameter "([^"]+)"`)

// Parse keeps diagnostics that carry a range: parameter diagnostics become
// param messages, the rest of function and method diagnostics become
// function messages. Lines are converted to 1-based.
func (Pyright) Parse(data []byte) ([]message.Message, error) {
	var rep pyrightReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, badReport("pyright", err)
	}
	if rep.TypeCompleteness == nil {
		return nil, badReport("pyright", errors.New("no typeCompleteness section"))
	}
	var out []message.Message
	for _, sym := range rep.TypeCompleteness.Symbols {
		for _, d := range sym.Diagnostics {
			if d.Range == nil {
				continue
			}
			m := message.Message{
				SourceName: sym.Name,
				File:       d.File,
				Severity:   d.Severity,
				Message:    d.Message,
				Start:      message.LineCharacter{Line: d.Range.Start.Line + 1, Character: d.Range.Start.Character},
				End:        message.LineCharacter{Line: d.Range.End.Line + 1, Character: d.Range.End.Character},
			}
			if sub := pyrightParamRe.FindStringSubmatch(d.Message); sub != nil {
				m.Category = message.Param
				m.Param = sub[1]
			} else if sym.Category == "function" || sym.Category == "method" {
				m.Category = message.Function
			} else {
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}
