package report

import (
	"encoding/json"
	"sort"

	"fixo/internal/message"
)

// Pyrefly reads `pyrefly report` output.
type Pyrefly struct{}

func (Pyrefly) Name() string { return "pyrefly" }

type pyreflyLocation struct {
	Start struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"start"`
	End struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"end"`
}

type pyreflyFunction struct {
	Name             string          `json:"name"`
	Location         pyreflyLocation `json:"location"`
	ReturnAnnotation *string         `json:"return_annotation"`
	Parameters       []struct {
		Name       string          `json:"name"`
		Annotation *string         `json:"annotation"`
		Location   pyreflyLocation `json:"location"`
	} `json:"parameters"`
}

type pyreflyFile struct {
	Functions []pyreflyFunction `json:"functions"`
}

// Parse yields one function message per missing return annotation and one
// param message per unannotated parameter. Files are visited in sorted order.
func (Pyrefly) Parse(data []byte) ([]message.Message, error) {
	var rep map[string]pyreflyFile
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, badReport("pyrefly", err)
	}
	files := make([]string, 0, len(rep))
	for f := range rep {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []message.Message
	for _, file := range files {
		for _, fn := range rep[file].Functions {
			if empty(fn.ReturnAnnotation) {
				out = append(out, pyreflyMessage(file, fn.Name, fn.Location, message.Function, ""))
			}
			for _, p := range fn.Parameters {
				if empty(p.Annotation) {
					out = append(out, pyreflyMessage(file, fn.Name, p.Location, message.Param, p.Name))
				}
			}
		}
	}
	return out, nil
}

func empty(s *string) bool { return s == nil || *s == "" }

func pyreflyMessage(file, name string, loc pyreflyLocation, cat message.Category, param string) message.Message {
	text := "missing return annotation"
	if cat == message.Param {
		text = "missing annotation for parameter " + param
	}
	return message.Message{
		SourceName: name,
		File:       file,
		Message:    text,
		Start:      message.LineCharacter{Line: loc.Start.Line, Character: loc.Start.Column},
		End:        message.LineCharacter{Line: loc.End.Line, Character: loc.End.Column},
		Category:   cat,
		Param:      param,
	}
}
