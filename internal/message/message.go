// Package message holds the checker diagnostics fixo consumes.
package message

import (
	"fmt"
	"strings"
)

// Category tells which part of a signature a message is about.
type Category string

const (
	// Function messages concern the return type.
	Function Category = "function"
	// Param messages concern one parameter.
	Param Category = "param"
)

// LineCharacter is a 1-based line with a 0-based character column.
type LineCharacter struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Message is one diagnostic from a type checker report.
type Message struct {
	SourceName string        `json:"source_name"` // qualified symbol, e.g. pkg.mod.A.one
	File       string        `json:"file"`
	Severity   string        `json:"severity"`
	Message    string        `json:"message"`
	Start      LineCharacter `json:"start"`
	End        LineCharacter `json:"end"`
	Category   Category      `json:"category"`
	Param      string        `json:"param,omitempty"`
}

// BaseName is the last dotted component of SourceName.
func (m Message) BaseName() string {
	return m.SourceName[strings.LastIndexByte(m.SourceName, '.')+1:]
}

// Subject is the name rules match against: the parameter for param
// messages, the function base name otherwise.
func (m Message) Subject() string {
	if m.Category == Param {
		return m.Param
	}
	return m.BaseName()
}

// Attr returns a message attribute by its JSON field name.
func (m Message) Attr(field string) (string, bool) {
	switch field {
	case "source_name", "name":
		return m.SourceName, true
	case "base_name":
		return m.BaseName(), true
	case "file":
		return m.File, true
	case "severity":
		return m.Severity, true
	case "message":
		return m.Message, true
	case "category":
		return string(m.Category), true
	case "param":
		return m.Param, true
	}
	return "", false
}

func (m Message) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", m.File, m.Start.Line, m.Start.Character, m.SourceName, m.Message)
}

// ByFile groups messages by file, keeping their order.
func ByFile(msgs []Message) map[string][]Message {
	out := make(map[string][]Message)
	for _, m := range msgs {
		out[m.File] = append(out[m.File], m)
	}
	return out
}
