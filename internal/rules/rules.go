// Package rules decides which checker messages become annotation requests.
//
// A rule combines three strategies picked by name: a report parser, an
// Acceptor and a Producer. Strategies live in registries filled at init, and
// rule sets refer to them by name.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"fixo/internal/annotate"
	"fixo/internal/message"
	"fixo/internal/pyfile"
	"fixo/internal/report"
)

// Acceptor decides whether a rule takes a message.
type Acceptor interface {
	Accept(m message.Message, r *Rule) bool
}

// Producer turns an accepted message into requests against its file.
type Producer interface {
	Produce(pf *pyfile.File, m message.Message, r *Rule) ([]annotate.Request, error)
}

// AcceptFunc adapts a function to Acceptor.
type AcceptFunc func(m message.Message, r *Rule) bool

func (f AcceptFunc) Accept(m message.Message, r *Rule) bool { return f(m, r) }

// ProduceFunc adapts a function to Producer.
type ProduceFunc func(pf *pyfile.File, m message.Message, r *Rule) ([]annotate.Request, error)

func (f ProduceFunc) Produce(pf *pyfile.File, m message.Message, r *Rule) ([]annotate.Request, error) {
	return f(pf, m, r)
}

// Rule is a compiled rule definition.
type Rule struct {
	Name           string
	Parser         report.Parser
	Acceptor       Acceptor
	Producer       Producer
	NameMatch      *regexp.Regexp // anchored; nil matches everything
	Categories     []message.Category
	TypeName       string
	PreferImportAs bool
	Match          map[string]string
	Contains       map[string]string
}

// Accept runs the rule's acceptor.
func (r *Rule) Accept(m message.Message) bool { return r.Acceptor.Accept(m, r) }

// Produce runs the rule's producer.
func (r *Rule) Produce(pf *pyfile.File, m message.Message) ([]annotate.Request, error) {
	return r.Producer.Produce(pf, m, r)
}

var (
	registryMu sync.RWMutex
	acceptors  = map[string]Acceptor{}
	producers  = map[string]Producer{}
	presets    = map[string]Definition{}
)

// RegisterAcceptor makes a under name available to rule definitions.
func RegisterAcceptor(name string, a Acceptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	acceptors[name] = a
}

// RegisterProducer makes p under name available to rule definitions.
func RegisterProducer(name string, p Producer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	producers[name] = p
}

// RegisterPreset adds a definition rules can name as their parent.
func RegisterPreset(name string, d Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	presets[name] = d
}

// Presets lists registered preset names, sorted.
func Presets() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// strategyName strips the leading '.' older rule files use for built-ins.
func strategyName(s string) string { return strings.TrimPrefix(s, ".") }

func lookupAcceptor(name string) (Acceptor, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if a, ok := acceptors[strategyName(name)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("unknown accept_message %q", name)
}

func lookupProducer(name string) (Producer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := producers[strategyName(name)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown message_to_edits %q", name)
}

func lookupPreset(name string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := presets[strategyName(name)]
	return d, ok
}

func init() {
	RegisterAcceptor("default", AcceptFunc(acceptFilters))
	RegisterProducer("default", ProduceFunc(produceRequest))
	for _, name := range report.Names() {
		RegisterPreset(name, Definition{
			ParseIntoMessages: name,
			AcceptMessage:     "default",
			MessageToEdits:    "default",
		})
	}
}
