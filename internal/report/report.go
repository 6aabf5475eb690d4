// Package report parses type checker output into messages.
package report

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"fixo/internal/message"
)

// ErrBadReport wraps every failure to decode a report.
var ErrBadReport = errors.New("malformed checker report")

// Parser turns one checker report into messages.
type Parser interface {
	Name() string
	Parse(data []byte) ([]message.Message, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Parser{}
)

// Register makes p available under p.Name(). A later registration replaces
// an earlier one.
func Register(p Parser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name()] = p
}

// Lookup returns the parser registered under name.
func Lookup(name string) (Parser, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q", name)
	}
	return p, nil
}

// Names lists registered parsers, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(Pyright{})
	Register(Pyrefly{})
}

func badReport(format string, err error) error {
	return fmt.Errorf("%w (%s): %v", ErrBadReport, format, err)
}
