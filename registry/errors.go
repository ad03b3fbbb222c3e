package registry

import (
	"fmt"
	"strings"

	"github.com/teranos/vkdoc/errors"
)

// SymbolKind names what kind of symbol an error is about
type SymbolKind string

const (
	KindType     SymbolKind = "type"
	KindCommand  SymbolKind = "command"
	KindEnum     SymbolKind = "enum group"
	KindConstant SymbolKind = "constant"
	KindVariant  SymbolKind = "enum variant"
	KindMarker   SymbolKind = "marker"
)

// SymbolError is a registry or rendering failure tied to one symbol.
// It unwraps to one of the errors package sentinels.
type SymbolError struct {
	Kind   SymbolKind
	Name   string
	Detail string
	Err    error
}

func (e *SymbolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Kind, e.Name, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *SymbolError) Unwrap() error { return e.Err }

func symbolError(kind SymbolKind, name, detail string, sentinel error) error {
	return errors.WithStack(&SymbolError{Kind: kind, Name: name, Detail: detail, Err: sentinel})
}

// NotFound reports a symbol missing from its table
func NotFound(kind SymbolKind, name string) error {
	return symbolError(kind, name, "", errors.ErrNotFound)
}

// Duplicate reports a second definition of a name within one table
func Duplicate(kind SymbolKind, name string) error {
	return symbolError(kind, name, "", errors.ErrDuplicateDefinition)
}

// UnexpectedShape reports a symbol whose structure does not match its kind
func UnexpectedShape(kind SymbolKind, name, detail string) error {
	return symbolError(kind, name, detail, errors.ErrUnexpectedShape)
}

// Unresolvable reports an identifier that cannot be derived from its source name
func Unresolvable(kind SymbolKind, name, detail string) error {
	return symbolError(kind, name, detail, errors.ErrUnresolvableIdentifier)
}

// Cycle reports an alias chain that revisits a name
func Cycle(kind SymbolKind, chain []string) error {
	return symbolError(kind, chain[0], strings.Join(chain, " -> "), errors.ErrCycleDetected)
}
