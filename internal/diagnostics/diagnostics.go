// Package diagnostics renders the parser's and verifier's structured errors
// as "file:line:col: level: message" diagnostics, with a fluent builder and
// an accumulating Manager used by the parser's error-recovery loop and the
// CLI's reporting path.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-proof/logic/internal/position"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelNote
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	default:
		return "unknown"
	}
}

// Category narrows a diagnostic to one of the error kinds this system
// reports, mirroring internal/errors.Kind plus pure-syntax categories the
// parser raises before any AST exists.
type Category int

const (
	CategorySyntax Category = iota
	CategoryTypeMismatch
	CategoryDuplicateName
	CategoryNameNotFound
	CategoryArityMismatch
	CategoryUnsupportedReduction
	CategoryVerificationFailure
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryTypeMismatch:
		return "type-mismatch"
	case CategoryDuplicateName:
		return "duplicate-name"
	case CategoryNameNotFound:
		return "name-not-found"
	case CategoryArityMismatch:
		return "arity-mismatch"
	case CategoryUnsupportedReduction:
		return "unsupported-reduction"
	case CategoryVerificationFailure:
		return "verification-failure"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported message, localized to a source span.
type Diagnostic struct {
	Level    Level
	Category Category
	Message  string
	Span     position.Span
	Note     string // optional elaboration, printed on a continuation line
}

// String formats the diagnostic as "file:line:col: level: message".
func (d Diagnostic) String() string {
	loc := d.Span.Start.String()

	base := fmt.Sprintf("%s: %s: %s", loc, d.Level, d.Message)
	if d.Note == "" {
		return base
	}

	return base + "\n" + strings.Repeat(" ", len(loc)+2) + "note: " + d.Note
}

// Manager accumulates diagnostics across a parse/verify run. The parser
// keeps going after a syntax error instead of aborting; Manager is where
// those accumulate until the CLI decides what to do with them.
type Manager struct {
	diagnostics []Diagnostic
	sourceMap   *position.SourceMap
}

// NewManager creates an empty Manager. sourceMap may be nil; it is only
// used to render source-line context alongside a diagnostic.
func NewManager(sourceMap *position.SourceMap) *Manager {
	return &Manager{sourceMap: sourceMap}
}

// Add records a diagnostic.
func (m *Manager) Add(d Diagnostic) {
	m.diagnostics = append(m.diagnostics, d)
}

// Diagnostics returns all recorded diagnostics in insertion order.
func (m *Manager) Diagnostics() []Diagnostic {
	return m.diagnostics
}

// ErrorCount returns the number of error-level diagnostics.
func (m *Manager) ErrorCount() int {
	n := 0

	for _, d := range m.diagnostics {
		if d.Level == LevelError {
			n++
		}
	}

	return n
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (m *Manager) HasErrors() bool {
	return m.ErrorCount() > 0
}

// Sort orders diagnostics by file, then line, then column — the order a
// reader scanning top to bottom through their source expects.
func (m *Manager) Sort() {
	sort.SliceStable(m.diagnostics, func(i, j int) bool {
		a, b := m.diagnostics[i].Span.Start, m.diagnostics[j].Span.Start
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Column < b.Column
	})
}

// Render writes every diagnostic, one per line, followed by a highlighted
// source snippet when a source map is available, plus a one-line summary of
// error and warning counts.
func (m *Manager) Render() string {
	var b strings.Builder

	var highlighter *position.SpanHighlighter
	if m.sourceMap != nil {
		highlighter = position.NewSpanHighlighter(m.sourceMap)
	}

	for _, d := range m.diagnostics {
		b.WriteString(d.String())
		b.WriteByte('\n')

		if highlighter != nil {
			b.WriteString(highlighter.HighlightSpan(d.Span))
		}
	}

	errs, warns := 0, 0

	for _, d := range m.diagnostics {
		switch d.Level {
		case LevelError:
			errs++
		case LevelWarning:
			warns++
		case LevelNote:
		}
	}

	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", errs, warns)

	return b.String()
}
