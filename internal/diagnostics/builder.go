package diagnostics

import (
	"fmt"

	logerrors "github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/position"
)

// Builder provides a fluent interface for constructing a Diagnostic,
// mirroring the rest of this codebase's fluent option builders.
type Builder struct {
	d Diagnostic
}

// NewBuilder starts a new error-level diagnostic at span.
func NewBuilder(span position.Span) *Builder {
	return &Builder{d: Diagnostic{Level: LevelError, Span: span}}
}

func (b *Builder) Error() *Builder {
	b.d.Level = LevelError
	return b
}

func (b *Builder) Warning() *Builder {
	b.d.Level = LevelWarning
	return b
}

func (b *Builder) Note() *Builder {
	b.d.Level = LevelNote
	return b
}

func (b *Builder) WithCategory(c Category) *Builder {
	b.d.Category = c
	return b
}

func (b *Builder) WithMessage(msg string) *Builder {
	b.d.Message = msg
	return b
}

func (b *Builder) WithMessagef(format string, args ...interface{}) *Builder {
	b.d.Message = fmt.Sprintf(format, args...)
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Note = note
	return b
}

// Build returns the constructed Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.d
}

// categoryFor maps an internal/errors.Kind to its diagnostics Category.
func categoryFor(kind logerrors.Kind) Category {
	switch kind {
	case logerrors.TypeMismatch:
		return CategoryTypeMismatch
	case logerrors.DuplicateName:
		return CategoryDuplicateName
	case logerrors.NameNotFound:
		return CategoryNameNotFound
	case logerrors.ArityMismatch:
		return CategoryArityMismatch
	case logerrors.UnsupportedReduction:
		return CategoryUnsupportedReduction
	case logerrors.VerificationFailure:
		return CategoryVerificationFailure
	case logerrors.MalformedInput:
		return CategorySyntax
	default:
		return CategorySyntax
	}
}

// FromError renders a construction-time *errors.Error as a Diagnostic at
// span, the bridge between the core's error kinds and user-visible output.
func FromError(err *logerrors.Error, span position.Span) Diagnostic {
	return NewBuilder(span).
		Error().
		WithCategory(categoryFor(err.Kind)).
		WithMessage(err.Message).
		Build()
}
