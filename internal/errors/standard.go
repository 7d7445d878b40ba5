// Package errors provides the standardized error kinds shared by the AST
// constructors, the matcher, the rule validators, and the verifier.
package errors

import (
	"fmt"
	"sort"
)

// Kind identifies the category of a logic error.
type Kind string

const (
	TypeMismatch         Kind = "TYPE_MISMATCH"
	DuplicateName        Kind = "DUPLICATE_NAME"
	NameNotFound         Kind = "NAME_NOT_FOUND"
	ArityMismatch        Kind = "ARITY_MISMATCH"
	MalformedInput       Kind = "MALFORMED_INPUT"
	VerificationFailure  Kind = "VERIFICATION_FAILURE"
	UnsupportedReduction Kind = "UNSUPPORTED_REDUCTION"
)

// Error is a standardized, structured logic error. Context carries
// kind-specific details (e.g. "got"/"want" for TypeMismatch) so diagnostics
// can render them without re-deriving them.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s %s", e.Kind, e.Message, formatContext(e.Context))
}

func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := "("

	for i, k := range keys {
		if i > 0 {
			out += ", "
		}

		out += fmt.Sprintf("%s=%v", k, ctx[k])
	}

	return out + ")"
}

// New creates a standardized Error of the given kind.
func New(kind Kind, message string, context map[string]interface{}) *Error {
	return &Error{Kind: kind, Message: message, Context: context}
}

// NewTypeMismatch reports that an expression of type "got" was used where
// "want" was required, at the given location description (e.g. "argument 1").
func NewTypeMismatch(got, want fmt.Stringer, where string) *Error {
	return New(TypeMismatch, fmt.Sprintf("expected type %s, got %s", want, got),
		map[string]interface{}{"got": got.String(), "want": want.String(), "where": where})
}

// NewDuplicateName reports that name is already present in a theory.
func NewDuplicateName(name string) *Error {
	return New(DuplicateName, fmt.Sprintf("name %q is already declared in this theory", name),
		map[string]interface{}{"name": name})
}

// NewNameNotFound reports that name could not be resolved lexically.
func NewNameNotFound(name string) *Error {
	return New(NameNotFound, fmt.Sprintf("name %q not found", name),
		map[string]interface{}{"name": name})
}

// NewArityMismatch reports a proof step with the wrong number of premise
// references for the rule it invokes.
func NewArityMismatch(want, got int) *Error {
	return New(ArityMismatch, fmt.Sprintf("expected %d references, got %d", want, got),
		map[string]interface{}{"want": want, "got": got})
}

// NewUnsupportedReduction reports that the matcher was asked to reduce a
// lambda call whose binding maps the callee to a non-lambda expression.
// This is the open question left unresolved upstream; rather than guess at
// "substitute and compare", this implementation refuses the match.
func NewUnsupportedReduction(detail string) *Error {
	return New(UnsupportedReduction, "unsupported reduction: "+detail, nil)
}
