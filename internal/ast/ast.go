// Package ast defines the typed expression tree of the logic: nodes,
// the four primitive type constants, the function-type constructor, and
// the eight expression variants, each built through a smart constructor
// that enforces the type-well-formedness invariants at construction time.
//
// The structural type comparator (equality of type expressions modulo
// alpha-equivalence and definition unfolding) also lives in this package,
// in compare.go, rather than in a separate package: every smart
// constructor that checks an argument's or operand's type needs it inline,
// and splitting it out would otherwise require an import cycle between
// the AST and its own type checker.
package ast

import (
	"fmt"
	"strings"

	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/position"
)

// Kind discriminates the eight expression variants.
type Kind int

const (
	KindAtomic Kind = iota
	KindBuiltinType
	KindLambdaType
	KindLambdaCall
	KindLambda
	KindNegation
	KindConnective
	KindQuantifier
)

func (k Kind) String() string {
	switch k {
	case KindAtomic:
		return "atomic"
	case KindBuiltinType:
		return "builtin-type"
	case KindLambdaType:
		return "lambda-type"
	case KindLambdaCall:
		return "lambda-call"
	case KindLambda:
		return "lambda"
	case KindNegation:
		return "negation"
	case KindConnective:
		return "connective"
	case KindQuantifier:
		return "quantifier"
	default:
		return "unknown"
	}
}

// Builtin names one of the four primitive type constants.
type Builtin int

const (
	TypeType Builtin = iota
	TypeStatement
	TypeRule
	TypeUndefined
)

func (b Builtin) String() string {
	switch b {
	case TypeType:
		return "type"
	case TypeStatement:
		return "statement"
	case TypeRule:
		return "rule"
	case TypeUndefined:
		return "undefined"
	default:
		return "unknown-builtin"
	}
}

// ConnectiveKind discriminates the binary statement connectives.
type ConnectiveKind int

const (
	And ConnectiveKind = iota
	Or
	Impl
	Equiv
)

func (c ConnectiveKind) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	case Impl:
		return "impl"
	case Equiv:
		return "equiv"
	default:
		return "unknown-connective"
	}
}

// QuantifierKind discriminates the two quantifiers.
type QuantifierKind int

const (
	Forall QuantifierKind = iota
	Exists
)

func (q QuantifierKind) String() string {
	switch q {
	case Forall:
		return "forall"
	case Exists:
		return "exists"
	default:
		return "unknown-quantifier"
	}
}

// Node is a named, typed, immutable entity: a type variable, constant,
// predicate, rule, or statement declared in a theory. Its declared type
// never changes after construction; its definition may be set at most
// once, and only to an expression whose type compares equal (via TypeEq)
// to the declared type.
type Node struct {
	name       string
	declType   *Expr
	definition *Expr
	span       position.Span
}

// NewNode declares a node named name with declared type declType. declType
// must itself have type Type; violating that is a logic error at the call
// site, not a recoverable TypeMismatch; callers that build declType via
// this package's constructors get that for free.
func NewNode(name string, declType *Expr, span position.Span) *Node {
	return &Node{name: name, declType: declType, span: span}
}

// Name returns the node's declared name, or "" if it is anonymous.
func (n *Node) Name() string { return n.name }

// ObjectName satisfies the theory package's Object interface without this
// package importing theory: anonymous objects (name == "") are sequenced
// but never indexed by name.
func (n *Node) ObjectName() string { return n.name }

// Type returns the node's declared type expression.
func (n *Node) Type() *Expr { return n.declType }

// Definition returns the node's definition expression, or nil if the node
// is declared but not (yet) defined.
func (n *Node) Definition() *Expr { return n.definition }

// IsDefined reports whether a definition has been set.
func (n *Node) IsDefined() bool { return n.definition != nil }

// Span returns the node's declaration source span.
func (n *Node) Span() position.Span { return n.span }

// SetDefinition sets n's definition to def, the first and only time it may
// be set. def's type must compare equal, via TypeEq, to n's declared
// type; a node whose declared type is Type and whose definition is itself
// a type expression acts as a type synonym.
func (n *Node) SetDefinition(def *Expr) error {
	if n.definition != nil {
		return errors.New(errors.DuplicateName,
			fmt.Sprintf("node %q already has a definition", n.name),
			map[string]interface{}{"name": n.name})
	}

	defType := TypeOf(def)
	if !TypeEq(n.declType, defType, nil) {
		return errors.NewTypeMismatch(defType, n.declType, "definition of "+n.name)
	}

	n.definition = def

	return nil
}

func (n *Node) String() string {
	if n.name == "" {
		return "<anonymous>"
	}

	return n.name
}

// Expr is an immutable node of the typed expression tree. Which fields are
// meaningful is determined by Kind; this mirrors a common compiler
// enum-plus-struct idiom (see e.g. a resolver's SymbolKind) rather than an
// interface-per-variant hierarchy, because every algorithm in this system
// (type checking, matching, printing) dispatches once per Kind and wants
// direct field access, not virtual calls.
type Expr struct {
	kind Kind
	span position.Span

	// KindAtomic
	node *Node

	// KindBuiltinType
	builtin Builtin

	// KindLambdaType: ret, args
	// KindLambda: params, body (ret/args derived from these via Type())
	ret    *Expr
	args   []*Expr
	params []*Node
	body   *Expr

	// KindLambdaCall: callee, call args
	callee   *Node
	callArgs []*Expr

	// KindNegation: inner
	inner *Expr

	// KindConnective
	connKind ConnectiveKind
	left     *Expr
	right    *Expr

	// KindQuantifier
	quantKind QuantifierKind
	predicate *Expr

	// Lambda's type is expensive to recompute (it walks params/body); it
	// never changes after construction, so compute it once, lazily.
	cachedType *Expr
}

func (e *Expr) Kind() Kind               { return e.kind }
func (e *Expr) Span() position.Span      { return e.span }
func (e *Expr) Node() *Node              { return e.node }
func (e *Expr) Builtin() Builtin         { return e.builtin }
func (e *Expr) Ret() *Expr               { return e.ret }
func (e *Expr) Args() []*Expr            { return e.args }
func (e *Expr) Params() []*Node          { return e.params }
func (e *Expr) Body() *Expr              { return e.body }
func (e *Expr) Callee() *Node            { return e.callee }
func (e *Expr) CallArgs() []*Expr        { return e.callArgs }
func (e *Expr) Inner() *Expr             { return e.inner }
func (e *Expr) ConnKind() ConnectiveKind { return e.connKind }
func (e *Expr) Left() *Expr              { return e.left }
func (e *Expr) Right() *Expr             { return e.right }
func (e *Expr) QuantKind() QuantifierKind { return e.quantKind }
func (e *Expr) Predicate() *Expr         { return e.predicate }

// String renders a compact, human-readable form, not a round-trippable
// S-expression (that is internal/printer's job).
func (e *Expr) String() string {
	switch e.kind {
	case KindAtomic:
		return e.node.String()
	case KindBuiltinType:
		return e.builtin.String()
	case KindLambdaType:
		parts := make([]string, len(e.args))
		for i, a := range e.args {
			parts[i] = a.String()
		}

		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), e.ret.String())
	case KindLambdaCall:
		parts := make([]string, len(e.callArgs))
		for i, a := range e.callArgs {
			parts[i] = a.String()
		}

		return fmt.Sprintf("%s(%s)", e.callee.String(), strings.Join(parts, ", "))
	case KindLambda:
		parts := make([]string, len(e.params))
		for i, p := range e.params {
			parts[i] = p.String()
		}

		return fmt.Sprintf("\\%s. %s", strings.Join(parts, ", "), e.body.String())
	case KindNegation:
		return "not " + e.inner.String()
	case KindConnective:
		return fmt.Sprintf("(%s %s %s)", e.left.String(), e.connKind.String(), e.right.String())
	case KindQuantifier:
		return fmt.Sprintf("%s %s", e.quantKind.String(), e.predicate.String())
	default:
		return "<invalid>"
	}
}
