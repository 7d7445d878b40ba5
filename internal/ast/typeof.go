package ast

import "github.com/go-proof/logic/internal/position"

// The four builtin type constants, allocated once. NewBuiltinTypeExpr makes
// further builtin-type expressions that carry their own span; TypeEq
// compares builtins by their Builtin value, not by pointer, so both forms
// compare equal.
var (
	Type      = &Expr{kind: KindBuiltinType, builtin: TypeType}
	Statement = &Expr{kind: KindBuiltinType, builtin: TypeStatement}
	Rule      = &Expr{kind: KindBuiltinType, builtin: TypeRule}
	Undefined = &Expr{kind: KindBuiltinType, builtin: TypeUndefined}
)

// TypeOf computes the type of expression e. For most Kinds this is a
// cheap structural projection; for KindLambda it is cached on first call,
// since building a fresh LambdaType would otherwise happen on every
// comparison.
func TypeOf(e *Expr) *Expr {
	if e == nil {
		return Undefined
	}

	switch e.kind {
	case KindAtomic:
		return e.node.declType

	case KindBuiltinType:
		return Type

	case KindLambdaType:
		return Type

	case KindLambdaCall:
		return e.callee.declType.ret

	case KindLambda:
		if e.cachedType == nil {
			args := make([]*Expr, len(e.params))
			for i, p := range e.params {
				args[i] = p.declType
			}

			e.cachedType = &Expr{
				kind: KindLambdaType,
				span: e.span,
				ret:  TypeOf(e.body),
				args: args,
			}
		}

		return e.cachedType

	case KindNegation:
		return Statement

	case KindConnective:
		return Statement

	case KindQuantifier:
		return Statement

	default:
		return Undefined
	}
}

// NewBuiltinTypeExpr wraps one of the four builtin type constants at a
// source location, for parser use where the span matters (e.g. diagnostics
// pointing at the occurrence, not the shared singleton).
func NewBuiltinTypeExpr(b Builtin, span position.Span) *Expr {
	return &Expr{kind: KindBuiltinType, builtin: b, span: span}
}
