package ast

import (
	"fmt"

	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/position"
)

// NewAtomic builds a reference to node at span. Its type is node's
// declared type; there is nothing to check, since a Node's declared type
// is fixed at construction.
func NewAtomic(node *Node, span position.Span) *Expr {
	return &Expr{kind: KindAtomic, node: node, span: span}
}

// NewLambdaType builds the function type (args...) -> ret. Every element
// of args, and ret, must itself have type Type; Statement is a builtin
// type, so a predicate's return type Statement is accepted.
func NewLambdaType(args []*Expr, ret *Expr, span position.Span) (*Expr, error) {
	for i, a := range args {
		if t := TypeOf(a); !TypeEq(t, Type, nil) {
			return nil, errors.NewTypeMismatch(t, Type, fmt.Sprintf("argument type %d", i))
		}
	}

	if t := TypeOf(ret); !TypeEq(t, Type, nil) {
		return nil, errors.NewTypeMismatch(t, Type, "return type")
	}

	return &Expr{kind: KindLambdaType, args: args, ret: ret, span: span}, nil
}

// NewLambda builds a lambda abstraction over params with body. Its type is
// derived, not checked against anything external: a lambda is well-typed
// by construction as long as its body is.
func NewLambda(params []*Node, body *Expr, span position.Span) *Expr {
	return &Expr{kind: KindLambda, params: params, body: body, span: span}
}

// NewLambdaCall builds a call of callee with args. callee's declared type
// must be a function type (KindLambdaType) whose argument types match
// args pairwise under TypeEq; arity must match exactly.
func NewLambdaCall(callee *Node, args []*Expr, span position.Span) (*Expr, error) {
	ft := callee.declType
	if ft.kind != KindLambdaType {
		return nil, errors.New(errors.TypeMismatch,
			fmt.Sprintf("%s is not callable: declared type is %s, not a function type", callee.Name(), ft),
			map[string]interface{}{"name": callee.Name()})
	}

	if len(ft.args) != len(args) {
		return nil, errors.New(errors.TypeMismatch,
			fmt.Sprintf("%s takes %d argument(s), got %d", callee.Name(), len(ft.args), len(args)),
			map[string]interface{}{"name": callee.Name(), "want": len(ft.args), "got": len(args)})
	}

	for i, arg := range args {
		want := ft.args[i]

		got := TypeOf(arg)
		if !TypeEq(got, want, nil) {
			return nil, errors.NewTypeMismatch(got, want, fmt.Sprintf("argument %d to %s", i, callee.Name()))
		}
	}

	return &Expr{kind: KindLambdaCall, callee: callee, callArgs: args, span: span}, nil
}

// NewNegation builds the negation of inner. inner must have type
// Statement.
func NewNegation(inner *Expr, span position.Span) (*Expr, error) {
	if t := TypeOf(inner); !TypeEq(t, Statement, nil) {
		return nil, errors.NewTypeMismatch(t, Statement, "negated expression")
	}

	return &Expr{kind: KindNegation, inner: inner, span: span}, nil
}

// NewConnective builds left <kind> right. Both operands must have type
// Statement.
func NewConnective(kind ConnectiveKind, left, right *Expr, span position.Span) (*Expr, error) {
	if t := TypeOf(left); !TypeEq(t, Statement, nil) {
		return nil, errors.NewTypeMismatch(t, Statement, "left operand of "+kind.String())
	}

	if t := TypeOf(right); !TypeEq(t, Statement, nil) {
		return nil, errors.NewTypeMismatch(t, Statement, "right operand of "+kind.String())
	}

	return &Expr{kind: KindConnective, connKind: kind, left: left, right: right, span: span}, nil
}

// NewQuantifier builds kind applied to predicate. predicate's type must be
// a lambda type returning Statement — i.e. predicate is itself a
// Lambda (or an atomic reference to a node defined as one) whose body has
// type Statement; this is how the grammar's
// "(forall (lambda (list (T x)) stmt))" nests a bound variable under the
// quantifier.
func NewQuantifier(kind QuantifierKind, predicate *Expr, span position.Span) (*Expr, error) {
	t := TypeOf(predicate)
	if t.Kind() != KindLambdaType || !TypeEq(t.Ret(), Statement, nil) {
		return nil, errors.New(errors.TypeMismatch,
			fmt.Sprintf("%s requires a predicate of type (...) -> statement, got %s", kind, t),
			map[string]interface{}{"where": kind.String() + " body"})
	}

	return &Expr{kind: KindQuantifier, quantKind: kind, predicate: predicate, span: span}, nil
}
