package ast

// Context maps a node to the expression that should stand in for it during
// type comparison: this is how a rule's formal type parameters become
// equal to whatever a caller supplies, without building a substituted
// copy of either side.
type Context map[*Node]*Expr

// token is an opaque discriminator emitted during serialization. Distinct
// token values for OPEN/CLOSE/the four builtins/each node identity are
// all that TypeEq's equality check needs; the tokens themselves are never
// inspected, only compared.
type token struct {
	open    bool
	close   bool
	builtin Builtin
	isBuilt bool
	node    *Node
}

// TypeEq decides structural equality of two type expressions — Builtin,
// LambdaType, or Atomic referencing a Type-kinded node — by serializing
// each to a canonical token stream and comparing the streams. context, if
// non-nil, substitutes a mapped expression for any atomic reference to a
// node it contains before that reference is serialized, on either side.
//
// a and b must themselves have type Type; TypeEq does not check this,
// because both call sites that matter (construction-time invariant
// checks, and the matcher's lambda-signature check) already know their
// operands are types by construction.
func TypeEq(a, b *Expr, context Context) bool {
	var streamA, streamB []token

	serialize(a, context, &streamA)
	serialize(b, context, &streamB)

	if len(streamA) != len(streamB) {
		return false
	}

	for i := range streamA {
		if !tokensEqual(streamA[i], streamB[i]) {
			return false
		}
	}

	return true
}

func serialize(e *Expr, context Context, out *[]token) {
	if e == nil {
		*out = append(*out, token{isBuilt: true, builtin: TypeUndefined})
		return
	}

	switch e.kind {
	case KindBuiltinType:
		*out = append(*out, token{isBuilt: true, builtin: e.builtin})

	case KindLambdaType:
		*out = append(*out, token{open: true})
		serialize(e.ret, context, out)

		for _, arg := range e.args {
			serialize(arg, context, out)
		}

		*out = append(*out, token{close: true})

	case KindAtomic:
		if mapped, ok := context[e.node]; ok {
			serialize(mapped, context, out)
			return
		}

		*out = append(*out, token{node: e.node})

	default:
		// Not a type-level expression: emit the Undefined discriminator
		// rather than panic. Such an operand compares equal only to
		// Undefined or to another non-type expression.
		*out = append(*out, token{isBuilt: true, builtin: TypeUndefined})
	}
}

func tokensEqual(a, b token) bool {
	if a.open != b.open || a.close != b.close {
		return false
	}

	if a.open || a.close {
		return true
	}

	if a.isBuilt != b.isBuilt {
		return false
	}

	if a.isBuilt {
		return a.builtin == b.builtin
	}

	return a.node == b.node
}
