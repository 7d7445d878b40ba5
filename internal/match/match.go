// Package match implements the directional substitution/matching engine:
// given a pattern expression, a target expression, and a binding of the
// pattern's free parameters to concrete expressions, it decides whether
// the pattern, once its bound parameters are substituted in, is
// structurally equal to the target. It never searches for a binding — the
// caller supplies one, derived from a rule's parameter list — and it
// performs substitution lazily, one reduction step at a time, rather than
// building a fully substituted copy of the pattern up front.
package match

import (
	"fmt"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/position"
)

// Binding maps a rule parameter (or, temporarily, a lambda-bound variable)
// to the expression it currently stands for. Match mutates a Binding as it
// descends into nested scopes, but always restores it to its pre-call
// state before returning, so a caller never observes bindings left over
// from a nested comparison that has already returned.
type Binding map[*ast.Node]*ast.Expr

// restore undoes exactly the mutations a push performed, including
// whatever a bound node mapped to before the push (rather than simply
// deleting it) — a pattern's bound variable can, in principle, reuse a
// node identity already present in an enclosing binding, and a bare
// delete would lose that outer binding instead of restoring it.
type restore func()

// push remembers n's previous mapping (if any), sets it to e, and returns
// the restore that undoes just this one change.
func push(binding Binding, n *ast.Node, e *ast.Expr) restore {
	prev, had := binding[n]
	binding[n] = e

	return func() {
		if had {
			binding[n] = prev
		} else {
			delete(binding, n)
		}
	}
}

func combine(restores ...restore) restore {
	return func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}

// Match decides whether pattern, interpreted under binding, is
// structurally equal to target. It returns an error only when reducing a
// lambda-call pattern whose callee is bound: UnsupportedReduction if the
// callee is bound to a non-lambda expression (a case the matcher refuses to
// guess at), ArityMismatch if the bound lambda's parameter count differs
// from the call's argument count.
func Match(binding Binding, pattern, target *ast.Expr) (bool, error) {
	reduced, undo, err := reduce(pattern, binding)

	defer undo()

	if err != nil {
		return false, err
	}

	return compare(binding, reduced, target)
}

// reduce performs lazy beta-reduction steps on pattern until it reaches an
// expression that compare can inspect directly, extending binding as it
// goes. It returns a restore that undoes exactly the scope this push
// introduced, once the comparison rooted at it is complete.
func reduce(pattern *ast.Expr, binding Binding) (*ast.Expr, restore, error) {
	switch pattern.Kind() {
	case ast.KindAtomic:
		// A substituted expression can itself be an atomic reference to
		// another bound node (e.g. a rule parameter bound to another
		// parameter's reference); chase the chain to a fixed point rather
		// than stopping after one step. A lambda matched against itself binds
		// each parameter to a reference to that same parameter; that mapping
		// is already a fixed point.
		if mapped, ok := binding[pattern.Node()]; ok {
			if mapped.Kind() == ast.KindAtomic && mapped.Node() == pattern.Node() {
				return mapped, noop, nil
			}

			return reduce(mapped, binding)
		}

		return pattern, noop, nil

	case ast.KindLambdaCall:
		return reduceLambdaCall(pattern, binding)

	default:
		return pattern, noop, nil
	}
}

func noop() {}

func reduceLambdaCall(pattern *ast.Expr, binding Binding) (*ast.Expr, restore, error) {
	callee := pattern.Callee()

	mapped, ok := binding[callee]
	if !ok {
		return pattern, noop, nil
	}

	if mapped.Kind() != ast.KindLambda {
		return nil, noop, errors.NewUnsupportedReduction(
			fmt.Sprintf("%s is bound to %s, not a lambda", callee.Name(), mapped))
	}

	params := mapped.Params()
	args := pattern.CallArgs()

	if len(params) != len(args) {
		return nil, noop, errors.NewArityMismatch(len(params), len(args))
	}

	restores := make([]restore, len(params))
	for i, p := range params {
		restores[i] = push(binding, p, args[i])
	}

	undoParams := combine(restores...)

	body, bodyUndo, err := reduce(mapped.Body(), binding)
	if err != nil {
		undoParams()
		return nil, noop, err
	}

	return body, combine(undoParams, bodyUndo), nil
}

// compare dispatches on the (already-reduced) pattern's variant tag and
// recurses structurally into target.
func compare(binding Binding, pattern, target *ast.Expr) (bool, error) {
	if target == nil || pattern == nil {
		return pattern == target, nil
	}

	if pattern.Kind() != target.Kind() {
		return false, nil
	}

	switch pattern.Kind() {
	case ast.KindAtomic:
		return pattern.Node() == target.Node(), nil

	case ast.KindBuiltinType:
		return pattern.Builtin() == target.Builtin(), nil

	case ast.KindLambdaCall:
		return compareLambdaCall(binding, pattern, target)

	case ast.KindNegation:
		return Match(binding, pattern.Inner(), target.Inner())

	case ast.KindConnective:
		if pattern.ConnKind() != target.ConnKind() {
			return false, nil
		}

		left, err := Match(binding, pattern.Left(), target.Left())
		if err != nil || !left {
			return false, err
		}

		return Match(binding, pattern.Right(), target.Right())

	case ast.KindQuantifier:
		if pattern.QuantKind() != target.QuantKind() {
			return false, nil
		}

		return Match(binding, pattern.Predicate(), target.Predicate())

	case ast.KindLambda:
		return compareLambda(binding, pattern, target)

	default:
		return false, nil
	}
}

func compareLambdaCall(binding Binding, pattern, target *ast.Expr) (bool, error) {
	if pattern.Callee() != target.Callee() {
		return false, nil
	}

	pArgs, tArgs := pattern.CallArgs(), target.CallArgs()
	if len(pArgs) != len(tArgs) {
		return false, nil
	}

	for i := range pArgs {
		ok, err := Match(binding, pArgs[i], tArgs[i])
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

// compareLambda matches a pattern lambda against a target lambda:
// signatures must agree by ast.TypeEq, then each pattern parameter is
// bound to an atomic reference to the corresponding target parameter
// before the bodies are compared. This is how alpha-equivalence is made
// explicit without renaming anything.
//
// The signature check is driven by the current binding, used as the type
// comparator's substitution context: a rule parameter like a
// specialization's type variable T is already bound to a concrete type
// (e.g. person) by the time a lambda signature mentioning T is checked,
// and the comparator needs that binding to see T and person as equal.
func compareLambda(binding Binding, pattern, target *ast.Expr) (bool, error) {
	if !ast.TypeEq(ast.TypeOf(pattern), ast.TypeOf(target), ast.Context(binding)) {
		return false, nil
	}

	pParams, tParams := pattern.Params(), target.Params()
	if len(pParams) != len(tParams) {
		return false, nil
	}

	restores := make([]restore, len(pParams))
	for i, p := range pParams {
		restores[i] = push(binding, p, ast.NewAtomic(tParams[i], position.Span{}))
	}

	defer combine(restores...)()

	return Match(binding, pattern.Body(), target.Body())
}
