package match

import (
	"testing"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/position"
)

func sp() position.Span { return position.Span{} }

func predicateType(arg *ast.Expr) *ast.Expr {
	t, err := ast.NewLambdaType([]*ast.Expr{arg}, ast.Statement, sp())
	if err != nil {
		panic(err)
	}

	return t
}

func TestMatchUnmappedAtomicMustEqualItself(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	fritz := ast.NewNode("fritz", ast.NewAtomic(person, sp()), sp())
	hans := ast.NewNode("hans", ast.NewAtomic(person, sp()), sp())

	binding := Binding{}

	ok, err := Match(binding, ast.NewAtomic(fritz, sp()), ast.NewAtomic(fritz, sp()))
	if err != nil || !ok {
		t.Fatalf("expected match of an atom against itself, got ok=%v err=%v", ok, err)
	}

	ok, err = Match(binding, ast.NewAtomic(fritz, sp()), ast.NewAtomic(hans, sp()))
	if err != nil || ok {
		t.Fatalf("expected mismatch of two distinct unmapped atoms, got ok=%v err=%v", ok, err)
	}

	if len(binding) != 0 {
		t.Errorf("binding must be restored after Match, got %d entries", len(binding))
	}
}

func TestMatchBoundParameterSubstitution(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())
	a := ast.NewNode("a", personExpr, sp())
	fritz := ast.NewNode("fritz", personExpr, sp())

	binding := Binding{a: ast.NewAtomic(fritz, sp())}

	ok, err := Match(binding, ast.NewAtomic(a, sp()), ast.NewAtomic(fritz, sp()))
	if err != nil || !ok {
		t.Fatalf("expected bound parameter to match its substitute, got ok=%v err=%v", ok, err)
	}

	if len(binding) != 1 {
		t.Errorf("Match must not remove caller-supplied bindings, got %d entries", len(binding))
	}
}

func TestMatchLambdaCallReductionThroughBoundLambda(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())

	predType := predicateType(personExpr)
	studentPredicate := ast.NewNode("f", predType, sp())
	fritz := ast.NewNode("fritz", personExpr, sp())

	bx := ast.NewNode("x", personExpr, sp())
	student := ast.NewNode("student", predType, sp())
	studentX, err := ast.NewLambdaCall(student, []*ast.Expr{ast.NewAtomic(bx, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lambda := ast.NewLambda([]*ast.Node{bx}, studentX, sp())

	studentFritz, err := ast.NewLambdaCall(student, []*ast.Expr{ast.NewAtomic(fritz, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pattern, err := ast.NewLambdaCall(studentPredicate, []*ast.Expr{ast.NewAtomic(fritz, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	binding := Binding{studentPredicate: lambda}

	ok, err := Match(binding, pattern, studentFritz)
	if err != nil || !ok {
		t.Fatalf("expected reduction f(fritz) -> student(fritz) to match, got ok=%v err=%v", ok, err)
	}

	if len(binding) != 1 {
		t.Errorf("binding must return to its pre-call state, got %d entries", len(binding))
	}
}

func TestMatchChainedAtomicReduction(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())
	x := ast.NewNode("x", personExpr, sp())
	y := ast.NewNode("y", personExpr, sp())
	fritz := ast.NewNode("fritz", personExpr, sp())

	// x is bound to a reference to y, and y is in turn bound to fritz:
	// reducing x must chase the whole chain down to fritz, not stop at y.
	binding := Binding{
		x: ast.NewAtomic(y, sp()),
		y: ast.NewAtomic(fritz, sp()),
	}

	ok, err := Match(binding, ast.NewAtomic(x, sp()), ast.NewAtomic(fritz, sp()))
	if err != nil || !ok {
		t.Fatalf("expected chained reduction x -> y -> fritz to match fritz, got ok=%v err=%v", ok, err)
	}

	if len(binding) != 2 {
		t.Errorf("binding must be restored after Match, got %d entries", len(binding))
	}
}

func TestMatchUnsupportedReductionWhenCalleeIsNotALambda(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())

	predType := predicateType(personExpr)
	f := ast.NewNode("f", predType, sp())
	fritz := ast.NewNode("fritz", personExpr, sp())

	pattern, err := ast.NewLambdaCall(f, []*ast.Expr{ast.NewAtomic(fritz, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	binding := Binding{f: ast.NewAtomic(fritz, sp())}

	_, err = Match(binding, pattern, pattern)
	if err == nil {
		t.Fatal("expected UnsupportedReduction when f is bound to a non-lambda")
	}

	logErr, ok := err.(*errors.Error)
	if !ok || logErr.Kind != errors.UnsupportedReduction {
		t.Errorf("expected UnsupportedReduction, got %v", err)
	}

	if len(binding) != 1 {
		t.Errorf("binding must be restored even on error, got %d entries", len(binding))
	}
}

func TestMatchLambdaAlphaEquivalence(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())

	predType := predicateType(personExpr)
	student := ast.NewNode("student", predType, sp())

	px := ast.NewNode("x", personExpr, sp())
	pBody, err := ast.NewLambdaCall(student, []*ast.Expr{ast.NewAtomic(px, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pLambda := ast.NewLambda([]*ast.Node{px}, pBody, sp())

	ty := ast.NewNode("y", personExpr, sp())
	tBody, err := ast.NewLambdaCall(student, []*ast.Expr{ast.NewAtomic(ty, sp())}, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tLambda := ast.NewLambda([]*ast.Node{ty}, tBody, sp())

	binding := Binding{}

	ok, err := Match(binding, pLambda, tLambda)
	if err != nil || !ok {
		t.Fatalf("expected alpha-equivalent lambdas to match, got ok=%v err=%v", ok, err)
	}

	if len(binding) != 0 {
		t.Errorf("binding must be restored after matching a lambda, got %d entries", len(binding))
	}
}

func TestMatchConnectiveAndNegation(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())
	personExpr := ast.NewAtomic(person, sp())

	predType := predicateType(personExpr)
	student := ast.NewNode("student", predType, sp())
	stupid := ast.NewNode("stupid", predType, sp())
	fritz := ast.NewNode("fritz", personExpr, sp())

	studentFritz, _ := ast.NewLambdaCall(student, []*ast.Expr{ast.NewAtomic(fritz, sp())}, sp())
	stupidFritz, _ := ast.NewLambdaCall(stupid, []*ast.Expr{ast.NewAtomic(fritz, sp())}, sp())

	impl, err := ast.NewConnective(ast.Impl, studentFritz, stupidFritz, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	binding := Binding{}

	ok, err := Match(binding, impl, impl)
	if err != nil || !ok {
		t.Fatalf("expected a connective to match itself, got ok=%v err=%v", ok, err)
	}

	neg, err := ast.NewNegation(studentFritz, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err = Match(binding, neg, impl)
	if err != nil || ok {
		t.Fatalf("expected negation not to match a connective, got ok=%v err=%v", ok, err)
	}
}
