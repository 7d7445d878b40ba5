package printer

import (
	"strings"
	"testing"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/diagnostics"
	"github.com/go-proof/logic/internal/parser"
	"github.com/go-proof/logic/internal/position"
	"github.com/go-proof/logic/internal/rules"
	"github.com/go-proof/logic/internal/theory"
)

func sp() position.Span { return position.Span{} }

func TestPrintPlainDeclaration(t *testing.T) {
	person := ast.NewNode("person", ast.Type, sp())

	tt := theory.NewTheory()
	if _, err := tt.Add(person); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := TheoryString(tt)
	want := "(type person)\n"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintDeductionRule(t *testing.T) {
	a := ast.NewNode("a", ast.Statement, sp())
	b := ast.NewNode("b", ast.Statement, sp())

	impl, err := ast.NewConnective(ast.Impl, ast.NewAtomic(a, sp()), ast.NewAtomic(b, sp()), sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ponens, err := rules.NewDeductionRule("ponens", []*ast.Node{a, b},
		[]*ast.Expr{impl, ast.NewAtomic(a, sp())}, ast.NewAtomic(b, sp()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tt := theory.NewTheory()
	if _, err := tt.Add(ponens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := TheoryString(tt)
	want := "(deductionrule ponens (list (statement a) (statement b)) (list (impl a b) a) b)\n"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// buildLemmaWithReferences wires a proof step's reference arguments to the
// exact same *ast.Expr pointers the cited statements hold as their
// definitions, the same aliasing internal/parser's reference resolution
// produces, so refName's pointer-identity lookup has something to find.
func buildLemmaWithReferences(t *testing.T) *theory.Theory {
	t.Helper()

	p := ast.NewNode("p", ast.Statement, sp())
	q := ast.NewNode("q", ast.Statement, sp())

	a := ast.NewNode("a", ast.Statement, sp())
	b := ast.NewNode("b", ast.Statement, sp())

	rulePremise, err := ast.NewConnective(ast.Impl, ast.NewAtomic(a, sp()), ast.NewAtomic(b, sp()), sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ponens, err := rules.NewDeductionRule("ponens", []*ast.Node{a, b},
		[]*ast.Expr{rulePremise, ast.NewAtomic(a, sp())}, ast.NewAtomic(b, sp()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pImplQ, err := ast.NewConnective(ast.Impl, ast.NewAtomic(p, sp()), ast.NewAtomic(q, sp()), sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	axiomImplNode := ast.NewNode("ax_impl", ast.Statement, sp())
	if err := axiomImplNode.SetDefinition(pImplQ); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	axiomImpl, err := rules.NewStatement(axiomImplNode, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	axiomPContent := ast.NewAtomic(p, sp())
	axiomPNode := ast.NewNode("ax_p", ast.Statement, sp())
	if err := axiomPNode.SetDefinition(axiomPContent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	axiomP, err := rules.NewStatement(axiomPNode, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	validStep, err := rules.NewProofStep(ponens, []*ast.Expr{ast.NewAtomic(p, sp()), ast.NewAtomic(q, sp())},
		[]*ast.Expr{pImplQ, axiomPContent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	validLemmaNode := ast.NewNode("valid_lemma", ast.Statement, sp())
	if err := validLemmaNode.SetDefinition(ast.NewAtomic(q, sp())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	validLemma, err := rules.NewStatement(validLemmaNode, validStep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tt := theory.NewTheory()

	for _, obj := range []theory.Object{axiomImpl, axiomP, validLemma} {
		if _, err := tt.Add(obj); err != nil {
			t.Fatalf("unexpected error adding object: %v", err)
		}
	}

	return tt
}

func TestPrintStatementResolvesReferencesToNames(t *testing.T) {
	tt := buildLemmaWithReferences(t)

	got := TheoryString(tt)
	want := strings.Join([]string{
		"(axiom ax_impl (impl p q))",
		"(axiom ax_p p)",
		"(lemma valid_lemma q (ponens (list p q) (list ax_impl ax_p)))",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintLongProof(t *testing.T) {
	p := ast.NewNode("p", ast.Statement, sp())

	innerNode := ast.NewNode("inner", ast.Statement, sp())
	if err := innerNode.SetDefinition(ast.NewAtomic(p, sp())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	innerStmt, err := rules.NewStatement(innerNode, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outerNode := ast.NewNode("long_lemma", ast.Statement, sp())
	if err := outerNode.SetDefinition(ast.NewAtomic(p, sp())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tt := theory.NewTheory()

	sub := theory.NewSubTheory(tt, 0)
	if _, err := sub.Add(innerStmt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outerStmt, err := rules.NewStatement(outerNode, rules.NewLongProof(sub))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tt.Add(outerStmt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := TheoryString(tt)
	want := "(lemma long_lemma p (long (axiom inner p)))\n"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestPrintWrapsAndStaysParseable forces line-wrapping with a narrow
// width, then re-parses the result to confirm the broken-up form is still
// the same rule: the lexer ignores all whitespace, so any indentation this
// package chooses must still balance exactly one "(" per ")".
func TestPrintWrapsAndStaysParseable(t *testing.T) {
	a := ast.NewNode("a", ast.Statement, sp())
	b := ast.NewNode("b", ast.Statement, sp())

	impl, err := ast.NewConnective(ast.Impl, ast.NewAtomic(a, sp()), ast.NewAtomic(b, sp()), sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ponens, err := rules.NewDeductionRule("ponens", []*ast.Node{a, b},
		[]*ast.Expr{impl, ast.NewAtomic(a, sp())}, ast.NewAtomic(b, sp()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tt := theory.NewTheory()
	if _, err := tt.Add(ponens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf strings.Builder

	p := New(&buf, Options{MaxLineLength: 20})
	if err := p.PrintTheory(tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\n\t") && !strings.Contains(output, "\n ") {
		t.Fatalf("expected the narrow width to force line-wrapping, got:\n%s", output)
	}

	diags := diagnostics.NewManager(nil)
	file := position.NewSourceFile("printed.logic", output)
	reparsed := parser.ParseRules(file, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics reparsing wrapped output: %v", diags.Diagnostics())
	}

	if reparsed.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", reparsed.Len())
	}

	rule, ok := reparsed.At(0).(*rules.DeductionRule)
	if !ok {
		t.Fatalf("expected a deduction rule, got %T", reparsed.At(0))
	}

	if rule.ObjectName() != "ponens" {
		t.Errorf("expected name ponens, got %s", rule.ObjectName())
	}

	if len(rule.Params()) != 2 {
		t.Errorf("expected 2 params, got %d", len(rule.Params()))
	}

	if len(rule.Premises()) != 2 {
		t.Errorf("expected 2 premises, got %d", len(rule.Premises()))
	}

	if rule.Conclusion().Kind() != ast.KindAtomic || rule.Conclusion().Node().Name() != "b" {
		t.Errorf("expected conclusion atomic(b), got %s", rule.Conclusion())
	}
}
