package verify

import (
	"testing"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/position"
	"github.com/go-proof/logic/internal/rules"
	"github.com/go-proof/logic/internal/theory"
)

func sp() position.Span { return position.Span{} }

func buildTheoryWithOneValidAndOneInvalidLemma(t *testing.T) *theory.Theory {
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

	p := ast.NewNode("p", ast.Statement, sp())
	q := ast.NewNode("q", ast.Statement, sp())

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

	axiomPNode := ast.NewNode("ax_p", ast.Statement, sp())
	if err := axiomPNode.SetDefinition(ast.NewAtomic(p, sp())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	axiomP, err := rules.NewStatement(axiomPNode, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	validStep, err := rules.NewProofStep(ponens, []*ast.Expr{ast.NewAtomic(p, sp()), ast.NewAtomic(q, sp())},
		[]*ast.Expr{pImplQ, ast.NewAtomic(p, sp())})
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

	// Invalid: claims p instead of q, which ponens cannot justify.
	invalidStep, err := rules.NewProofStep(ponens, []*ast.Expr{ast.NewAtomic(p, sp()), ast.NewAtomic(q, sp())},
		[]*ast.Expr{pImplQ, ast.NewAtomic(p, sp())})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalidLemmaNode := ast.NewNode("invalid_lemma", ast.Statement, sp())
	if err := invalidLemmaNode.SetDefinition(ast.NewAtomic(p, sp())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalidLemma, err := rules.NewStatement(invalidLemmaNode, invalidStep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, obj := range []theory.Object{axiomImpl, axiomP, validLemma, invalidLemma} {
		if _, err := tt.Add(obj); err != nil {
			t.Fatalf("unexpected error adding object: %v", err)
		}
	}

	return tt
}

func TestVerifyCollectsAllFailuresByDefault(t *testing.T) {
	tt := buildTheoryWithOneValidAndOneInvalidLemma(t)

	ok, failures := Verify(tt, Options{})
	if ok {
		t.Fatal("expected verification to fail overall")
	}

	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 failure, got %d: %v", len(failures), failures)
	}

	if failures[0].Name != "invalid_lemma" {
		t.Errorf("expected failure on invalid_lemma, got %s", failures[0].Name)
	}
}

func TestVerifyAbortOnFailureStopsEarly(t *testing.T) {
	tt := buildTheoryWithOneValidAndOneInvalidLemma(t)

	ok, failures := Verify(tt, Options{AbortOnFailure: true})
	if ok {
		t.Fatal("expected verification to fail overall")
	}

	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 failure when aborting early, got %d", len(failures))
	}
}
