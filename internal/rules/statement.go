package rules

import (
	"fmt"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/match"
	"github.com/go-proof/logic/internal/theory"
)

// Proof is anything that can justify a Statement's content. ProofStep is
// the ordinary case (one rule application); LongProof is the
// inline-sub-theory extension for short derivations.
type Proof interface {
	Proves(self *Statement) (bool, error)
}

// Statement is a node whose declared type is Statement; its definition is
// the statement's content. A statement without a Proof is an axiom,
// accepted unconditionally by the verifier; one with a Proof is a lemma.
type Statement struct {
	*ast.Node
	proof Proof
}

// NewStatement wraps node as a Statement. node's declared type must
// already be ast.Statement; content, if any, should already have been set
// via node.SetDefinition before wrapping. proof may be nil (an axiom).
func NewStatement(node *ast.Node, proof Proof) (*Statement, error) {
	if !ast.TypeEq(node.Type(), ast.Statement, nil) {
		return nil, errors.NewTypeMismatch(node.Type(), ast.Statement, "statement declaration")
	}

	return &Statement{Node: node, proof: proof}, nil
}

// Proof returns the statement's proof, or nil for an axiom.
func (s *Statement) Proof() Proof { return s.proof }

// IsAxiom reports whether the statement carries no proof.
func (s *Statement) IsAxiom() bool { return s.proof == nil }

// Proves checks the statement's own proof against its own content; it is
// the hook the theory verifier calls for every statement it visits.
func (s *Statement) Proves() (bool, error) {
	if s.proof == nil {
		return true, nil
	}

	return s.proof.Proves(s)
}

// ProofStep is the ordinary Proof: a rule application. Construction binds
// each of the rule's parameters to the corresponding argument expression,
// type-checking each argument against the parameter's declared type using
// the bindings accumulated so far as substitution context, so a parameter
// whose declared type mentions an earlier parameter resolves correctly.
type ProofStep struct {
	rule    Rule
	binding match.Binding
	refs    []*ast.Expr
}

// NewProofStep builds a proof step applying rule with argExprs bound to
// rule's parameters, citing refs as the premises' content.
func NewProofStep(rule Rule, argExprs []*ast.Expr, refs []*ast.Expr) (*ProofStep, error) {
	params := rule.Params()
	if len(params) != len(argExprs) {
		return nil, errors.NewArityMismatch(len(params), len(argExprs))
	}

	binding := make(match.Binding, len(params))
	ctx := make(ast.Context, len(params))

	for i, p := range params {
		argType := ast.TypeOf(argExprs[i])
		if !ast.TypeEq(p.Type(), argType, ctx) {
			return nil, errors.NewTypeMismatch(argType, p.Type(), fmt.Sprintf("proof step argument %d", i))
		}

		binding[p] = argExprs[i]
		ctx[p] = argExprs[i]
	}

	return &ProofStep{rule: rule, binding: binding, refs: refs}, nil
}

// Proves returns rule.Validate(binding, refs, self's content).
func (p *ProofStep) Proves(self *Statement) (bool, error) {
	return p.rule.Validate(p.binding, p.refs, self.Definition())
}

// Rule returns the rule this step applies.
func (p *ProofStep) Rule() Rule { return p.rule }

// Refs returns the resolved content of the premises this step cites, in
// citation order.
func (p *ProofStep) Refs() []*ast.Expr { return p.refs }

// Args returns the rule's parameters' bound argument expressions, in the
// rule's own parameter order.
func (p *ProofStep) Args() []*ast.Expr {
	params := p.rule.Params()
	args := make([]*ast.Expr, len(params))

	for i, param := range params {
		args[i] = p.binding[param]
	}

	return args
}

// LongProof is an "inline sub-theory" proof variant: statements declared
// within the sub-theory may themselves carry proofs, which are checked in
// order, and the sub-theory's last statement is expected to match the
// overall claim. It reuses theory.Theory's existing nesting to let a proof
// step expand into a short derivation instead of a single rule application.
type LongProof struct {
	subTheory *theory.Theory
}

// NewLongProof wraps subTheory as a long-form proof.
func NewLongProof(subTheory *theory.Theory) *LongProof {
	return &LongProof{subTheory: subTheory}
}

// SubTheory returns the proof's inline sub-theory.
func (p *LongProof) SubTheory() *theory.Theory { return p.subTheory }

func (p *LongProof) Proves(self *Statement) (bool, error) {
	var last *Statement

	for i := 0; i < p.subTheory.Len(); i++ {
		obj := p.subTheory.At(i)

		stmt, ok := obj.(*Statement)
		if !ok {
			continue
		}

		ok2, err := stmt.Proves()
		if err != nil {
			return false, err
		}

		if !ok2 {
			return false, nil
		}

		last = stmt
	}

	if last == nil {
		return false, nil
	}

	return match.Match(match.Binding{}, last.Definition(), self.Definition())
}
