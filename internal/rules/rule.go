// Package rules implements the three concrete inference rule variants
// (tautology, equivalence, deduction), and the Statement/Proof/ProofStep
// trio that ties a lemma's claim to the rule application that justifies
// it.
package rules

import (
	"fmt"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/match"
)

// Rule is the abstract contract every concrete rule variant satisfies:
// given a binding derived from the rule's own parameters, the statements
// referenced as premises, and the statement a proof step claims to
// justify, decide whether the application is valid.
type Rule interface {
	// ObjectName satisfies theory.Object.
	ObjectName() string

	// Params returns the rule's formal parameters, in declaration order.
	Params() []*ast.Node

	// Validate decides whether claimed follows from refs under binding.
	Validate(binding match.Binding, refs []*ast.Expr, claimed *ast.Expr) (bool, error)
}

func checkIsStatement(e *ast.Expr, where string) error {
	if t := ast.TypeOf(e); !ast.TypeEq(t, ast.Statement, nil) {
		return errors.NewTypeMismatch(t, ast.Statement, where)
	}

	return nil
}

// Tautology is a rule with no premises: it validates a claim by matching
// it directly against a fixed tautological expression.
type Tautology struct {
	name       string
	params     []*ast.Node
	tautology  *ast.Expr
}

// NewTautology builds a tautology rule named name over params, whose body
// is tautology. tautology must have type Statement.
func NewTautology(name string, params []*ast.Node, tautology *ast.Expr) (*Tautology, error) {
	if err := checkIsStatement(tautology, "tautology expression"); err != nil {
		return nil, err
	}

	return &Tautology{name: name, params: params, tautology: tautology}, nil
}

func (r *Tautology) ObjectName() string  { return r.name }
func (r *Tautology) Params() []*ast.Node { return r.params }

// Statement returns the fixed expression a tautology application matches
// the claim against.
func (r *Tautology) Statement() *ast.Expr { return r.tautology }

func (r *Tautology) Validate(binding match.Binding, refs []*ast.Expr, claimed *ast.Expr) (bool, error) {
	if len(refs) != 0 {
		return false, errors.NewArityMismatch(0, len(refs))
	}

	return match.Match(binding, r.tautology, claimed)
}

// EquivalenceRule is a symmetric rule relating two statements s1 and s2:
// either may be the cited premise, with the other matched against the
// claim.
type EquivalenceRule struct {
	name   string
	params []*ast.Node
	s1, s2 *ast.Expr
}

// NewEquivalenceRule builds an equivalence rule named name relating s1 and
// s2, both of which must have type Statement.
func NewEquivalenceRule(name string, params []*ast.Node, s1, s2 *ast.Expr) (*EquivalenceRule, error) {
	if err := checkIsStatement(s1, "equivalence alternative 1"); err != nil {
		return nil, err
	}

	if err := checkIsStatement(s2, "equivalence alternative 2"); err != nil {
		return nil, err
	}

	return &EquivalenceRule{name: name, params: params, s1: s1, s2: s2}, nil
}

func (r *EquivalenceRule) ObjectName() string  { return r.name }
func (r *EquivalenceRule) Params() []*ast.Node { return r.params }

// Statement1 and Statement2 return the rule's two equivalent alternatives.
func (r *EquivalenceRule) Statement1() *ast.Expr { return r.s1 }
func (r *EquivalenceRule) Statement2() *ast.Expr { return r.s2 }

func (r *EquivalenceRule) Validate(binding match.Binding, refs []*ast.Expr, claimed *ast.Expr) (bool, error) {
	if len(refs) != 1 {
		return false, errors.NewArityMismatch(1, len(refs))
	}

	other := refs[0]

	forward1, err := match.Match(binding, r.s1, other)
	if err != nil {
		return false, err
	}

	if forward1 {
		forward2, err := match.Match(binding, r.s2, claimed)
		if err != nil {
			return false, err
		}

		if forward2 {
			return true, nil
		}
	}

	backward1, err := match.Match(binding, r.s1, claimed)
	if err != nil {
		return false, err
	}

	if !backward1 {
		return false, nil
	}

	return match.Match(binding, r.s2, other)
}

// DeductionRule is a rule with an ordered list of premises and a
// conclusion: every premise must match its cited reference, in order, and
// the conclusion must match the claim.
type DeductionRule struct {
	name       string
	params     []*ast.Node
	premises   []*ast.Expr
	conclusion *ast.Expr
}

// NewDeductionRule builds a deduction rule named name with premises and
// conclusion, each of which must have type Statement.
func NewDeductionRule(name string, params []*ast.Node, premises []*ast.Expr, conclusion *ast.Expr) (*DeductionRule, error) {
	for i, p := range premises {
		if err := checkIsStatement(p, fmt.Sprintf("premise %d", i)); err != nil {
			return nil, err
		}
	}

	if err := checkIsStatement(conclusion, "conclusion"); err != nil {
		return nil, err
	}

	return &DeductionRule{name: name, params: params, premises: premises, conclusion: conclusion}, nil
}

func (r *DeductionRule) ObjectName() string  { return r.name }
func (r *DeductionRule) Params() []*ast.Node { return r.params }

// Premises and Conclusion return the rule's ordered premise patterns and
// its conclusion pattern.
func (r *DeductionRule) Premises() []*ast.Expr { return r.premises }
func (r *DeductionRule) Conclusion() *ast.Expr { return r.conclusion }

func (r *DeductionRule) Validate(binding match.Binding, refs []*ast.Expr, claimed *ast.Expr) (bool, error) {
	if len(refs) != len(r.premises) {
		return false, errors.NewArityMismatch(len(r.premises), len(refs))
	}

	for i, premise := range r.premises {
		ok, err := match.Match(binding, premise, refs[i])
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}
	}

	return match.Match(binding, r.conclusion, claimed)
}
