// Package printer renders parsed theories back out as the S-expression
// wire format internal/lexer and internal/parser read, the reverse
// direction of that pipeline. Every proof step's premise references are
// re-encoded relative to the statement being printed, the same "this",
// "parent^n", and bare-name forms internal/theory's Reference type
// decodes.
package printer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/rules"
	"github.com/go-proof/logic/internal/theory"
)

// doc is an intermediate layout tree built once per object, then rendered
// against a line-width budget. A word is an atomic token; a group is a
// parenthesized sequence of sub-docs, printed on one line if it fits
// within the budget and broken one sub-doc per line, indented, otherwise.
//
// This mirrors the original Writer's queue-and-measure approach (lay out
// greedily, breaking only the spans that do not fit) but as a tree built
// up front rather than a live token queue mutated in place: the queue
// version's bookkeeping (line_length running totals, write_depth tracked
// independently of the scan position) is the kind of stateful logic that
// is easy to get subtly wrong and hard to catch without running it, so
// this package trades a little of the original's line-packing density
// for a shape that is straightforward to check by hand.
type doc interface {
	flatWidth() int
}

type wordDoc string

func word(s string) wordDoc { return wordDoc(s) }

func (w wordDoc) flatWidth() int { return len(string(w)) }

type groupDoc []doc

func (g groupDoc) flatWidth() int {
	n := 2 // the parens
	for i, c := range g {
		if i > 0 {
			n++ // separating space
		}

		n += c.flatWidth()
	}

	return n
}

// Options configures line-wrapping and indentation.
type Options struct {
	// MaxLineLength is the width budget a group must fit within to be
	// printed on one line. Zero means 80.
	MaxLineLength int

	// TabSize is the number of spaces one indentation level uses when
	// UseTabs is false. Zero means 4.
	TabSize int

	// UseTabs indents with one tab character per level instead of spaces.
	UseTabs bool
}

func (o Options) normalized() Options {
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = 80
	}

	if o.TabSize <= 0 {
		o.TabSize = 4
	}

	return o
}

// Printer writes theories, statements, and expressions as S-expressions.
type Printer struct {
	out  *bufio.Writer
	opts Options

	// currentTheory/currentPos track the object currently being printed,
	// the anchor a proof step's reference arguments are encoded relative
	// to. PrintTheory and the long-proof case both push and pop these as
	// they descend into and return from a sub-theory.
	currentTheory *theory.Theory
	currentPos    int
}

// New creates a Printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{out: bufio.NewWriter(w), opts: opts.normalized()}
}

// Flush writes any buffered output to the underlying writer.
func (p *Printer) Flush() error { return p.out.Flush() }

// PrintTheory prints every object t directly owns, in order, one
// top-level S-expression per object.
func (p *Printer) PrintTheory(t *theory.Theory) error {
	savedTheory, savedPos := p.currentTheory, p.currentPos
	p.currentTheory = t

	for i := 0; i < t.Len(); i++ {
		p.currentPos = i
		p.render(p.docObject(t.At(i)), 0)
	}

	p.currentTheory, p.currentPos = savedTheory, savedPos

	return p.out.Flush()
}

// PrintExpr prints a single expression in isolation, outside of any
// theory. A lambda-call's callee or an atomic reference prints its bare
// name regardless of where it was declared.
func (p *Printer) PrintExpr(e *ast.Expr) error {
	p.render(p.docExpr(e), 0)
	return p.out.Flush()
}

// ExprString renders e using default Options and returns the result with
// its trailing newline stripped, for embedding in a one-line message.
func ExprString(e *ast.Expr) string {
	var b strings.Builder

	p := New(&b, Options{})
	p.render(p.docExpr(e), 0)
	p.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// TheoryString renders every object in t using default Options.
func TheoryString(t *theory.Theory) string {
	var b strings.Builder

	p := New(&b, Options{})
	p.PrintTheory(t)

	return b.String()
}

func (p *Printer) render(d doc, depth int) {
	switch v := d.(type) {
	case wordDoc:
		p.writeIndent(depth)
		p.out.WriteString(string(v))
		p.out.WriteByte('\n')

	case groupDoc:
		if len(v) == 0 || v.flatWidth() <= p.opts.MaxLineLength {
			p.writeIndent(depth)
			p.writeFlat(v)
			p.out.WriteByte('\n')

			return
		}

		p.writeIndent(depth)
		p.out.WriteString("(\n")

		for _, c := range v {
			p.render(c, depth+1)
		}

		p.writeIndent(depth)
		p.out.WriteString(")\n")
	}
}

func (p *Printer) writeFlat(d doc) {
	switch v := d.(type) {
	case wordDoc:
		p.out.WriteString(string(v))

	case groupDoc:
		p.out.WriteByte('(')

		for i, c := range v {
			if i > 0 {
				p.out.WriteByte(' ')
			}

			p.writeFlat(c)
		}

		p.out.WriteByte(')')
	}
}

func (p *Printer) writeIndent(depth int) {
	if p.opts.UseTabs {
		p.out.WriteString(strings.Repeat("\t", depth))
		return
	}

	p.out.WriteString(strings.Repeat(" ", depth*p.opts.TabSize))
}

// docObject builds the layout tree for one theory object: a node
// declaration, a statement, or one of the three rule variants.
func (p *Printer) docObject(obj theory.Object) doc {
	switch v := obj.(type) {
	case *rules.Statement:
		return p.docStatement(v)
	case *rules.Tautology:
		return p.docTautology(v)
	case *rules.EquivalenceRule:
		return p.docEquivalenceRule(v)
	case *rules.DeductionRule:
		return p.docDeductionRule(v)
	case *ast.Node:
		return p.docNode(v)
	default:
		return word(fmt.Sprintf("<unprintable %T>", obj))
	}
}

// docNode builds "(" type name [definition] ")", the form a plain
// declaration and every rule parameter share.
func (p *Printer) docNode(n *ast.Node) doc {
	items := []doc{p.docExpr(n.Type()), word(n.Name())}

	if n.IsDefined() {
		items = append(items, p.docExpr(n.Definition()))
	}

	return groupDoc(items)
}

func (p *Printer) docParamList(params []*ast.Node) doc {
	items := make([]doc, 0, len(params)+1)
	items = append(items, word("list"))

	for _, param := range params {
		items = append(items, p.docNode(param))
	}

	return groupDoc(items)
}

// docExpr builds the layout tree for one expression. A type expression is
// printed through the same path as any other expression: the builtin
// "type"/"statement" keywords and lambda-type construction are just two
// more Kind cases.
func (p *Printer) docExpr(e *ast.Expr) doc {
	switch e.Kind() {
	case ast.KindAtomic:
		return word(e.Node().Name())

	case ast.KindBuiltinType:
		return word(e.Builtin().String())

	case ast.KindLambdaType:
		args := make([]doc, 0, len(e.Args())+1)
		args = append(args, word("list"))

		for _, a := range e.Args() {
			args = append(args, p.docExpr(a))
		}

		return groupDoc{word("lambda-type"), p.docExpr(e.Ret()), groupDoc(args)}

	case ast.KindLambda:
		return groupDoc{word("lambda"), p.docParamList(e.Params()), p.docExpr(e.Body())}

	case ast.KindLambdaCall:
		items := make([]doc, 0, len(e.CallArgs())+1)
		items = append(items, word(e.Callee().Name()))

		for _, a := range e.CallArgs() {
			items = append(items, p.docExpr(a))
		}

		return groupDoc(items)

	case ast.KindNegation:
		return groupDoc{word("not"), p.docExpr(e.Inner())}

	case ast.KindConnective:
		return groupDoc{word(e.ConnKind().String()), p.docExpr(e.Left()), p.docExpr(e.Right())}

	case ast.KindQuantifier:
		return groupDoc{word(e.QuantKind().String()), p.docExpr(e.Predicate())}

	default:
		return word("<invalid>")
	}
}

// docStatement builds "(" ("axiom"|"lemma") name? content [proof] ")".
func (p *Printer) docStatement(s *rules.Statement) doc {
	keyword := "axiom"
	if !s.IsAxiom() {
		keyword = "lemma"
	}

	items := []doc{word(keyword)}

	if s.Name() != "" {
		items = append(items, word(s.Name()))
	}

	items = append(items, p.docExpr(s.Definition()))

	if !s.IsAxiom() {
		items = append(items, p.docProof(s.Proof()))
	}

	return groupDoc(items)
}

func (p *Printer) docProof(proof rules.Proof) doc {
	switch v := proof.(type) {
	case *rules.ProofStep:
		return p.docProofStep(v)
	case *rules.LongProof:
		return p.docLongProof(v)
	default:
		return word(fmt.Sprintf("<unprintable proof %T>", proof))
	}
}

// docProofStep builds "(" rulename "(" "list" arg* ")" "(" "list" ref* ")"
// ")". Arguments print as ordinary expressions; references print as
// names relative to the statement this proof step belongs to, since refs
// only ever hold resolved statement content rather than a reusable
// Reference handle.
func (p *Printer) docProofStep(step *rules.ProofStep) doc {
	args := make([]doc, 0, len(step.Args())+1)
	args = append(args, word("list"))

	for _, a := range step.Args() {
		args = append(args, p.docExpr(a))
	}

	refs := make([]doc, 0, len(step.Refs())+1)
	refs = append(refs, word("list"))

	for _, r := range step.Refs() {
		refs = append(refs, word(p.refName(r)))
	}

	return groupDoc{word(step.Rule().ObjectName()), groupDoc(args), groupDoc(refs)}
}

// docLongProof builds "(" "long" object* ")", descending into the
// sub-theory with currentTheory/currentPos retargeted so any proof step
// inside it encodes its own references relative to its own position, then
// restoring them on the way back out.
func (p *Printer) docLongProof(lp *rules.LongProof) doc {
	sub := lp.SubTheory()

	savedTheory, savedPos := p.currentTheory, p.currentPos
	p.currentTheory = sub

	items := make([]doc, 0, sub.Len()+1)
	items = append(items, word("long"))

	for i := 0; i < sub.Len(); i++ {
		p.currentPos = i
		items = append(items, p.docObject(sub.At(i)))
	}

	p.currentTheory, p.currentPos = savedTheory, savedPos

	return groupDoc(items)
}

func (p *Printer) docTautology(r *rules.Tautology) doc {
	return groupDoc{
		word("tautology"),
		word(r.ObjectName()),
		p.docParamList(r.Params()),
		p.docExpr(r.Statement()),
	}
}

func (p *Printer) docEquivalenceRule(r *rules.EquivalenceRule) doc {
	return groupDoc{
		word("equivrule"),
		word(r.ObjectName()),
		p.docParamList(r.Params()),
		p.docExpr(r.Statement1()),
		p.docExpr(r.Statement2()),
	}
}

func (p *Printer) docDeductionRule(r *rules.DeductionRule) doc {
	premises := make([]doc, 0, len(r.Premises())+1)
	premises = append(premises, word("list"))

	for _, premise := range r.Premises() {
		premises = append(premises, p.docExpr(premise))
	}

	return groupDoc{
		word("deductionrule"),
		word(r.ObjectName()),
		p.docParamList(r.Params()),
		groupDoc(premises),
		p.docExpr(r.Conclusion()),
	}
}

// refName finds the statement in scope whose content is target (by
// pointer identity — every statement's content is a freshly built
// expression tree, never aliased across statements) and encodes it as a
// reference relative to the object currently being printed.
func (p *Printer) refName(target *ast.Expr) string {
	ref, ok := findStatementRef(target, p.currentTheory)
	if !ok {
		return "?"
	}

	current := theory.NewReference(p.currentTheory, p.currentPos)

	return theory.Encode(ref, current)
}

func findStatementRef(target *ast.Expr, start *theory.Theory) (theory.Reference, bool) {
	for t := start; t != nil; t = t.Parent() {
		for i := 0; i < t.Len(); i++ {
			if stmt, ok := t.At(i).(*rules.Statement); ok && stmt.Definition() == target {
				return theory.NewReference(t, i), true
			}
		}
	}

	return theory.Reference{}, false
}
