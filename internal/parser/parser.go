// Package parser implements a recursive-descent reader for the
// S-expression wire format: it turns a token stream from internal/lexer
// into ast.Node/ast.Expr values collected into a theory.Theory, resolving
// every name lexically as it goes and every proof-step reference through
// theory.Decode.
//
// Error recovery follows the same shape throughout: when a construct
// doesn't parse, report a diagnostic and skip forward to the next ")",
// so one malformed object doesn't abort the rest of the file.
package parser

import (
	"fmt"

	"github.com/go-proof/logic/internal/ast"
	"github.com/go-proof/logic/internal/diagnostics"
	"github.com/go-proof/logic/internal/errors"
	"github.com/go-proof/logic/internal/lexer"
	"github.com/go-proof/logic/internal/position"
	"github.com/go-proof/logic/internal/rules"
	"github.com/go-proof/logic/internal/ruleset"
	"github.com/go-proof/logic/internal/theory"
)

// statementKeywords lists the keywords that start a statement object once
// its opening "(" has been consumed; parseObject matches the rule keywords
// by name.
var statementKeywords = map[string]bool{"axiom": true, "lemma": true}

// undefinedNode stands in for a name that failed to resolve, so parsing
// can keep building a tree instead of aborting on the first bad reference.
var undefinedNode = ast.NewNode("", ast.Undefined, position.Span{})

// Parser reads one source file into a theory.Theory.
type Parser struct {
	lex         *lexer.Lexer
	tok         lexer.Token
	lastEnd     position.Position
	diags       *diagnostics.Manager
	theoryStack []*theory.Theory
	rulesTheory *theory.Theory // looked up for proof-step rule names; may be nil
}

// New creates a Parser over file. rulesTheory supplies the rule
// definitions proof steps may cite; pass nil when parsing a rules file
// itself, which does not contain proof steps.
func New(file *position.SourceFile, diags *diagnostics.Manager, rulesTheory *theory.Theory) *Parser {
	p := &Parser{lex: lexer.New(file), diags: diags, rulesTheory: rulesTheory}
	p.tok = p.lex.Next()

	return p
}

// ParseTheory parses file to completion and returns the resulting
// top-level theory.
func (p *Parser) ParseTheory() *theory.Theory {
	t := theory.NewTheory()
	p.push(t)

	for p.tok.Type != lexer.TokenEOF {
		p.parseObject()
	}

	p.pop()

	return t
}

// ParseRules parses file as a rules theory (tautology/equivrule/
// deductionrule declarations, no proof steps of its own).
func ParseRules(file *position.SourceFile, diags *diagnostics.Manager) *theory.Theory {
	return New(file, diags, nil).ParseTheory()
}

// ParseDocument parses file as an ordinary theory whose lemmas may cite
// rules from rulesTheory.
func ParseDocument(file *position.SourceFile, diags *diagnostics.Manager, rulesTheory *theory.Theory) *theory.Theory {
	return New(file, diags, rulesTheory).ParseTheory()
}

func (p *Parser) push(t *theory.Theory) { p.theoryStack = append(p.theoryStack, t) }
func (p *Parser) pop()                  { p.theoryStack = p.theoryStack[:len(p.theoryStack)-1] }
func (p *Parser) top() *theory.Theory   { return p.theoryStack[len(p.theoryStack)-1] }

func (p *Parser) next() {
	p.lastEnd = p.tok.Span.End
	p.tok = p.lex.Next()
}

func (p *Parser) spanSince(start position.Position) position.Span {
	return position.Span{Start: start, End: p.lastEnd}
}

// expect reports a diagnostic and returns false if the current token is
// not of type tt; it never advances the token itself.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.tok.Type == tt {
		return true
	}

	p.errorMsg(p.tok.Span, fmt.Sprintf("expected %s, got %s", tt, p.tok.Type))

	return false
}

// recover skips tokens up to (but not including) the next ")" or EOF.
func (p *Parser) recover() {
	for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
		p.next()
	}
}

// closeParen consumes the ")" that should be current; if it isn't, it
// recovers and consumes whatever ")" recovery lands on, guaranteeing the
// parser always makes forward progress.
func (p *Parser) closeParen() {
	if p.expect(lexer.TokenRParen) {
		p.next()
		return
	}

	p.recover()

	if p.tok.Type == lexer.TokenRParen {
		p.next()
	}
}

func (p *Parser) errorMsg(span position.Span, msg string) {
	p.diags.Add(diagnostics.NewBuilder(span).Error().WithCategory(diagnostics.CategorySyntax).WithMessage(msg).Build())
}

func (p *Parser) errorAt(span position.Span, err error) {
	if logErr, ok := err.(*errors.Error); ok {
		p.diags.Add(diagnostics.FromError(logErr, span))
		return
	}

	p.errorMsg(span, err.Error())
}

func (p *Parser) errorAtCurrent(err error) {
	p.errorAt(p.tok.Span, err)
}

// asNode extracts the ast.Node backing a theory object, looking through
// the rules.Statement wrapper; rule objects have no backing node and
// cannot be used where a node is expected.
func asNode(obj theory.Object) (*ast.Node, bool) {
	switch v := obj.(type) {
	case *ast.Node:
		return v, true
	case *rules.Statement:
		return v.Node, true
	default:
		return nil, false
	}
}

// lookup resolves name in the current lexical scope, reporting
// NameNotFound and returning undefinedNode on failure so callers can keep
// building a tree.
func (p *Parser) lookup(name string, span position.Span) *ast.Node {
	owner, idx := p.top().Get(name)
	if owner == nil {
		p.errorAt(span, errors.NewNameNotFound(name))
		return undefinedNode
	}

	node, ok := asNode(owner.At(idx))
	if !ok {
		p.errorAt(span, errors.New(errors.NameNotFound,
			fmt.Sprintf("%q does not name a type, constant, or predicate", name),
			map[string]interface{}{"name": name}))

		return undefinedNode
	}

	return node
}

func (p *Parser) lookupRule(name string, span position.Span) rules.Rule {
	if p.rulesTheory == nil {
		p.errorAt(span, errors.NewNameNotFound(name))
		return nil
	}

	owner, idx := p.rulesTheory.Get(name)
	if owner == nil {
		p.errorAt(span, errors.NewNameNotFound(name))
		return nil
	}

	rule, ok := owner.At(idx).(rules.Rule)
	if !ok {
		p.errorAt(span, errors.New(errors.NameNotFound,
			fmt.Sprintf("%q is not a rule", name), map[string]interface{}{"name": name}))

		return nil
	}

	return rule
}

func (p *Parser) addObject(span position.Span, obj theory.Object) {
	if _, err := p.top().Add(obj); err != nil {
		p.errorAt(span, err)
	}
}

// paramsAsNodes extracts the ast.Node backing each object a parameter
// list's theory holds, in declaration order.
func paramsAsNodes(t *theory.Theory) []*ast.Node {
	all := t.All()
	nodes := make([]*ast.Node, 0, len(all))

	for _, obj := range all {
		if n, ok := obj.(*ast.Node); ok {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// parseObject parses one "(" ... ")" object and adds whatever it declares
// to the current theory.
func (p *Parser) parseObject() {
	if !p.expect(lexer.TokenLParen) {
		p.next()
		return
	}

	start := p.tok.Span.Start
	p.next()

	switch {
	case p.tok.Type == lexer.TokenWord && statementKeywords[p.tok.Text]:
		p.parseStatement(p.tok.Text, start)
	case p.tok.Type == lexer.TokenWord && p.tok.Text == "tautology":
		p.parseTautology(start)
	case p.tok.Type == lexer.TokenWord && p.tok.Text == "equivrule":
		p.parseEquivalenceRule(start)
	case p.tok.Type == lexer.TokenWord && p.tok.Text == "deductionrule":
		p.parseDeductionRule(start)
	case p.tok.Type == lexer.TokenWord && p.tok.Text == "require-version":
		p.parseRequireVersion(start)
	default:
		p.parseDecl(start)
	}

	p.closeParen()
}

// parseDecl parses a plain node declaration: type name [definition].
func (p *Parser) parseDecl(start position.Position) {
	declType := p.parseType()

	if !p.expect(lexer.TokenWord) {
		p.recover()
		return
	}

	name := p.tok.Text
	nameSpan := p.tok.Span
	p.next()

	node := ast.NewNode(name, declType, p.spanSince(start))

	if p.tok.Type != lexer.TokenRParen {
		def := p.parseExpr()
		if err := node.SetDefinition(def); err != nil {
			p.errorAt(nameSpan, err)
		}
	}

	p.addObject(nameSpan, node)
}

// parseType parses a type expression: the "type" or "statement" keyword,
// a previously-declared type's name, or a lambda-type construction.
func (p *Parser) parseType() *ast.Expr {
	switch {
	case p.tok.Type == lexer.TokenWord && p.tok.Text == "type":
		span := p.tok.Span
		p.next()

		return ast.NewBuiltinTypeExpr(ast.TypeType, span)

	case p.tok.Type == lexer.TokenWord && p.tok.Text == "statement":
		span := p.tok.Span
		p.next()

		return ast.NewBuiltinTypeExpr(ast.TypeStatement, span)

	case p.tok.Type == lexer.TokenWord:
		node := p.lookup(p.tok.Text, p.tok.Span)
		span := p.tok.Span
		p.next()

		return ast.NewAtomic(node, span)

	case p.tok.Type == lexer.TokenLParen:
		return p.parseLambdaType()

	default:
		p.errorMsg(p.tok.Span, "expected beginning of type expression")
		return ast.Undefined
	}
}

// parseLambdaType parses "(" "lambda-type" type "(" "list" type* ")" ")".
func (p *Parser) parseLambdaType() *ast.Expr {
	start := p.tok.Span.Start
	p.next() // consume '('

	if p.tok.Type == lexer.TokenWord && p.tok.Text == "lambda-type" {
		p.next()
	} else {
		p.errorMsg(p.tok.Span, "expected 'lambda-type'")
	}

	ret := p.parseType()

	var args []*ast.Expr

	if p.expect(lexer.TokenLParen) {
		p.next()

		if p.tok.Type == lexer.TokenWord && p.tok.Text == "list" {
			p.next()
		}

		for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
			args = append(args, p.parseType())
		}

		p.next() // consume the argument list's ')'
	} else {
		p.recover()
	}

	p.closeParen()

	lt, err := ast.NewLambdaType(args, ret, p.spanSince(start))
	if err != nil {
		p.errorAt(p.spanSince(start), err)
		return ast.Undefined
	}

	return lt
}

// parseParamList parses "(" "list" ( "(" decl ")" )* ")", collecting each
// declared parameter into its own theory. Rule parameter lists are
// standalone (their types may only reference earlier parameters and the
// two builtins); lambda parameter lists nest inside the enclosing scope,
// so a parameter's type may reference anything already in scope there.
func (p *Parser) parseParamList(standalone bool) *theory.Theory {
	if !p.expect(lexer.TokenLParen) {
		p.recover()

		if standalone {
			return theory.NewTheory()
		}

		return theory.NewSubTheory(p.top(), p.top().Len())
	}

	p.next()

	if p.tok.Type == lexer.TokenWord && p.tok.Text == "list" {
		p.next()
	}

	var params *theory.Theory
	if standalone {
		params = theory.NewTheory()
	} else {
		params = theory.NewSubTheory(p.top(), p.top().Len())
	}

	p.push(params)

	for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
		p.parseObject()
	}

	p.pop()

	if p.expect(lexer.TokenRParen) {
		p.next()
	}

	return params
}

// parseExpr parses one expression: an atomic name, or a parenthesized
// negation, connective, quantifier, lambda, or lambda call.
func (p *Parser) parseExpr() *ast.Expr {
	start := p.tok.Span.Start

	switch {
	case p.tok.Type == lexer.TokenWord:
		node := p.lookup(p.tok.Text, p.tok.Span)
		span := p.tok.Span
		p.next()

		return ast.NewAtomic(node, span)

	case p.tok.Type == lexer.TokenLParen:
		p.next()

		if !p.expect(lexer.TokenWord) {
			p.recover()
			p.closeParen()

			return ast.NewAtomic(undefinedNode, p.spanSince(start))
		}

		head := p.tok.Text

		switch head {
		case "not":
			p.next()

			inner := p.parseExpr()
			p.closeParen()

			e, err := ast.NewNegation(inner, p.spanSince(start))

			return p.checkExpr(e, err, start)

		case "and", "or", "impl", "equiv":
			kind := connectiveKind(head)
			p.next()

			left := p.parseExpr()
			right := p.parseExpr()
			p.closeParen()

			e, err := ast.NewConnective(kind, left, right, p.spanSince(start))

			return p.checkExpr(e, err, start)

		case "forall", "exists":
			kind := quantifierKind(head)
			p.next()

			predicate := p.parseExpr()
			p.closeParen()

			e, err := ast.NewQuantifier(kind, predicate, p.spanSince(start))

			return p.checkExpr(e, err, start)

		case "lambda":
			p.next()

			params := p.parseParamList(false)
			p.push(params)
			body := p.parseExpr()
			p.pop()
			p.closeParen()

			return ast.NewLambda(paramsAsNodes(params), body, p.spanSince(start))

		default:
			return p.parseLambdaCall(start)
		}

	default:
		p.errorMsg(p.tok.Span, "expected beginning of expression")
		return ast.NewAtomic(undefinedNode, p.tok.Span)
	}
}

func (p *Parser) checkExpr(e *ast.Expr, err error, start position.Position) *ast.Expr {
	if err != nil {
		span := p.spanSince(start)
		p.errorAt(span, err)

		return ast.NewAtomic(undefinedNode, span)
	}

	return e
}

// parseLambdaCall parses "(" word expr* ")", the current token being the
// callee's name, already confirmed to be a word by the caller.
func (p *Parser) parseLambdaCall(start position.Position) *ast.Expr {
	callee := p.lookup(p.tok.Text, p.tok.Span)
	p.next()

	var args []*ast.Expr
	for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
		args = append(args, p.parseExpr())
	}

	p.next() // consume ')'

	call, err := ast.NewLambdaCall(callee, args, p.spanSince(start))

	return p.checkExpr(call, err, start)
}

func connectiveKind(word string) ast.ConnectiveKind {
	switch word {
	case "and":
		return ast.And
	case "or":
		return ast.Or
	case "impl":
		return ast.Impl
	default: // "equiv"
		return ast.Equiv
	}
}

func quantifierKind(word string) ast.QuantifierKind {
	if word == "forall" {
		return ast.Forall
	}

	return ast.Exists // "exists"
}

// parseRequireVersion parses "(" "require-version" constraint ")", a
// directive rather than a theory object: it declares the semver range of
// rules-file format versions this file expects and is checked immediately
// against this binary's own format version, reporting a diagnostic (and
// otherwise being ignored) rather than adding anything to the theory.
// constraint is a single word token, so a multi-clause range must omit
// the space after its comma, e.g. "\">=1.0.0,<2.0.0\"".
func (p *Parser) parseRequireVersion(start position.Position) {
	p.next() // skip 'require-version'

	if !p.expect(lexer.TokenWord) {
		p.recover()
		return
	}

	constraint := ruleset.Unquote(p.tok.Text)
	constraintSpan := p.tok.Span
	p.next()

	if err := ruleset.CheckRequirement(constraint); err != nil {
		p.errorAt(constraintSpan, errors.New(errors.MalformedInput, err.Error(),
			map[string]interface{}{"constraint": constraint}))
	}
}

// parseTautology parses "tautology" name paramlist expr, having already
// consumed the opening "(" and the "tautology" keyword is current.
func (p *Parser) parseTautology(start position.Position) {
	p.next() // skip 'tautology'

	if !p.expect(lexer.TokenWord) {
		p.recover()
		return
	}

	name := p.tok.Text
	nameSpan := p.tok.Span
	p.next()

	params := p.parseParamList(true)
	p.push(params)
	body := p.parseExpr()
	p.pop()

	rule, err := rules.NewTautology(name, paramsAsNodes(params), body)
	if err != nil {
		p.errorAt(p.spanSince(start), err)
		return
	}

	p.addObject(nameSpan, rule)
}

// parseEquivalenceRule parses "equivrule" name paramlist expr expr.
func (p *Parser) parseEquivalenceRule(start position.Position) {
	p.next() // skip 'equivrule'

	if !p.expect(lexer.TokenWord) {
		p.recover()
		return
	}

	name := p.tok.Text
	nameSpan := p.tok.Span
	p.next()

	params := p.parseParamList(true)
	p.push(params)
	s1 := p.parseExpr()
	s2 := p.parseExpr()
	p.pop()

	rule, err := rules.NewEquivalenceRule(name, paramsAsNodes(params), s1, s2)
	if err != nil {
		p.errorAt(p.spanSince(start), err)
		return
	}

	p.addObject(nameSpan, rule)
}

// parseDeductionRule parses "deductionrule" name paramlist
// "(" "list" expr* ")" expr. The "list" keyword may be omitted, and when
// the token after the parameter list is not "(" the rule has zero
// premises; any "(" there is read as the premises list, so a
// parenthesized conclusion always needs a premises list before it.
func (p *Parser) parseDeductionRule(start position.Position) {
	p.next() // skip 'deductionrule'

	if !p.expect(lexer.TokenWord) {
		p.recover()
		return
	}

	name := p.tok.Text
	nameSpan := p.tok.Span
	p.next()

	params := p.parseParamList(true)
	p.push(params)

	var premises []*ast.Expr

	if p.tok.Type == lexer.TokenLParen {
		p.next()

		if p.tok.Type == lexer.TokenWord && p.tok.Text == "list" {
			p.next()
		}

		for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
			premises = append(premises, p.parseExpr())
		}

		p.next() // consume the premises list's ')'
	}

	conclusion := p.parseExpr()
	p.pop()

	rule, err := rules.NewDeductionRule(name, paramsAsNodes(params), premises, conclusion)
	if err != nil {
		p.errorAt(p.spanSince(start), err)
		return
	}

	p.addObject(nameSpan, rule)
}

// parseStatement parses ("axiom"|"lemma") name? expr proofstep?, having
// already consumed the opening "(" with keyword current. A leading word
// is always read as the statement's name — an unnamed statement's content
// must therefore start with "(", matching the grammar's content forms.
func (p *Parser) parseStatement(keyword string, start position.Position) {
	p.next() // skip 'axiom' or 'lemma'

	var name string

	nameSpan := p.tok.Span

	if p.tok.Type == lexer.TokenWord {
		name = p.tok.Text
		p.next()
	}

	content := p.parseExpr()

	node := ast.NewNode(name, ast.Statement, p.spanSince(start))
	if err := node.SetDefinition(content); err != nil {
		p.errorAt(nameSpan, err)
	}

	var proof rules.Proof

	if keyword == "lemma" {
		proof = p.parseProof()
	}

	stmt, err := rules.NewStatement(node, proof)
	if err != nil {
		p.errorAt(p.spanSince(start), err)
		return
	}

	p.addObject(nameSpan, stmt)
}

// parseProof parses a proof step: either an ordinary rule application,
// "(" rule_name "(" "list" expr* ")" "(" "list" ref* ")" ")", or the
// inline long-form proof, "(" "long" object* ")", whose last statement's
// content must match the overall claim.
func (p *Parser) parseProof() rules.Proof {
	if !p.expect(lexer.TokenLParen) {
		return nil
	}

	p.next()

	if p.tok.Type == lexer.TokenWord && p.tok.Text == "long" {
		p.next()

		sub := theory.NewSubTheory(p.top(), p.top().Len())
		p.push(sub)

		for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
			p.parseObject()
		}

		p.pop()
		p.closeParen()

		return rules.NewLongProof(sub)
	}

	if !p.expect(lexer.TokenWord) {
		p.recover()
		p.closeParen()

		return nil
	}

	ruleName := p.tok.Text
	ruleSpan := p.tok.Span
	p.next()

	rule := p.lookupRule(ruleName, ruleSpan)

	var args []*ast.Expr

	if p.tok.Type == lexer.TokenLParen {
		p.next()

		if p.tok.Type == lexer.TokenWord && p.tok.Text == "list" {
			p.next()
		}

		for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
			args = append(args, p.parseExpr())
		}

		p.next() // consume the argument list's ')'
	}

	var refs []*ast.Expr

	if p.tok.Type == lexer.TokenLParen {
		p.next()

		if p.tok.Type == lexer.TokenWord && p.tok.Text == "list" {
			p.next()
		}

		for p.tok.Type != lexer.TokenRParen && p.tok.Type != lexer.TokenEOF {
			refs = append(refs, p.parseReference())
		}

		p.next() // consume the reference list's ')'
	}

	p.closeParen()

	if rule == nil {
		return nil
	}

	step, err := rules.NewProofStep(rule, args, refs)
	if err != nil {
		p.errorAt(ruleSpan, err)
		return nil
	}

	return step
}

// parseReference parses a single reference token and resolves it to the
// content of the statement it names.
func (p *Parser) parseReference() *ast.Expr {
	if !p.expect(lexer.TokenWord) {
		span := p.tok.Span
		p.next()

		return ast.NewAtomic(undefinedNode, span)
	}

	text := p.tok.Text
	span := p.tok.Span
	p.next()

	current := theory.NewReference(p.top(), p.top().Len())

	ref, err := theory.Decode(text, current)
	if err != nil {
		p.errorAt(span, err)
		return ast.NewAtomic(undefinedNode, span)
	}

	stmt, ok := ref.Resolve().(*rules.Statement)
	if !ok {
		p.errorAt(span, errors.New(errors.NameNotFound,
			fmt.Sprintf("reference %q does not name a statement", text),
			map[string]interface{}{"name": text}))

		return ast.NewAtomic(undefinedNode, span)
	}

	return stmt.Definition()
}
