// ----------------------------------------------------------------------------
// FILE: parser/parser.go
// ----------------------------------------------------------------------------
// PACKAGE: parser
// PURPOSE: Component C. Recursive-descent parsing with Pratt-style
//          precedence climbing for binary operators, generalized from the
//          teacher's one-token-ahead curToken/peekToken scanner to a
//          buffered tag-index cursor: several productions here need
//          lookahead deeper than one tag (the "{...}" codeblock-forensic
//          brace-balance scan, the "(...)" struct-vs-grouping backtrack),
//          which a streaming scanner cannot give cheaply. The backtrack
//          itself is the same save/restore-position technique the teacher
//          uses in lexer.readIdentifier to tell "pointing to" from bare
//          "pointing", just lifted from a character offset to a tag index.
// ----------------------------------------------------------------------------
package parser

import (
	"fmt"
	"strings"

	"github.com/cstuartroe/goteko/ast"
	"github.com/cstuartroe/goteko/tag"
)

// Precedence levels, low to high, per the four binary-operator tiers.
const (
	LOWEST = iota
	COMPARE
	ADD_SUB
	MULT_DIV
	EXP
)

var binopPrecedence = map[string]int{
	"+": ADD_SUB, "-": ADD_SUB, "&&": ADD_SUB, "||": ADD_SUB,
	"*": MULT_DIV, "/": MULT_DIV, "%": MULT_DIV,
	"^": EXP, ":": EXP,
}

// Parser walks a buffered tag stream produced by package tag.
type Parser struct {
	tags []tag.Tag
	pos  int
}

func New(tags []tag.Tag) *Parser {
	return &Parser{tags: tags}
}

// Parse runs the parser over an already-tagged stream and returns the
// module's flat statement list.
func Parse(tags []tag.Tag) ([]ast.Statement, error) {
	return New(tags).ParseProgram()
}

func (p *Parser) cur() tag.Tag {
	if p.pos < len(p.tags) {
		return p.tags[p.pos]
	}
	return tag.Tag{Type: -1}
}

func (p *Parser) peek() tag.Tag {
	if p.pos+1 < len(p.tags) {
		return p.tags[p.pos+1]
	}
	return tag.Tag{Type: -1}
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tags) }

func (p *Parser) advance() { p.pos++ }

func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

func (p *Parser) curLine() int {
	if p.pos < len(p.tags) {
		return p.tags[p.pos].Line()
	}
	if len(p.tags) > 0 {
		return p.tags[len(p.tags)-1].Line()
	}
	return 0
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("Teko interpreter exception (line %d): %s", p.curLine(), fmt.Sprintf(format, args...))
}

func (p *Parser) expectType(t tag.Type) error {
	if p.atEnd() || p.cur().Type != t {
		return p.errf("expected %s, got %s", t, p.describeCurrent())
	}
	return nil
}

func (p *Parser) expectOpen(b tag.Brace) error {
	if p.atEnd() || p.cur().Type != tag.Open || p.cur().Brace != b {
		return p.errf("expected %q, got %s", b.OpenLiteral(), p.describeCurrent())
	}
	return nil
}

func (p *Parser) expectClose(b tag.Brace) error {
	if p.atEnd() || p.cur().Type != tag.Close || p.cur().Brace != b {
		return p.errf("expected %q, got %s", b.CloseLiteral(), p.describeCurrent())
	}
	return nil
}

func (p *Parser) describeCurrent() string {
	if p.atEnd() {
		return "end of input"
	}
	return p.cur().String()
}

// ----------------------------------------------------------------------------
// Program / statements
// ----------------------------------------------------------------------------

func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case tag.If:
		return p.parseIfStatement()
	case tag.For:
		return p.parseForBlock()
	case tag.While:
		return p.parseWhileBlock()
	case tag.Class:
		return p.parseClassDeclaration()
	case tag.Let:
		return p.parseLetDeclaration()
	default:
		return p.parseExprLeadStatement()
	}
}

func (p *Parser) parseExprLeadStatement() (ast.Statement, error) {
	e, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	switch {
	case p.cur().Type == tag.Setter:
		setter := p.cur()
		p.advance()
		rhs, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if setter.Setter != "=" {
			op := strings.TrimSuffix(setter.Setter, "=")
			rhs = &ast.BinOpExpression{BinOp: op, LeftExpr: e, RightExpr: rhs}
		}
		if err := p.expectType(tag.Semicolon); err != nil {
			return nil, err
		}
		p.advance()
		return &ast.AssignmentStatement{Left: e, Right: rhs}, nil

	case p.cur().Type == tag.Label:
		return p.parseDeclarationList(e)

	default:
		if err := p.expectType(tag.Semicolon); err != nil {
			return nil, err
		}
		p.advance()
		return &ast.ExpressionStatement{Expr: e}, nil
	}
}

func (p *Parser) parseDeclarationList(firstType ast.Expression) (ast.Statement, error) {
	var decls []*ast.Declaration
	typeExpr := firstType

	for {
		if err := p.expectType(tag.Label); err != nil {
			return nil, err
		}
		label := p.cur()
		p.advance()

		var structNode *ast.NewStructNode
		if p.cur().Type == tag.Open && p.cur().Brace == tag.Paren {
			sn, err := p.parseStructParen()
			if err != nil {
				return nil, err
			}
			structNode = sn
		}

		var initExpr ast.Expression
		if p.cur().Type == tag.Setter && p.cur().Setter == "=" {
			p.advance()
			e, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			initExpr = e
		}

		decls = append(decls, &ast.Declaration{
			LineNum:    typeExpr.Line(),
			TekoType:   typeExpr,
			Label:      label,
			Struct:     structNode,
			Expression: initExpr,
		})

		if p.cur().Type == tag.Comma {
			p.advance()
			te, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			typeExpr = te
			continue
		}
		break
	}

	if err := p.expectType(tag.Semicolon); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.DeclarationStatement{LineNum: decls[0].LineNum, Declarations: decls}, nil
}

func (p *Parser) parseLetDeclaration() (ast.Statement, error) {
	line := p.curLine()
	p.advance() // let

	var decls []*ast.Declaration
	for {
		if err := p.expectType(tag.Label); err != nil {
			return nil, err
		}
		label := p.cur()
		p.advance()

		var structNode *ast.NewStructNode
		if p.cur().Type == tag.Open && p.cur().Brace == tag.Paren {
			sn, err := p.parseStructParen()
			if err != nil {
				return nil, err
			}
			structNode = sn
		}

		var initExpr ast.Expression
		if p.cur().Type == tag.Setter && p.cur().Setter == "=" {
			p.advance()
			e, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			initExpr = e
		}

		decls = append(decls, &ast.Declaration{
			LineNum:    label.Line(),
			TekoType:   nil,
			Label:      label,
			Struct:     structNode,
			Expression: initExpr,
		})

		if p.cur().Type == tag.Comma {
			p.advance()
			continue
		}
		break
	}

	if err := p.expectType(tag.Semicolon); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.DeclarationStatement{LineNum: line, Declarations: decls}, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	line := p.curLine()
	p.advance() // if

	if err := p.expectOpen(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()

	block, err := p.parseCodeBlockRequired()
	if err != nil {
		return nil, err
	}

	var elseStmt *ast.IfStatement
	if p.cur().Type == tag.Else {
		p.advance()
		if p.cur().Type == tag.If {
			elseStmt, err = p.parseIfStatement()
			if err != nil {
				return nil, err
			}
		} else {
			elseBlock, err := p.parseCodeBlockRequired()
			if err != nil {
				return nil, err
			}
			elseStmt = &ast.IfStatement{
				LineNum:   elseBlock.Line(),
				Condition: &ast.SimpleExpression{Tag: tag.Tag{Type: tag.BoolTag, Bool: true}},
				CodeBlock: elseBlock,
			}
		}
	}

	return &ast.IfStatement{LineNum: line, Condition: cond, CodeBlock: block, Else: elseStmt}, nil
}

func (p *Parser) parseWhileBlock() (ast.Statement, error) {
	line := p.curLine()
	p.advance() // while
	if err := p.expectOpen(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	block, err := p.parseCodeBlockRequired()
	if err != nil {
		return nil, err
	}
	return &ast.WhileBlock{LineNum: line, Condition: cond, CodeBlock: block}, nil
}

func (p *Parser) parseForBlock() (ast.Statement, error) {
	line := p.curLine()
	p.advance() // for
	if err := p.expectOpen(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	typeExpr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectType(tag.Label); err != nil {
		return nil, err
	}
	label := p.cur()
	p.advance()
	if err := p.expectType(tag.In); err != nil {
		return nil, err
	}
	p.advance()
	iterable, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	block, err := p.parseCodeBlockRequired()
	if err != nil {
		return nil, err
	}
	return &ast.ForBlock{LineNum: line, TekoType: typeExpr, Label: label, Iterable: iterable, CodeBlock: block}, nil
}

func (p *Parser) parseClassDeclaration() (ast.Statement, error) {
	line := p.curLine()
	p.advance() // class
	if err := p.expectType(tag.Label); err != nil {
		return nil, err
	}
	label := p.cur()
	p.advance()
	if err := p.expectOpen(tag.Curly); err != nil {
		return nil, err
	}
	p.advance()

	currentVis := tag.Protected
	var visOrder []tag.Visib
	seen := map[tag.Visib]bool{}
	groups := map[tag.Visib][]*ast.DeclarationStatement{}
	record := func(vis tag.Visib) {
		if !seen[vis] {
			seen[vis] = true
			visOrder = append(visOrder, vis)
		}
	}
	record(currentVis)

	for !(p.cur().Type == tag.Close && p.cur().Brace == tag.Curly) {
		if p.atEnd() {
			return nil, p.errf("unterminated class body")
		}
		if p.cur().Type == tag.Visibility {
			currentVis = p.cur().Visibility
			p.advance()
			if err := p.expectType(tag.Colon); err != nil {
				return nil, err
			}
			p.advance()
			record(currentVis)
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		ds, ok := stmt.(*ast.DeclarationStatement)
		if !ok {
			return nil, p.errf("class body may only contain declarations")
		}
		groups[currentVis] = append(groups[currentVis], ds)
	}
	p.advance() // closing curly

	declLists := make([][]*ast.DeclarationStatement, len(visOrder))
	for i, vis := range visOrder {
		declLists[i] = groups[vis]
	}

	return &ast.ClassDeclaration{LineNum: line, Label: label, Visibility: visOrder, Declarations: declLists}, nil
}

// parseCodeBlockRequired parses a "{...}" that must resolve to a
// CodeBlock (an if/while/for/function body), not a sequence literal.
func (p *Parser) parseCodeBlockRequired() (*ast.CodeBlock, error) {
	if err := p.expectOpen(tag.Curly); err != nil {
		return nil, err
	}
	expr, err := p.parseCurlyBrace()
	if err != nil {
		return nil, err
	}
	block, ok := expr.(*ast.CodeBlock)
	if !ok {
		return nil, p.errf("expected a code block")
	}
	return block, nil
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Parser) parseExpression(prec int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(left, prec)
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	if p.atEnd() {
		return nil, p.errf("unexpected end of input in expression")
	}
	t := p.cur()

	switch t.Type {
	case tag.IntTag, tag.RealTag, tag.BoolTag, tag.StringTag, tag.Label:
		p.advance()
		return &ast.SimpleExpression{Tag: t}, nil

	case tag.Bang:
		p.advance()
		inner, err := p.parseExpression(EXP)
		if err != nil {
			return nil, err
		}
		return &ast.NotExpression{LineNum: t.Line(), Expr: inner}, nil

	case tag.Conversion:
		switch t.Conversion {
		case "{}":
			p.advance()
			return &ast.SequenceExpression{LineNum: t.Line(), Brace: tag.Curly}, nil
		case "[]":
			p.advance()
			return &ast.SequenceExpression{LineNum: t.Line(), Brace: tag.Square}, nil
		case "<>":
			p.advance()
			return &ast.SequenceExpression{LineNum: t.Line(), Brace: tag.AngleBrace}, nil
		default:
			return nil, p.errf("unexpected conversion %q in expression position", t.Conversion)
		}

	case tag.Open:
		switch t.Brace {
		case tag.Paren:
			return p.parseParenExpr()
		case tag.Curly:
			return p.parseCurlyBrace()
		case tag.Square:
			return p.parseBracketSeq()
		}
		return nil, p.errf("unexpected brace in expression position")

	case tag.LAngle:
		return p.parseAngleSeq()

	default:
		return nil, p.errf("unexpected tag in expression position: %s", p.describeCurrent())
	}
}

// parsePostfix repeatedly applies attribute access, conversions, binary
// operators and comparisons (the latter two only when their precedence
// strictly exceeds the caller's), and call argument lists, until nothing
// more applies.
func (p *Parser) parsePostfix(left ast.Expression, prec int) (ast.Expression, error) {
	for {
		if p.atEnd() {
			return left, nil
		}
		t := p.cur()

		switch t.Type {
		case tag.Dot:
			if p.peek().Type == tag.Label {
				p.advance()
				label := p.cur()
				p.advance()
				left = &ast.AttrExpression{LeftExpr: left, Label: label}
				continue
			}
			p.advance()
			left = &ast.ConversionExpression{LeftExpr: left, Conv: "."}
			continue

		case tag.Conversion:
			p.advance()
			left = &ast.ConversionExpression{LeftExpr: left, Conv: t.Conversion}
			continue

		case tag.Colon:
			if EXP <= prec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(EXP)
			if err != nil {
				return nil, err
			}
			left = &ast.BinOpExpression{BinOp: ":", LeftExpr: left, RightExpr: right}
			continue

		case tag.BinOp:
			opPrec := binopPrecedence[t.BinOp]
			if opPrec <= prec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(opPrec)
			if err != nil {
				return nil, err
			}
			left = &ast.BinOpExpression{BinOp: t.BinOp, LeftExpr: left, RightExpr: right}
			continue

		case tag.Comparison:
			if COMPARE <= prec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(COMPARE)
			if err != nil {
				return nil, err
			}
			left = &ast.ComparisonExpression{Comp: t.Comparison, LeftExpr: left, RightExpr: right}
			continue

		case tag.LAngle:
			if COMPARE <= prec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(COMPARE)
			if err != nil {
				return nil, err
			}
			left = &ast.ComparisonExpression{Comp: "<", LeftExpr: left, RightExpr: right}
			continue

		case tag.RAngle:
			if COMPARE <= prec {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(COMPARE)
			if err != nil {
				return nil, err
			}
			left = &ast.ComparisonExpression{Comp: ">", LeftExpr: left, RightExpr: right}
			continue

		case tag.Open:
			if t.Brace != tag.Paren {
				return left, nil
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			left = &ast.CallExpression{LeftExpr: left, Args: args}
			continue

		default:
			return left, nil
		}
	}
}

func (p *Parser) parseArgs() ([]*ast.ArgNode, error) {
	p.advance() // consume "("
	var args []*ast.ArgNode
	seenKw := false

	if p.cur().Type == tag.Close && p.cur().Brace == tag.Paren {
		p.advance()
		return args, nil
	}

	for {
		var kw *tag.Tag
		if p.cur().Type == tag.Label && p.peek().Type == tag.Setter && p.peek().Setter == "=" {
			k := p.cur()
			kw = &k
			p.advance()
			p.advance()
			seenKw = true
		} else if seenKw {
			return nil, p.errf("positional argument after keyword argument")
		}

		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		line := expr.Line()
		if kw != nil {
			line = kw.Line()
		}
		args = append(args, &ast.ArgNode{LineNum: line, Kw: kw, Expr: expr})

		if p.cur().Type == tag.Comma {
			p.advance()
			continue
		}
		break
	}

	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	return args, nil
}

// parseParenExpr disambiguates "(" at expression-entry position among
// grouping and struct-type-literal, per the forensic spec.md §4.C
// describes: parse a first expression, then peek for a following Label
// (the "type label" struct-elem shape) and rewind to reparse the whole
// paren as a struct if so.
func (p *Parser) parseParenExpr() (ast.Expression, error) {
	mark := p.mark()
	line := p.curLine()
	p.advance() // consume "("

	if p.cur().Type == tag.Close && p.cur().Brace == tag.Paren {
		p.advance()
		return &ast.NewStructNode{LineNum: line}, nil
	}

	firstExpr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if p.cur().Type == tag.Label {
		p.reset(mark)
		return p.parseStructParen()
	}

	if p.cur().Type == tag.Comma {
		return nil, p.errf("parenthesized comma-list is not a struct parameter list; only grouping and struct literals are supported")
	}

	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	return firstExpr, nil
}

// parseStructParen parses "(" type label ("?" default)? ("," ...)* ")"
// into a NewStructNode. Used both for the general paren disambiguator
// and directly after a declaration's label (`type name(...) = ...`).
func (p *Parser) parseStructParen() (*ast.NewStructNode, error) {
	line := p.curLine()
	if err := p.expectOpen(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()

	var elems []*ast.StructElem
	if !(p.cur().Type == tag.Close && p.cur().Brace == tag.Paren) {
		for {
			typeExpr, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			if err := p.expectType(tag.Label); err != nil {
				return nil, err
			}
			label := p.cur()
			p.advance()

			var def ast.Expression
			if p.cur().Type == tag.QMark {
				p.advance()
				d, err := p.parseExpression(LOWEST)
				if err != nil {
					return nil, err
				}
				def = d
			}
			elems = append(elems, &ast.StructElem{TekoType: typeExpr, Label: label, Default: def})

			if p.cur().Type == tag.Comma {
				p.advance()
				continue
			}
			break
		}
	}

	if err := p.expectClose(tag.Paren); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.NewStructNode{LineNum: line, Elems: elems}, nil
}

// parseCurlyBrace resolves the codeblock-vs-sequence ambiguity of a
// "{...}" at expression-entry position via the brace-balanced forensic
// scan: if a top-level ";" appears before the matching "}", it is a
// CodeBlock; otherwise a curly-brace SequenceExpression (list literal).
func (p *Parser) parseCurlyBrace() (ast.Expression, error) {
	line := p.curLine()
	if p.looksLikeCodeBlock() {
		p.advance() // consume "{"
		var stmts []ast.Statement
		for !(p.cur().Type == tag.Close && p.cur().Brace == tag.Curly) {
			if p.atEnd() {
				return nil, p.errf("unterminated code block")
			}
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		p.advance() // consume "}"
		return &ast.CodeBlock{LineNum: line, Statements: stmts}, nil
	}

	p.advance() // consume "{"
	var exprs []ast.Expression
	if !(p.cur().Type == tag.Close && p.cur().Brace == tag.Curly) {
		for {
			e, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
			if p.cur().Type == tag.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectClose(tag.Curly); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.SequenceExpression{LineNum: line, Brace: tag.Curly, Exprs: exprs}, nil
}

// looksLikeCodeBlock implements the "codeblock forensic": scan forward
// from the current Open(Curly) tag, tracking brace depth, looking for a
// Semicolon at depth 1 (this brace's own top level) before the matching
// Close brings depth back to 0.
func (p *Parser) looksLikeCodeBlock() bool {
	depth := 0
	for i := p.pos; i < len(p.tags); i++ {
		t := p.tags[i]
		switch t.Type {
		case tag.Open:
			depth++
		case tag.Close:
			depth--
			if depth == 0 {
				return false
			}
		case tag.Semicolon:
			if depth == 1 {
				return true
			}
		}
	}
	return false
}

func (p *Parser) parseBracketSeq() (ast.Expression, error) {
	line := p.curLine()
	p.advance() // consume "["
	var exprs []ast.Expression
	if !(p.cur().Type == tag.Close && p.cur().Brace == tag.Square) {
		for {
			e, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
			if p.cur().Type == tag.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectClose(tag.Square); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.SequenceExpression{LineNum: line, Brace: tag.Square, Exprs: exprs}, nil
}

func (p *Parser) parseAngleSeq() (ast.Expression, error) {
	line := p.curLine()
	p.advance() // consume "<"
	var exprs []ast.Expression
	if p.cur().Type != tag.RAngle {
		for {
			// Parsed above comparison precedence so the closing ">" is not
			// taken as a comparison operator.
			e, err := p.parseExpression(COMPARE)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
			if p.cur().Type == tag.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectType(tag.RAngle); err != nil {
		return nil, err
	}
	p.advance()
	return &ast.SequenceExpression{LineNum: line, Brace: tag.AngleBrace, Exprs: exprs}, nil
}
