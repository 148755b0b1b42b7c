// Package parser implements Monad's recursive-descent, one-token-lookahead
// parser: plain S-expressions, bracket lists, quote desugaring,
// and the two lambda/define special forms.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/token"
)

// ParseError is a single syntactic diagnostic collected during parsing.
type ParseError struct {
	Message string
	Pos     token.Position
}

// Parser consumes tokens from a Lexer and produces an AST, one top-level
// expression at a time.
type Parser struct {
	lex     *lexer.Lexer
	errors  []ParseError
	curTok  token.Token
	peekTok token.Token
}

// New creates a Parser reading from l, priming the one-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns the syntactic diagnostics collected so far.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *Parser) advance() {
	p.curTok = p.peekTok
	p.peekTok = p.lex.NextToken()
}

func (p *Parser) expect(tt token.Type, msg string) {
	if p.curTok.Type != tt {
		p.errorf(p.curTok.Pos, "%s, got %s", msg, describe(p.curTok))
		return
	}
	p.advance()
}

func describe(t token.Token) string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}

// ParseExpr parses a single top-level expression without requiring EOF
// immediately after, for callers (the REPL) that feed one line at a
// time. Check Errors() afterward.
func (p *Parser) ParseExpr() ast.Node {
	return p.parseExpr()
}

// AtEOF reports whether the parser has consumed every token.
func (p *Parser) AtEOF() bool { return p.curTok.Type == token.EOF }

// ParseProgram parses every top-level expression until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.curTok.Type != token.EOF {
		prog.Exprs = append(prog.Exprs, p.parseExpr())
		if len(p.errors) > 200 {
			break // runaway error recovery guard; first error already aborts callers
		}
	}
	return prog
}

// parseExpr implements: expr := atom | list | bracketList | quoted
func (p *Parser) parseExpr() ast.Node {
	switch p.curTok.Type {
	case token.QUOTE:
		return p.parseQuoted()
	case token.LPAREN:
		return p.parseList()
	case token.LBRACKET:
		return p.parseBracketList()
	case token.NUMBER, token.SYMBOL, token.STRING, token.CHAR, token.ARROW:
		return p.parseAtom()
	default:
		p.errorf(p.curTok.Pos, "unexpected token %s", describe(p.curTok))
		pos := p.curTok.Pos
		p.advance()
		return ast.NewSymbol(pos.Line, pos.Column, pos.Column, "")
	}
}

// parseQuoted desugars 'e to (quote e); the produced node's start column is
// the quote's own column.
func (p *Parser) parseQuoted() ast.Node {
	pos := p.curTok.Pos
	p.advance() // consume '
	inner := p.parseExpr()
	quoteSym := ast.NewSymbol(pos.Line, pos.Column, pos.Column+1, "quote")
	return ast.NewList(pos.Line, pos.Column, inner.EndColumn(), []ast.Node{quoteSym, inner}, false)
}

func (p *Parser) parseAtom() ast.Node {
	tok := p.curTok
	defer p.advance()

	width := len([]rune(tok.Literal))
	switch tok.Type {
	case token.NUMBER:
		v, err := parseNumberLiteral(tok.Literal)
		if err != nil {
			p.errorf(tok.Pos, "malformed number literal %q: %v", tok.Literal, err)
		}
		return ast.NewNumber(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column+width, tok.Literal, v)
	case token.SYMBOL:
		return ast.NewSymbol(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column+width, tok.Literal)
	case token.STRING:
		// +2 for the two surrounding quote characters.
		return ast.NewString(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column+width+2, tok.Literal)
	case token.CHAR:
		var b byte
		if len(tok.Literal) > 0 {
			b = tok.Literal[0]
		}
		return ast.NewChar(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column+3, b)
	case token.ARROW:
		return ast.NewSymbol(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column+2, "->")
	}
	p.errorf(tok.Pos, "unexpected token %s", describe(tok))
	return ast.NewSymbol(tok.Pos.Line, tok.Pos.Column, tok.Pos.Column, "")
}

func parseNumberLiteral(s string) (float64, error) {
	neg := false
	t := s
	if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	}

	var v float64
	switch {
	case strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X"):
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		v = float64(int64(n))
	case strings.HasPrefix(t, "0b") || strings.HasPrefix(t, "0B"):
		n, err := strconv.ParseUint(t[2:], 2, 64)
		if err != nil {
			return 0, err
		}
		v = float64(int64(n))
	case strings.HasPrefix(t, "0o") || strings.HasPrefix(t, "0O"):
		n, err := strconv.ParseUint(t[2:], 8, 64)
		if err != nil {
			return 0, err
		}
		v = float64(int64(n))
	default:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, err
		}
		v = f
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseList implements: list := '(' special? expr* ')'
func (p *Parser) parseList() ast.Node {
	openPos := p.curTok.Pos
	p.advance() // consume '('

	if p.curTok.Type == token.SYMBOL && p.curTok.Literal == "lambda" {
		return p.parseLambdaForm(openPos)
	}
	if p.curTok.Type == token.SYMBOL && p.curTok.Literal == "define" {
		return p.parseDefineForm(openPos)
	}

	var items []ast.Node
	for p.curTok.Type != token.RPAREN {
		if p.curTok.Type == token.EOF {
			p.errorf(openPos, "unclosed '(' starting here")
			return ast.NewList(openPos.Line, openPos.Column, openPos.Column+1, items, false)
		}
		items = append(items, p.parseExpr())
	}
	endCol := p.closingEndColumn(openPos)
	p.advance() // consume ')'
	return ast.NewList(openPos.Line, openPos.Column, endCol, items, false)
}

// parseBracketList implements: bracketList := '[' expr* ']'
func (p *Parser) parseBracketList() ast.Node {
	openPos := p.curTok.Pos
	p.advance() // consume '['

	var items []ast.Node
	for p.curTok.Type != token.RBRACKET {
		if p.curTok.Type == token.EOF {
			p.errorf(openPos, "unclosed '[' starting here")
			return ast.NewList(openPos.Line, openPos.Column, openPos.Column+1, items, true)
		}
		items = append(items, p.parseExpr())
	}
	endCol := p.closingEndColumn(openPos)
	p.advance() // consume ']'
	return ast.NewList(openPos.Line, openPos.Column, endCol, items, true)
}

// closingEndColumn computes a list's EndColumn: for a single-line list,
// one past the closing delimiter; for a multiline list, the closer's own
// column on its own line (a best-effort range).
func (p *Parser) closingEndColumn(openPos token.Position) int {
	closeTok := p.curTok
	if closeTok.Type == token.EOF {
		return openPos.Column + 1
	}
	if closeTok.Pos.Line == openPos.Line {
		return closeTok.Pos.Column + 1
	}
	return closeTok.Pos.Column
}

// parseLambdaForm parses `(lambda (<sig>) <doc?> <body>)`. curTok is the
// "lambda" symbol on entry (not yet consumed).
func (p *Parser) parseLambdaForm(openPos token.Position) ast.Node {
	p.advance() // consume "lambda"

	if p.curTok.Type != token.LPAREN {
		p.errorf(p.curTok.Pos, "expected '(' after 'lambda', got %s", describe(p.curTok))
	} else {
		p.advance() // consume '('
	}

	params, returnType := p.parseFnSignature()
	p.expect(token.RPAREN, "expected ')' to close function signature")

	doc := p.parseOptionalDocstring()

	body := p.parseExpr()
	endCol := p.closingEndColumn(openPos)
	p.expect(token.RPAREN, "expected ')' to close lambda form")

	return ast.NewLambda(openPos.Line, openPos.Column, endCol, params, returnType, doc, body)
}

// parseDefineForm parses both define shapes. curTok is the "define" symbol
// on entry (not yet consumed).
func (p *Parser) parseDefineForm(openPos token.Position) ast.Node {
	defTok := p.curTok
	defineSym := ast.NewSymbol(defTok.Pos.Line, defTok.Pos.Column, defTok.Pos.Column+len(defTok.Literal), defTok.Literal)
	p.advance() // consume "define"

	if p.curTok.Type == token.LPAREN {
		return p.parseShortFormDefine(openPos, defineSym)
	}

	target := p.parseExpr()
	value := p.parseExpr()
	endCol := p.closingEndColumn(openPos)
	p.expect(token.RPAREN, "expected ')' to close define")
	return ast.NewList(openPos.Line, openPos.Column, endCol, []ast.Node{defineSym, target, value}, false)
}

// parseShortFormDefine desugars `(define (<name> <sig>) <doc?> <body>)`
// into `(define <name> (lambda <sig> <doc?> <body>))` at parse time.
func (p *Parser) parseShortFormDefine(listOpenPos token.Position, defineSym ast.Node) ast.Node {
	sigOpenPos := p.curTok.Pos
	p.advance() // consume '('

	if p.curTok.Type != token.SYMBOL {
		p.errorf(p.curTok.Pos, "expected function name in short-form define, got %s", describe(p.curTok))
	}
	nameTok := p.curTok
	nameSym := ast.NewSymbol(nameTok.Pos.Line, nameTok.Pos.Column, nameTok.Pos.Column+len(nameTok.Literal), nameTok.Literal)
	if p.curTok.Type == token.SYMBOL {
		p.advance()
	}

	params, returnType := p.parseFnSignature()
	sigEndCol := p.closingEndColumn(sigOpenPos)
	p.expect(token.RPAREN, "expected ')' to close function signature")

	doc := p.parseOptionalDocstring()
	body := p.parseExpr()

	lambdaNode := ast.NewLambda(sigOpenPos.Line, sigOpenPos.Column, sigEndCol, params, returnType, doc, body)

	listEndCol := p.closingEndColumn(listOpenPos)
	p.expect(token.RPAREN, "expected ')' to close define")

	return ast.NewList(listOpenPos.Line, listOpenPos.Column, listEndCol, []ast.Node{defineSym, nameSym, lambdaNode}, false)
}

func (p *Parser) parseOptionalDocstring() string {
	if p.curTok.Type != token.STRING {
		return ""
	}
	doc := p.curTok.Literal
	p.advance()
	return doc
}

// parseFnSignature reads a function signature up to (but not consuming)
// the closing ')': a mixed sequence of `[name :: Type]` parameter
// brackets, '->' tokens (skipped), and type-name symbols; the last
// symbol seen names the return type. The count of arrows and the
// position of the return-type symbol are not checked. A token of any
// other kind inside the signature is an error.
func (p *Parser) parseFnSignature() (params []ast.Param, returnType string) {
	for p.curTok.Type != token.RPAREN && p.curTok.Type != token.EOF {
		switch p.curTok.Type {
		case token.LBRACKET:
			params = append(params, p.parseBracketParam())
		case token.ARROW:
			p.advance()
		case token.SYMBOL:
			returnType = p.curTok.Literal
			p.advance()
		default:
			p.errorf(p.curTok.Pos, "unexpected token in lambda signature: %s", describe(p.curTok))
			p.advance()
		}
	}
	return params, returnType
}

// parseBracketParam reads one `[name]` or `[name :: Type]` parameter
// annotation. curTok is the '[' on entry.
func (p *Parser) parseBracketParam() ast.Param {
	p.advance() // consume '['
	if p.curTok.Type != token.SYMBOL {
		p.errorf(p.curTok.Pos, "expected parameter name, got %s", describe(p.curTok))
		p.advance()
		return ast.Param{}
	}
	name := p.curTok.Literal
	p.advance()

	var typeName string
	if p.curTok.Type == token.SYMBOL && p.curTok.Literal == "::" {
		p.advance()
		if p.curTok.Type != token.SYMBOL {
			p.errorf(p.curTok.Pos, "expected type name after '::', got %s", describe(p.curTok))
		} else {
			typeName = p.curTok.Literal
			p.advance()
		}
	}
	p.expect(token.RBRACKET, "expected ']' after parameter")
	return ast.Param{Name: name, TypeName: typeName}
}
