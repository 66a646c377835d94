// Package parser turns Vanta source text into an internal/ir.Module by
// recursive descent, the same top-down style the teacher uses in its own
// (much larger) parser package, sized down to the surface syntax
// SPEC_FULL.md §11 defines: definitions, let-bindings, lambdas, state
// variable reads/updates, prime, and a handful of built-in operators.
package parser

import (
	"fmt"

	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/ir"
	"github.com/vantalang/vanta/internal/lexer"
)

// Parser consumes a token stream one lookahead token at a time.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errs []error
}

// New returns a Parser reading from src.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...)))
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error {
	return p.errs
}

// ParseModule parses an entire source file into a Module named path.
func (p *Parser) ParseModule(path string) *ir.Module {
	mod := &ir.Module{Path: path}
	for p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.DEF {
			p.errorf("expected 'def', got %q", p.cur.Lexeme)
			p.next()
			continue
		}
		def := p.parseDef()
		if def != nil {
			mod.Defs = append(mod.Defs, def)
		}
	}
	return mod
}

func (p *Parser) parseDef() *ir.Def {
	p.next() // consume 'def'
	if p.cur.Type != lexer.IDENT {
		p.errorf("expected definition name, got %q", p.cur.Lexeme)
		return nil
	}
	name := p.cur.Lexeme
	p.next()

	if p.cur.Type != lexer.COLONEQ {
		p.errorf("expected ':=' after definition name %q", name)
		return nil
	}
	p.next()

	body := p.parseExpr()
	return ir.NewDef(name, body)
}

// parseExpr is the entry point for expression grammar:
//
//	expr := let | lambda | update | binary
func (p *Parser) parseExpr() ir.Node {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.FN:
		return p.parseLambda()
	}
	if p.cur.Type == lexer.IDENT && p.peek.Type == lexer.COLONEQ {
		return p.parseUpdate()
	}
	return p.parseOr()
}

func (p *Parser) parseLet() ir.Node {
	p.next() // consume 'let'
	if p.cur.Type != lexer.IDENT {
		p.errorf("expected identifier after 'let', got %q", p.cur.Lexeme)
		return ir.NewLiteral("")
	}
	name := p.cur.Lexeme
	p.next()

	if p.cur.Type != lexer.COLONEQ {
		p.errorf("expected ':=' in let-binding")
		return ir.NewLiteral("")
	}
	p.next()

	value := p.parseExpr()

	if p.cur.Type != lexer.IN {
		p.errorf("expected 'in' after let-binding value")
		return ir.NewLiteral("")
	}
	p.next()

	body := p.parseExpr()
	return ir.NewLet(name, value, body)
}

func (p *Parser) parseLambda() ir.Node {
	p.next() // consume 'fn'
	if p.cur.Type != lexer.LPAREN {
		p.errorf("expected '(' after 'fn'")
		return ir.NewLiteral("")
	}
	p.next()

	var params []string
	for p.cur.Type != lexer.RPAREN {
		if p.cur.Type != lexer.IDENT {
			p.errorf("expected parameter name, got %q", p.cur.Lexeme)
			break
		}
		params = append(params, p.cur.Lexeme)
		p.next()
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.next() // consume ')'

	if p.cur.Type != lexer.FATARROW {
		p.errorf("expected '=>' after lambda parameter list")
		return ir.NewLiteral("")
	}
	p.next()

	body := p.parseExpr()
	return ir.NewLambda(params, body)
}

func (p *Parser) parseUpdate() ir.Node {
	name := p.cur.Lexeme
	p.next() // ident
	p.next() // :=
	value := p.parseExpr()
	return ir.NewVarUpdate(name, value)
}

func (p *Parser) parseOr() ir.Node {
	left := p.parseAnd()
	for p.cur.Type == lexer.OR {
		p.next()
		right := p.parseAnd()
		left = ir.NewOpApply(config.OrOpName, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ir.Node {
	left := p.parseEquality()
	for p.cur.Type == lexer.AND {
		p.next()
		right := p.parseEquality()
		left = ir.NewOpApply(config.AndOpName, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ir.Node {
	left := p.parseAdditive()
	if p.cur.Type == lexer.EQ {
		p.next()
		right := p.parseAdditive()
		return ir.NewOpApply(config.EqOpName, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ir.Node {
	left := p.parseMultiplicative()
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := config.AddOpName
		if p.cur.Type == lexer.MINUS {
			op = config.SubOpName
		}
		p.next()
		right := p.parseMultiplicative()
		left = ir.NewOpApply(op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ir.Node {
	left := p.parseUnary()
	for p.cur.Type == lexer.STAR {
		p.next()
		right := p.parseUnary()
		left = ir.NewOpApply(config.MulOpName, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ir.Node {
	if p.cur.Type == lexer.NOT {
		p.next()
		operand := p.parseUnary()
		return ir.NewOpApply(config.NotOpName, operand)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ir.Node {
	node := p.parsePrimary()
	for p.cur.Type == lexer.PRIME {
		p.next()
		node = ir.NewOpApply(config.PrimeOpName, node)
	}
	return node
}

func (p *Parser) parsePrimary() ir.Node {
	switch p.cur.Type {
	case lexer.NUMBER:
		lit := ir.NewLiteral(p.cur.Lexeme)
		p.next()
		return lit
	case lexer.LPAREN:
		p.next()
		inner := p.parseExpr()
		if p.cur.Type != lexer.RPAREN {
			p.errorf("expected ')', got %q", p.cur.Lexeme)
		} else {
			p.next()
		}
		return inner
	case lexer.IDENT:
		name := p.cur.Lexeme
		p.next()
		if p.cur.Type == lexer.LPAREN {
			return p.parseCall(name)
		}
		return ir.NewVarRef(name)
	default:
		p.errorf("unexpected token %q", p.cur.Lexeme)
		tok := p.cur
		p.next()
		return ir.NewLiteral(tok.Lexeme)
	}
}

func (p *Parser) parseCall(name string) ir.Node {
	p.next() // consume '('
	var args []ir.Node
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpr())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if p.cur.Type == lexer.RPAREN {
		p.next()
	} else {
		p.errorf("expected ')' to close call to %q", name)
	}
	return ir.NewOpApply(name, args...)
}
