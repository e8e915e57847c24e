package parser

import (
	"steptrace/ast"
	"steptrace/lexer"
)

// ParseExpr parses an expression. Operators are applied strictly left to
// right; only parentheses group.
//
//	expr    = operand { ("+"|"-"|"*"|"/"|"%") operand }
//	operand = "-" operand | STRING | NUMBER | IDENT | "(" expr ")"
func ParseExpr(src string) (ast.Expr, error) {
	p := newExprParser(lexer.Tokenize(src))
	if p.cur.Type == lexer.EOF {
		return nil, &ParseError{Col: 1, Msg: "Empty expression"}
	}
	return p.parseAll()
}

// ParseCondition parses "<expr> <op> <expr>" where op is one of
// <= >= == != < >. One layer of surrounding parentheses is dropped first.
func ParseCondition(src string) (*ast.Condition, error) {
	toks := lexer.Tokenize(src)
	eof := toks[len(toks)-1]
	body := toks[:len(toks)-1]
	if len(body) == 0 {
		return nil, &ParseError{Col: 1, Msg: "Empty condition"}
	}
	if body[0].Type == lexer.LPAREN && closingParen(body, 0) == len(body)-1 {
		eof = body[len(body)-1]
		body = body[1 : len(body)-1]
	}

	ops := []int{}
	depth := 0
	for idx, tok := range body {
		switch {
		case tok.Type == lexer.LPAREN:
			depth++
		case tok.Type == lexer.RPAREN:
			depth--
		case depth == 0 && tok.Type.IsCompare():
			ops = append(ops, idx)
		}
	}
	switch len(ops) {
	case 0:
		return nil, &ParseError{Col: 1, Msg: "Invalid condition: expected one of <= >= == != < >"}
	case 1:
	default:
		return nil, errAt(body[ops[1]], "Invalid condition: only one comparison is allowed")
	}

	opTok := body[ops[0]]
	left, err := parseSlice(body[:ops[0]], opTok, "Missing left side of "+quote(opTok.Lexeme))
	if err != nil {
		return nil, err
	}
	right, err := parseSlice(body[ops[0]+1:], eof, "Missing right side of "+quote(opTok.Lexeme))
	if err != nil {
		return nil, err
	}
	return &ast.Condition{S: sp(opTok), Left: left, Op: opTok.Lexeme, Right: right}, nil
}

func parseSlice(toks []lexer.Token, end lexer.Token, emptyMsg string) (ast.Expr, error) {
	if len(toks) == 0 {
		return nil, errAt(end, emptyMsg)
	}
	all := make([]lexer.Token, 0, len(toks)+1)
	all = append(all, toks...)
	all = append(all, lexer.Token{Type: lexer.EOF, Line: end.Line, Col: end.Col})
	return newExprParser(all).parseAll()
}

func closingParen(toks []lexer.Token, open int) int {
	depth := 0
	for idx := open; idx < len(toks); idx++ {
		switch toks[idx].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return idx
			}
		}
	}
	return -1
}

type exprParser struct {
	toks []lexer.Token
	pos  int
	cur  lexer.Token
	prev lexer.Token
}

func newExprParser(toks []lexer.Token) *exprParser {
	p := &exprParser{toks: toks}
	p.cur = toks[0]
	return p
}

func (p *exprParser) next() {
	p.prev = p.cur
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.cur = p.toks[p.pos]
}

// sp has no line: expression spans are relative to the expression text and
// are placed on a source line by the caller.
func sp(tok lexer.Token) ast.Span { return ast.Span{Col: tok.Col} }

func (p *exprParser) parseAll() (ast.Expr, error) {
	expr, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.EOF {
		return nil, p.unexpected(p.cur)
	}
	return expr, nil
}

func (p *exprParser) parseChain() (ast.Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for p.cur.Type.IsArith() {
		opTok := p.cur
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{S: sp(opTok), Left: left, Op: opTok.Lexeme, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseOperand() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.MINUS:
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{S: sp(tok), Op: "-", Right: right}, nil

	case lexer.STRING:
		p.next()
		return &ast.StringLiteral{S: sp(tok), Value: tok.Lexeme}, nil

	case lexer.NUMBER:
		p.next()
		return &ast.NumberLiteral{S: sp(tok), Lexeme: tok.Lexeme}, nil

	case lexer.IDENT:
		p.next()
		return &ast.Identifier{S: sp(tok), Name: tok.Lexeme}, nil

	case lexer.LPAREN:
		p.next()
		if p.cur.Type == lexer.RPAREN {
			return nil, errAt(p.cur, "Empty parentheses")
		}
		inner, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != lexer.RPAREN {
			return nil, errAt(p.cur, "Expected ')'")
		}
		p.next()
		return &ast.ParenExpr{S: sp(tok), Inner: inner}, nil

	case lexer.EOF:
		if p.prev.Type.IsArith() {
			return nil, errAt(p.prev, "Invalid expression: dangling "+quote(p.prev.Lexeme)+" operator")
		}
		return nil, errAt(tok, "Expected an operand")

	default:
		return nil, p.unexpected(tok)
	}
}

func (p *exprParser) unexpected(tok lexer.Token) error {
	switch {
	case tok.Type == lexer.ILLEGAL && tok.Lexeme == "Unterminated string":
		return errAt(tok, "Unterminated string literal")
	case tok.Type.IsCompare():
		return errAt(tok, "Comparison "+quote(tok.Lexeme)+" is only allowed in an if condition")
	case tok.Type == lexer.RPAREN:
		return errAt(tok, "Unmatched ')'")
	case tok.Type == lexer.STRING:
		return errAt(tok, "Expected an operator before string literal")
	case tok.Type == lexer.IDENT || tok.Type == lexer.NUMBER:
		return errAt(tok, "Expected an operator before "+quote(tok.Lexeme))
	default:
		return errAt(tok, "Unexpected "+quote(tok.Lexeme))
	}
}

func errAt(tok lexer.Token, msg string) error {
	return &ParseError{Col: tok.Col, Msg: msg}
}

func quote(s string) string { return "'" + s + "'" }
