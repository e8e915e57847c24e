package ast

import "fmt"

type Node interface {
	NodeKind() string
}

type Expr interface {
	Node
	exprNode()
	String() string
	GetSpan() Span
}

type StringLiteral struct {
	S     Span
	Value string
}

func (s *StringLiteral) NodeKind() string { return "StringLiteral" }
func (s *StringLiteral) exprNode()        {}
func (s *StringLiteral) GetSpan() Span    { return s.S }
func (s *StringLiteral) String() string   { return fmt.Sprintf("String(%q)", s.Value) }

type NumberLiteral struct {
	S      Span
	Lexeme string
}

func (n *NumberLiteral) NodeKind() string { return "NumberLiteral" }
func (n *NumberLiteral) exprNode()        {}
func (n *NumberLiteral) GetSpan() Span    { return n.S }
func (n *NumberLiteral) String() string   { return fmt.Sprintf("Number(%s)", n.Lexeme) }

type Identifier struct {
	S    Span
	Name string
}

func (i *Identifier) NodeKind() string { return "Identifier" }
func (i *Identifier) exprNode()        {}
func (i *Identifier) GetSpan() Span    { return i.S }
func (i *Identifier) String() string   { return fmt.Sprintf("Ident(%s)", i.Name) }

// UnaryExpr is a leading minus on an operand.
type UnaryExpr struct {
	S     Span
	Op    string
	Right Expr
}

func (u *UnaryExpr) NodeKind() string { return "UnaryExpr" }
func (u *UnaryExpr) exprNode()        {}
func (u *UnaryExpr) GetSpan() Span    { return u.S }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("Unary(%s %s)", u.Op, u.Right.String())
}

// BinaryExpr chains are always left-nested: operators have no precedence.
type BinaryExpr struct {
	S     Span
	Left  Expr
	Op    string
	Right Expr
}

func (b *BinaryExpr) NodeKind() string { return "BinaryExpr" }
func (b *BinaryExpr) exprNode()        {}
func (b *BinaryExpr) GetSpan() Span    { return b.S }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("Binary(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// ParenExpr keeps explicit grouping visible in String output.
type ParenExpr struct {
	S     Span
	Inner Expr
}

func (p *ParenExpr) NodeKind() string { return "ParenExpr" }
func (p *ParenExpr) exprNode()        {}
func (p *ParenExpr) GetSpan() Span    { return p.S }
func (p *ParenExpr) String() string   { return fmt.Sprintf("Paren(%s)", p.Inner.String()) }

// Condition is a single binary comparison.
type Condition struct {
	S     Span
	Left  Expr
	Op    string
	Right Expr
}

func (c *Condition) NodeKind() string { return "Condition" }
func (c *Condition) GetSpan() Span    { return c.S }
func (c *Condition) String() string {
	return fmt.Sprintf("Condition(%s %s %s)", c.Left.String(), c.Op, c.Right.String())
}
