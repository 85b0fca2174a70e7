package lang

import "github.com/cockroachdb/apd/v3"

// Expr is the closed set of expression nodes. Every node knows its source span.
type Expr interface {
	Span() Range
	exprNode()
}

// Statement is either an *ExprStmt or an *Assignment.
type Statement interface {
	stmtNode()
}

// BinaryOp identifies the operator of a BinaryExpr.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "mod"
	case OpPow:
		return "^"
	}
	return "?"
}

// AdjustKind selects between "X% on Y" and "X% off Y".
type AdjustKind int

const (
	AdjustOn AdjustKind = iota
	AdjustOff
)

// AggregateKind names the builtin aggregate a reference reads.
type AggregateKind int

const (
	AggSum AggregateKind = iota
	AggTotal
	AggAvg
	AggAverage
	AggPrev
)

// Slot returns the environment slot the aggregate resolves against.
// sum/total share a slot, as do avg/average.
func (k AggregateKind) Slot() Slot {
	switch k {
	case AggSum, AggTotal:
		return SlotSum
	case AggAvg, AggAverage:
		return SlotAvg
	default:
		return SlotPrev
	}
}

// DisplayName is the keyword as the user writes it.
func (k AggregateKind) DisplayName() string {
	switch k {
	case AggSum:
		return "=sum"
	case AggTotal:
		return "=total"
	case AggAvg:
		return "=avg"
	case AggAverage:
		return "=average"
	default:
		return "=prev"
	}
}

// NumberLit represents a plain number literal.
type NumberLit struct {
	Value *apd.Decimal
	Range Range
}

// CurrencyLit represents a currency symbol stitched to a number, like $1,200.
type CurrencyLit struct {
	Value  *apd.Decimal
	Symbol string
	Range  Range
}

// VarRef represents a variable reference (possibly multi-word).
type VarRef struct {
	Name  string
	Range Range
}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Range Range
}

// UnaryExpr represents negation.
type UnaryExpr struct {
	Operand Expr
	Range   Range
}

// ParenExpr keeps explicit grouping so "(5%)" is not treated as a percent literal.
type ParenExpr struct {
	Inner Expr
	Range Range
}

// PercentExpr wraps an expression with a % suffix. The magnitude is not
// divided by 100; only PercentOfExpr and PercentAdjustExpr do that.
type PercentExpr struct {
	Expr  Expr
	Range Range
}

// PercentOfExpr is "percent of base".
type PercentOfExpr struct {
	Percent Expr
	Base    Expr
	Range   Range
}

// PercentAdjustExpr is "percent on base" or "percent off base".
type PercentAdjustExpr struct {
	Kind    AdjustKind
	Percent Expr
	Base    Expr
	Range   Range
}

// AggregateRef reads =sum, =total, =avg, =average or =prev.
type AggregateRef struct {
	Kind  AggregateKind
	Range Range
}

// SubtotalRef reads the running segment total.
type SubtotalRef struct {
	Range Range
}

func (n *NumberLit) Span() Range         { return n.Range }
func (n *CurrencyLit) Span() Range       { return n.Range }
func (n *VarRef) Span() Range            { return n.Range }
func (n *BinaryExpr) Span() Range        { return n.Range }
func (n *UnaryExpr) Span() Range         { return n.Range }
func (n *ParenExpr) Span() Range         { return n.Range }
func (n *PercentExpr) Span() Range       { return n.Range }
func (n *PercentOfExpr) Span() Range     { return n.Range }
func (n *PercentAdjustExpr) Span() Range { return n.Range }
func (n *AggregateRef) Span() Range      { return n.Range }
func (n *SubtotalRef) Span() Range       { return n.Range }

func (*NumberLit) exprNode()         {}
func (*CurrencyLit) exprNode()       {}
func (*VarRef) exprNode()            {}
func (*BinaryExpr) exprNode()        {}
func (*UnaryExpr) exprNode()         {}
func (*ParenExpr) exprNode()         {}
func (*PercentExpr) exprNode()       {}
func (*PercentOfExpr) exprNode()     {}
func (*PercentAdjustExpr) exprNode() {}
func (*AggregateRef) exprNode()      {}
func (*SubtotalRef) exprNode()       {}

// ExprStmt is a line that is a bare expression.
type ExprStmt struct {
	Expr Expr
}

// Assignment represents name = expression.
type Assignment struct {
	Name      string
	NameRange Range
	Value     Expr
}

func (*ExprStmt) stmtNode()   {}
func (*Assignment) stmtNode() {}

// StatementExpr returns the expression a statement evaluates.
func StatementExpr(s Statement) Expr {
	switch s := s.(type) {
	case *ExprStmt:
		return s.Expr
	case *Assignment:
		return s.Value
	}
	panic("lang: unknown statement type")
}
