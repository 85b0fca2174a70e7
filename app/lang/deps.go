package lang

import "fmt"

// Usage summarises what a statement reads besides its own literals.
type Usage struct {
	Aggregate bool            // reads =sum, =total, =avg, =average or =prev
	Prev      bool            // reads =prev
	Subtotal  bool            // reads =subtotal
	Vars      map[string]bool // variable names referenced
}

// Analyze walks a statement and reports its aggregate, subtotal and
// variable usage. A nil statement has no usage.
func Analyze(stmt Statement) Usage {
	u := Usage{Vars: map[string]bool{}}
	if stmt == nil {
		return u
	}
	u.walk(StatementExpr(stmt))
	return u
}

func (u *Usage) walk(e Expr) {
	switch n := e.(type) {
	case *NumberLit, *CurrencyLit:
	case *VarRef:
		u.Vars[n.Name] = true
	case *BinaryExpr:
		u.walk(n.Left)
		u.walk(n.Right)
	case *UnaryExpr:
		u.walk(n.Operand)
	case *ParenExpr:
		u.walk(n.Inner)
	case *PercentExpr:
		u.walk(n.Expr)
	case *PercentOfExpr:
		u.walk(n.Percent)
		u.walk(n.Base)
	case *PercentAdjustExpr:
		u.walk(n.Percent)
		u.walk(n.Base)
	case *AggregateRef:
		u.Aggregate = true
		if n.Kind == AggPrev {
			u.Prev = true
		}
	case *SubtotalRef:
		u.Subtotal = true
	default:
		panic(fmt.Sprintf("lang: unhandled expression %T", e))
	}
}

// References reports whether the usage reads any name in set.
func (u Usage) References(set map[string]bool) bool {
	for name := range u.Vars {
		if set[name] {
			return true
		}
	}
	return false
}
