package lang

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ErrEmpty is returned when there is no statement to evaluate.
var ErrEmpty = errors.New("empty line")

// Evaluator executes statements against an environment.
type Evaluator struct {
	env  *Env
	calc calc
}

// NewEvaluator returns an evaluator that keeps precision significant digits.
func NewEvaluator(env *Env, precision uint32) *Evaluator {
	return &Evaluator{env: env, calc: newCalc(precision)}
}

// Eval evaluates a statement in the given environment.
func Eval(stmt Statement, env *Env) (Value, error) {
	return NewEvaluator(env, DefaultPrecision).Eval(stmt)
}

// EvalLine lexes, parses, and evaluates a single line.
func EvalLine(line string, env *Env) (Value, error) {
	stmt, err := ParseLine(line)
	if err != nil {
		return Value{}, err
	}
	return Eval(stmt, env)
}

// Eval evaluates stmt. Assignments store their result before returning it.
func (ev *Evaluator) Eval(stmt Statement) (Value, error) {
	switch s := stmt.(type) {
	case nil:
		return Value{}, ErrEmpty
	case *ExprStmt:
		return ev.EvalExpr(s.Expr)
	case *Assignment:
		v, err := ev.EvalExpr(s.Value)
		if err != nil {
			return Value{}, err
		}
		ev.env.Set(s.Name, v)
		return v, nil
	default:
		panic(fmt.Sprintf("lang: unhandled statement %T", stmt))
	}
}

// EvalExpr evaluates an expression node.
func (ev *Evaluator) EvalExpr(node Expr) (Value, error) {
	switch n := node.(type) {
	case *NumberLit:
		return Scalar(new(apd.Decimal).Set(n.Value)), nil

	case *CurrencyLit:
		u := LookupCurrency(n.Symbol)
		if u == nil {
			return Value{}, typeMismatch(n.Range, msgUnknownCurrency, n.Symbol)
		}
		return WithUnit(new(apd.Decimal).Set(n.Value), u), nil

	case *VarRef:
		v, ok := ev.env.Get(n.Name)
		if !ok {
			return Value{}, undefinedVariable(n.Name, n.Range)
		}
		return v, nil

	case *BinaryExpr:
		left, err := ev.EvalExpr(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := ev.EvalExpr(n.Right)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case OpAdd:
			return ev.calc.add(left.Quantity, right.Quantity, n.Range)
		case OpSub:
			return ev.calc.sub(left.Quantity, right.Quantity, n.Range)
		case OpMul:
			return ev.calc.mul(left.Quantity, right.Quantity, n.Range)
		case OpDiv:
			return ev.calc.div(left.Quantity, right.Quantity, n.Range)
		case OpMod:
			return ev.calc.mod(left.Quantity, right.Quantity, n.Range)
		case OpPow:
			return ev.calc.pow(left.Quantity, right.Quantity, n.Range)
		}
		panic(fmt.Sprintf("lang: unhandled operator %v", n.Op))

	case *UnaryExpr:
		v, err := ev.EvalExpr(n.Operand)
		if err != nil {
			return Value{}, err
		}
		return WithUnit(new(apd.Decimal).Neg(v.Decimal()), v.Unit), nil

	case *ParenExpr:
		return ev.EvalExpr(n.Inner)

	case *PercentExpr:
		v, err := ev.EvalExpr(n.Expr)
		if err != nil {
			return Value{}, err
		}
		return WithUnit(v.Decimal(), Percent), nil

	case *PercentOfExpr:
		pct, base, err := ev.evalPair(n.Percent, n.Base)
		if err != nil {
			return Value{}, err
		}
		return ev.calc.percentOf(pct.Quantity, base.Quantity, n.Range)

	case *PercentAdjustExpr:
		pct, base, err := ev.evalPair(n.Percent, n.Base)
		if err != nil {
			return Value{}, err
		}
		return ev.calc.adjust(n.Kind, pct.Quantity, base.Quantity, n.Range)

	case *AggregateRef:
		v, ok := ev.env.Aggregate(n.Kind.Slot())
		if !ok {
			return Value{}, undefinedVariable(n.Kind.DisplayName(), n.Range)
		}
		return v, nil

	case *SubtotalRef:
		v, ok := ev.env.Aggregate(SlotSubtotal)
		if !ok {
			return Value{}, undefinedVariable(SlotSubtotal.String(), n.Range)
		}
		return v, nil

	default:
		panic(fmt.Sprintf("lang: unhandled expression %T", node))
	}
}

func (ev *Evaluator) evalPair(a, b Expr) (Value, Value, error) {
	av, err := ev.EvalExpr(a)
	if err != nil {
		return Value{}, Value{}, err
	}
	bv, err := ev.EvalExpr(b)
	if err != nil {
		return Value{}, Value{}, err
	}
	return av, bv, nil
}
