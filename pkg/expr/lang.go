package expr

import (
	"context"
	"fmt"
	"math"

	"github.com/PaesslerAG/gval"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// Func is a compiled formula of one variable.
type Func func(x float64) (float64, error)

var formulaLang gval.Language

func init() {
	parts := []gval.Language{
		gval.Arithmetic(),
		gval.PrefixOperator("+", func(c context.Context, v interface{}) (interface{}, error) {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("expected number, got %v", v)
			}
			return f, nil
		}),
		gval.InfixNumberOperator("/", func(a, b float64) (interface{}, error) {
			return genmath.Eval64(genmath.Div, a, b), nil
		}),
		gval.InfixNumberOperator("^", func(a, b float64) (interface{}, error) {
			return math.Pow(a, b), nil
		}),
		gval.Precedence("^", 200),
	}
	for _, sym := range genmath.Symbols() {
		name := genmath.Name(sym)
		if name == "" {
			continue
		}
		parts = append(parts, gval.Function(name, numberFunc(sym)))
	}
	// exp is only written as e^(..) by String, but users type it too
	parts = append(parts, gval.Function("exp", numberFunc(genmath.Exp)))
	formulaLang = gval.NewLanguage(parts...)
}

func numberFunc(sym byte) func(args ...interface{}) (interface{}, error) {
	arity := genmath.Arity(sym)
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != arity {
			return nil, fmt.Errorf("%s takes %d argument(s), got %d", genmath.Name(sym), arity, len(args))
		}
		var xs [2]float64
		for i, a := range args {
			f, ok := a.(float64)
			if !ok {
				return nil, fmt.Errorf("%s: argument %d is not a number", genmath.Name(sym), i+1)
			}
			xs[i] = f
		}
		return genmath.Eval64(sym, xs[0], xs[1]), nil
	}
}

// Language returns the gval language for free-form formulas such as
// "x^2 + sin(x)"; "e" and "pi" are predefined. Its "^" is left-associative,
// so it groups "(a ^ (b)^2)" as ((a^b)^2): text written by Node.String must
// go through Parse instead.
func Language() gval.Language { return formulaLang }

// Compile parses a formula in the variable x. Text in the Node.String format
// is read with Parse and evaluated exactly as the tree; anything else goes
// through Language.
func Compile(formula string) (Func, error) {
	if tree, err := Parse(formula); err == nil {
		return func(x float64) (float64, error) { return tree.EvalF64(x), nil }, nil
	}
	eval, err := formulaLang.NewEvaluable(formula)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return func(x float64) (float64, error) {
		return eval.EvalFloat64(context.Background(), map[string]interface{}{
			DefaultVariable: x,
			"e":             math.E,
			"pi":            math.Pi,
			"Inf":           math.Inf(1),
			"NaN":           math.NaN(),
		})
	}, nil
}
