// Package genmath is the fixed operator table of the expression language.
//
// Every operator is a single byte. Binary operators take two arguments,
// unary operators ignore the second. Evaluation never panics: domain errors
// and unknown symbols produce NaN, which poisons fitness and is ranked worst.
package genmath

import "math"

// Float is the set of value types the evaluator works in.
type Float interface {
	~float32 | ~float64
}

const (
	Add    byte = '+'
	Sub    byte = '-'
	Mul    byte = '*'
	Div    byte = '/'
	Pow    byte = '^'
	Max    byte = '>'
	Min    byte = '<'
	Square byte = '2'
	Cube   byte = '3'
	Fourth byte = '4'
	Fifth  byte = '5'
	Abs    byte = '|'
	Exp    byte = 'e'
	Ln     byte = 'l'
	Log10  byte = 'L'
	Sqrt   byte = '~'
	Sin    byte = 's'
	Cos    byte = 'c'
	Tan    byte = 't'
	Asin   byte = 'S'
	Acos   byte = 'C'
	Atan   byte = 'T'
)

type opInfo struct {
	arity   int
	display string
	name    string // function name in the text format, "" for infix/postfix forms
}

var table = map[byte]opInfo{
	Add:    {2, "+", ""},
	Sub:    {2, "-", ""},
	Mul:    {2, "*", ""},
	Div:    {2, "/", ""},
	Pow:    {2, "^", ""},
	Max:    {2, "max", "max"},
	Min:    {2, "min", "min"},
	Square: {1, "^2", ""},
	Cube:   {1, "^3", ""},
	Fourth: {1, "^4", ""},
	Fifth:  {1, "^5", ""},
	Abs:    {1, "abs", "abs"},
	Exp:    {1, "e^", ""},
	Ln:     {1, "ln", "ln"},
	Log10:  {1, "log", "log"},
	Sqrt:   {1, "sqrt", "sqrt"},
	Sin:    {1, "sin", "sin"},
	Cos:    {1, "cos", "cos"},
	Tan:    {1, "tan", "tan"},
	Asin:   {1, "asin", "asin"},
	Acos:   {1, "acos", "acos"},
	Atan:   {1, "atan", "atan"},
}

var (
	binarySymbols = []byte{Add, Sub, Mul, Div, Pow, Max, Min}
	unarySymbols  = []byte{Square, Cube, Fourth, Fifth, Abs, Exp, Ln, Log10, Sqrt, Sin, Cos, Tan, Asin, Acos, Atan}
	byName        = map[string]byte{}
)

func init() {
	for sym, info := range table {
		if info.name != "" {
			byName[info.name] = sym
		}
	}
}

// Arity returns 1 or 2 for known symbols and 0 otherwise.
func Arity(sym byte) int {
	return table[sym].arity
}

// Known reports whether sym is in the operator table.
func Known(sym byte) bool {
	_, ok := table[sym]
	return ok
}

// Display returns the display string of sym ("^2" for Square, "e^" for Exp).
func Display(sym byte) string {
	if info, ok := table[sym]; ok {
		return info.display
	}
	return "?"
}

// Name returns the function name sym is written with, or "".
func Name(sym byte) string {
	return table[sym].name
}

// Lookup maps a function name back to its symbol.
func Lookup(name string) (byte, bool) {
	sym, ok := byName[name]
	return sym, ok
}

// PowerOf returns the exponent of a fixed power operator, or 0.
func PowerOf(sym byte) int {
	if sym >= Square && sym <= Fifth {
		return int(sym - '0')
	}
	return 0
}

// Unary returns the unary symbols in table order.
func Unary() []byte { return append([]byte(nil), unarySymbols...) }

// Binary returns the binary symbols in table order.
func Binary() []byte { return append([]byte(nil), binarySymbols...) }

// Symbols returns every known symbol, binary first.
func Symbols() []byte { return append(Binary(), unarySymbols...) }

// Eval applies sym to x1 (and x2 for binary operators).
func Eval[T Float](sym byte, x1, x2 T) T {
	a, b := float64(x1), float64(x2)
	switch sym {
	case Add:
		return x1 + x2
	case Sub:
		return x1 - x2
	case Mul:
		return x1 * x2
	case Div:
		if x2 == 0 {
			return T(math.NaN())
		}
		return x1 / x2
	case Pow:
		return T(math.Pow(a, b))
	case Max:
		if math.IsNaN(a) || math.IsNaN(b) {
			return T(math.NaN())
		}
		return T(math.Max(a, b))
	case Min:
		if math.IsNaN(a) || math.IsNaN(b) {
			return T(math.NaN())
		}
		return T(math.Min(a, b))
	case Square:
		return x1 * x1
	case Cube:
		return x1 * x1 * x1
	case Fourth:
		sq := x1 * x1
		return sq * sq
	case Fifth:
		sq := x1 * x1
		return sq * sq * x1
	case Abs:
		return T(math.Abs(a))
	case Exp:
		return T(math.Exp(a))
	case Ln:
		if !(a > 0) {
			return T(math.NaN())
		}
		return T(math.Log(a))
	case Log10:
		if !(a > 0) {
			return T(math.NaN())
		}
		return T(math.Log10(a))
	case Sqrt:
		if a < 0 {
			return T(math.NaN())
		}
		return T(math.Sqrt(a))
	case Sin:
		return T(math.Sin(a))
	case Cos:
		return T(math.Cos(a))
	case Tan:
		return T(math.Tan(a))
	case Asin:
		return T(math.Asin(a))
	case Acos:
		return T(math.Acos(a))
	case Atan:
		return T(math.Atan(a))
	default:
		return T(math.NaN())
	}
}

// Eval64 is Eval in double precision.
func Eval64(sym byte, x1, x2 float64) float64 { return Eval(sym, x1, x2) }

// Eval32 is Eval in single precision.
func Eval32(sym byte, x1, x2 float32) float32 { return Eval(sym, x1, x2) }
