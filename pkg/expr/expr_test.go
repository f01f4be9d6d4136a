package expr

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/wildfunctions/genetix/pkg/genmath"
	"github.com/wildfunctions/genetix/pkg/rng"
)

func assertEval(t *testing.T, node Node, x, expected, tol float64) {
	t.Helper()
	got := node.EvalF64(x)
	if math.Abs(got-expected) > tol {
		t.Errorf("%s at x=%v = %v, want %v (tol=%v)", node, x, got, expected, tol)
	}
}

func TestVarNode(t *testing.T) {
	v := Var()
	assertEval(t, v, 5, 5, 0)
	assertEval(t, v, -1.5, -1.5, 0)

	if v.String() != "x" {
		t.Errorf("VarNode.String() = %q, want \"x\"", v.String())
	}
	if v.NodeCount() != 1 || v.Depth() != 1 {
		t.Errorf("VarNode length/depth = %d/%d, want 1/1", v.NodeCount(), v.Depth())
	}
}

func TestConstNode(t *testing.T) {
	c := Const(7)
	assertEval(t, c, 99, 7, 0)

	if c.String() != "7" {
		t.Errorf("ConstNode.String() = %q, want \"7\"", c.String())
	}
	if s := Const(0.1).String(); s != "0.1" {
		t.Errorf("ConstNode.String() = %q, want \"0.1\"", s)
	}
}

func TestEvalOperators(t *testing.T) {
	x := Var()
	tests := []struct {
		node Node
		at   float64
		want float64
	}{
		{Binary(genmath.Add, x, Const(2)), 3, 5},
		{Binary(genmath.Sub, x, Const(2)), 3, 1},
		{Binary(genmath.Mul, x, Const(2)), 3, 6},
		{Binary(genmath.Div, x, Const(2)), 3, 1.5},
		{Binary(genmath.Pow, x, Const(3)), 2, 8},
		{Binary(genmath.Max, x, Const(2)), 3, 3},
		{Binary(genmath.Min, x, Const(2)), 3, 2},
		{Unary(genmath.Square, x), 3, 9},
		{Unary(genmath.Cube, x), -2, -8},
		{Unary(genmath.Fourth, x), 2, 16},
		{Unary(genmath.Fifth, x), 2, 32},
		{Unary(genmath.Abs, x), -4, 4},
		{Unary(genmath.Exp, x), 0, 1},
		{Unary(genmath.Ln, x), math.E, 1},
		{Unary(genmath.Log10, x), 1000, 3},
		{Unary(genmath.Sqrt, x), 16, 4},
		{Unary(genmath.Sin, x), 0, 0},
		{Unary(genmath.Cos, x), 0, 1},
		{Unary(genmath.Tan, x), 0, 0},
		{Unary(genmath.Asin, x), 1, math.Pi / 2},
		{Unary(genmath.Acos, x), 1, 0},
		{Unary(genmath.Atan, x), 1, math.Pi / 4},
	}
	for _, tt := range tests {
		assertEval(t, tt.node, tt.at, tt.want, 1e-12)
		if got := Evaluate(tt.node, tt.at); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Evaluate[float64](%s) = %v, want %v", tt.node, got, tt.want)
		}
		if got := Evaluate(tt.node, float32(tt.at)); math.Abs(float64(got)-tt.want) > 1e-5 {
			t.Errorf("Evaluate[float32](%s) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestNaNPropagates(t *testing.T) {
	tests := []string{
		"(x / 0)",
		"ln(0)",
		"log((x - 1))",
		"sqrt(-1)",
		"((x / 0) + 1)",
		"sin(sqrt((x - 10)))",
		"max(ln(0), 1)",
	}
	for _, text := range tests {
		n := MustParse(text)
		if v := n.EvalF64(1); !math.IsNaN(v) {
			t.Errorf("%s at 1 = %v, want NaN", text, v)
		}
		if v := Evaluate(n, float32(1)); v == v {
			t.Errorf("%s at 1 in float32 = %v, want NaN", text, v)
		}
	}
}

func TestNodeCountAndDepth(t *testing.T) {
	n := MustParse("((x + 1) * sin(x))")
	if n.NodeCount() != 6 {
		t.Errorf("NodeCount = %d, want 6", n.NodeCount())
	}
	if n.Depth() != 3 {
		t.Errorf("Depth = %d, want 3", n.Depth())
	}
}

func TestClone(t *testing.T) {
	orig := MustParse("((x + 1) * sin(x))")
	c := orig.Clone()

	if !Equal(orig, c) {
		t.Fatalf("clone %s differs from %s", c, orig)
	}

	// Mutating the clone must not affect the original.
	c.(*BinaryNode).Left.(*BinaryNode).Right.(*ConstNode).Val = 99
	if orig.String() != "((x + 1) * sin(x))" {
		t.Errorf("original mutated to %s", orig)
	}
}

func TestRoundTripEverySymbol(t *testing.T) {
	x := Var()
	// Depth 5 trees touching every operator.
	var trees []Node
	for _, u := range genmath.Unary() {
		for _, b := range genmath.Binary() {
			inner := Binary(b, Unary(u, x.Clone()), Const(-2.5))
			trees = append(trees, Unary(u, Binary(b, inner, Binary(genmath.Mul, Const(1e-7), Unary(u, x.Clone())))))
		}
	}
	trees = append(trees,
		Const(math.Inf(1)),
		Const(math.Inf(-1)),
		Const(math.NaN()),
		Const(math.Copysign(0, -1)),
		Const(123456789.125),
		&VarNode{Name: "t"},
	)

	for _, tree := range trees {
		text := tree.String()
		parsed, err := Parse(text)
		if err != nil {
			t.Errorf("Parse(%q): %v", text, err)
			continue
		}
		if !Equal(parsed, tree) {
			t.Errorf("round trip of %q produced %q", text, parsed)
		}
		if parsed.String() != text {
			t.Errorf("format not stable: %q then %q", text, parsed)
		}
	}
}

func TestRoundTripRandomTrees(t *testing.T) {
	src := rng.New(42)
	for i := 0; i < 500; i++ {
		tree := randomTree(src, 0)
		text := tree.String()
		parsed, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if !Equal(parsed, tree) {
			t.Fatalf("round trip of %q produced %q", text, parsed)
		}
	}
}

// randomTree is a small local generator so expr tests do not depend on pool.
func randomTree(src *rng.Source, depth int) Node {
	if depth >= 5 || src.Intn(depth+2) > 1 {
		if src.Bool() {
			return Var()
		}
		return Const(float64(src.Intn(2000)-1000) / 8)
	}
	syms := genmath.Symbols()
	sym := syms[src.Intn(len(syms))]
	if genmath.Arity(sym) == 1 {
		return Unary(sym, randomTree(src, depth+1))
	}
	return Binary(sym, randomTree(src, depth+1), randomTree(src, depth+1))
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"(x + 1",
		"x + 1",
		"(x ? 1)",
		"foo(x)",
		"max(x)",
		"sin(x, 1)",
		"(x)^9",
		"e^x",
		"1.2.3",
		"(x + 1))",
	}
	for _, text := range bad {
		if _, err := Parse(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", text, err)
		}
	}
}

func TestCompileMatchesEvaluator(t *testing.T) {
	src := rng.New(7)
	for i := 0; i < 300; i++ {
		tree := randomTree(src, 0)
		f, err := Compile(tree.String())
		if err != nil {
			t.Fatalf("Compile(%q): %v", tree, err)
		}
		for _, x := range []float64{-2, -0.5, 0.25, 1, 3} {
			want := tree.EvalF64(x)
			got, err := f(x)
			if err != nil {
				t.Fatalf("eval %q at %v: %v", tree, x, err)
			}
			if got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
				t.Errorf("%s at %v: compiled %v, evaluator %v", tree, x, got, want)
			}
		}
	}
}

func TestCompilePostfixPowerInsideBinaryPower(t *testing.T) {
	f, err := Compile("(2 ^ (x)^2)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 512 {
		t.Errorf("(2 ^ (x)^2) at 3 = %v, want 512", got)
	}
}

// hasBinaryPow reports whether the tree contains a binary "^", which the
// gval language groups differently from the tree.
func hasBinaryPow(n Node) bool {
	for _, s := range Slots(&n) {
		if b, ok := (*s).(*BinaryNode); ok && b.Op == genmath.Pow {
			return true
		}
	}
	return false
}

// tame reports whether every subtree value at x stays within 1e8, where
// math.Pow(e, u) and math.Exp(u) agree to the tolerance used below.
func tame(n Node, x float64) bool {
	for _, s := range Slots(&n) {
		v := (*s).EvalF64(x)
		if math.IsNaN(v) || math.Abs(v) > 1e8 {
			return false
		}
	}
	return true
}

func TestLanguageMatchesEvaluator(t *testing.T) {
	src := rng.New(7)
	checked := 0
	for i := 0; i < 300; i++ {
		tree := randomTree(src, 0)
		if hasBinaryPow(tree) {
			continue
		}
		eval, err := Language().NewEvaluable(tree.String())
		if err != nil {
			t.Fatalf("gval parse %q: %v", tree, err)
		}
		for _, x := range []float64{-2, -0.5, 0.25, 1, 3} {
			if !tame(tree, x) {
				continue
			}
			want := tree.EvalF64(x)
			got, err := eval.EvalFloat64(context.Background(), map[string]interface{}{
				DefaultVariable: x, "e": math.E, "pi": math.Pi,
			})
			if err != nil {
				t.Fatalf("gval eval %q at %v: %v", tree, x, err)
			}
			if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
				t.Errorf("%s at %v: gval %v, evaluator %v", tree, x, got, want)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no points compared")
	}
}

func TestCompileUserFormula(t *testing.T) {
	f, err := Compile("x^2 + 2*x + sin(pi*x) + exp(0)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f(3)
	if err != nil {
		t.Fatal(err)
	}
	if want := 9.0 + 6 + math.Sin(3*math.Pi) + 1; math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := Compile("x +* 2"); !errors.Is(err, ErrSyntax) {
		t.Errorf("Compile error = %v, want ErrSyntax", err)
	}
}

func TestSlots(t *testing.T) {
	root := MustParse("((x + 1) * sin(x))")
	slots := Slots(&root)
	if len(slots) != root.NodeCount() {
		t.Fatalf("got %d slots, want %d", len(slots), root.NodeCount())
	}
	if *slots[0] != root {
		t.Errorf("first slot is not the root")
	}
	if n := len(LeafSlots(&root)); n != 3 {
		t.Errorf("got %d leaf slots, want 3", n)
	}

	// Replace sin(x) with a constant.
	old := Replace(slots[4], Const(2))
	if old.String() != "sin(x)" {
		t.Errorf("replaced %s, want sin(x)", old)
	}
	if root.String() != "((x + 1) * 2)" {
		t.Errorf("after replace: %s", root)
	}

	// Replacing the root slot swaps the whole tree.
	Replace(&root, Var())
	if root.String() != "x" {
		t.Errorf("after root replace: %s", root)
	}
}

func TestRandomSlotBias(t *testing.T) {
	src := rng.New(3)
	root := MustParse("sin(((x + 1) * (x - 2)))")
	leafHits, rootHits := 0, 0
	for i := 0; i < 2000; i++ {
		s := RandomSlot(&root, src, true)
		if IsLeaf(*s) {
			leafHits++
		}
		if *s == root {
			rootHits++
		}
	}
	if leafHits <= rootHits*4 {
		t.Errorf("biased pick: %d leaf hits vs %d root hits", leafHits, rootHits)
	}
}

func TestDerive(t *testing.T) {
	tests := []string{
		"(x)^2",
		"(x)^5",
		"((3 * x) + 1)",
		"(x * sin(x))",
		"(x / (x + 1))",
		"e^((2 * x))",
		"ln(x)",
		"log(x)",
		"sqrt(x)",
		"cos((x)^2)",
		"tan(x)",
		"asin((x / 4))",
		"acos((x / 4))",
		"atan(x)",
		"abs((x - 5))",
		"(x ^ x)",
		"(x ^ 2.5)",
		"max(x, (x)^2)",
		"min(x, (x)^2)",
	}
	const h = 1e-6
	for _, text := range tests {
		f := MustParse(text)
		d := Derive(f)
		for _, x := range []float64{0.3, 1.7, 2.9} {
			numeric := (f.EvalF64(x+h) - f.EvalF64(x-h)) / (2 * h)
			got := d.EvalF64(x)
			if math.Abs(got-numeric) > 1e-4*math.Max(1, math.Abs(numeric)) {
				t.Errorf("d/dx %s = %s; at %v got %v, numeric %v", text, d, x, got, numeric)
			}
		}
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(x + 0)", "x"},
		{"(0 + x)", "x"},
		{"(x * 1)", "x"},
		{"((2 + 3) * x)", "(5 * x)"},
		{"(x ^ 1)", "x"},
		{"(x ^ 2)", "(x)^2"},
		{"(x * x)", "(x)^2"},
		{"(x - x)", "0"},
		{"ln(e^(x))", "x"},
		{"(sin(x) * 0)", "0"},
		// Folding that would yield NaN is left alone.
		{"(1 / 0)", "(1 / 0)"},
		// x*0 keeps terms that can be NaN.
		{"(ln(x) * 0)", "(ln(x) * 0)"},
	}
	for _, tt := range tests {
		got := Simplify(MustParse(tt.in)).String()
		if got != tt.want {
			t.Errorf("Simplify(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSymbols(t *testing.T) {
	if got := Symbols(MustParse("((x + 1) * sin(x))")); got != "*+x#sx" {
		t.Errorf("Symbols = %q", got)
	}
}
