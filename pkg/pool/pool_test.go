package pool

import (
	"math"
	"testing"

	"github.com/wildfunctions/genetix/pkg/expr"
	"github.com/wildfunctions/genetix/pkg/genmath"
	"github.com/wildfunctions/genetix/pkg/rng"
)

func checkPool(t *testing.T, name string, minClean float64) {
	t.Helper()
	p, err := Get(name)
	if err != nil {
		t.Fatal(err)
	}

	src := rng.New(42)

	// Generate many random trees and verify enough evaluate cleanly
	successes := 0
	total := 1000
	for i := 0; i < total; i++ {
		tree := p.RandomTree(src, 1, 15)
		x := float64(src.Intn(10) + 1)
		if v := tree.EvalF64(x); !math.IsNaN(v) && !math.IsInf(v, 0) {
			successes++
		}
	}

	if float64(successes)/float64(total) < minClean {
		t.Errorf("Only %d/%d trees evaluated cleanly", successes, total)
	}
	t.Logf("%s pool: %d/%d trees evaluated cleanly", name, successes, total)
}

func TestBasicPool(t *testing.T)  { checkPool(t, "basic", 0.5) }
func TestTrigPool(t *testing.T)   { checkPool(t, "trig", 0.4) }
func TestFullPool(t *testing.T)   { checkPool(t, "full", 0.2) }

func TestRandomTreeBounds(t *testing.T) {
	src := rng.New(9)
	bounds := [][2]int{{1, 1}, {1, 2}, {2, 2}, {3, 3}, {1, 10}, {5, 9}, {12, 30}, {40, 40}}
	for _, name := range Names() {
		p, _ := Get(name)
		for _, b := range bounds {
			for i := 0; i < 200; i++ {
				tree := p.RandomTree(src, b[0], b[1])
				if n := tree.NodeCount(); n < b[0] || n > b[1] {
					t.Fatalf("%s: RandomTree(%d, %d) has %d nodes: %s", name, b[0], b[1], n, tree)
				}
			}
		}
	}
}

func TestRandomTreeClampsBounds(t *testing.T) {
	p, _ := Get("basic")
	src := rng.New(1)
	if n := p.RandomTree(src, 0, 0).NodeCount(); n != 1 {
		t.Errorf("RandomTree(0, 0) has %d nodes, want 1", n)
	}
	if n := p.RandomTree(src, 4, 2).NodeCount(); n != 4 {
		t.Errorf("RandomTree(4, 2) has %d nodes, want 4", n)
	}
}

func TestRandomTreeUsesPoolSymbols(t *testing.T) {
	p, _ := Get("basic")
	allowed := map[byte]bool{'x': true, '#': true}
	for _, s := range []byte{genmath.Add, genmath.Sub, genmath.Mul, genmath.Div, genmath.Square, genmath.Cube, genmath.Sqrt, genmath.Abs} {
		allowed[s] = true
	}
	src := rng.New(5)
	for i := 0; i < 300; i++ {
		for _, s := range []byte(expr.Symbols(p.RandomTree(src, 1, 20))) {
			if !allowed[s] {
				t.Fatalf("basic pool produced symbol %q", s)
			}
		}
	}
}

func TestRandomTreeDeterministic(t *testing.T) {
	p, _ := Get("full")
	a, b := rng.New(77), rng.New(77)
	for i := 0; i < 50; i++ {
		ta, tb := p.RandomTree(a, 1, 25), p.RandomTree(b, 1, 25)
		if ta.String() != tb.String() {
			t.Fatalf("same seed gave %s and %s", ta, tb)
		}
	}
}

func TestRandomConst(t *testing.T) {
	p, _ := Get("basic")
	src := rng.New(2)
	for i := 0; i < 1000; i++ {
		c := p.RandomConst(src)
		if c < -10 || c > 10 {
			t.Fatalf("constant %v out of range", c)
		}
		if math.Round(c*100) != c*100 && math.Abs(math.Round(c*100)-c*100) > 1e-6 {
			t.Fatalf("constant %v has more than two decimals", c)
		}
	}
}

func TestPoolRegistry(t *testing.T) {
	names := Names()
	if len(names) < 3 {
		t.Errorf("Expected at least 3 registered pools, got %d", len(names))
	}

	for _, name := range names {
		p, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("Pool name mismatch: %q vs %q", p.Name(), name)
		}
	}
}

func TestUnknownPool(t *testing.T) {
	_, err := Get("nonexistent")
	if err == nil {
		t.Error("Expected error for unknown pool")
	}
}
