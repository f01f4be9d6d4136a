// Package pool holds the registry of operator pools: the building blocks
// random expression trees are grown from.
package pool

import (
	"fmt"
	"math"
	"sort"

	"github.com/wildfunctions/genetix/pkg/expr"
	"github.com/wildfunctions/genetix/pkg/rng"
)

// Pool provides random building blocks for constructing expression trees.
type Pool interface {
	Name() string
	RandomLeaf(src *rng.Source) expr.Node
	RandomConst(src *rng.Source) float64
	RandomUnary(src *rng.Source) byte
	RandomBinary(src *rng.Source) byte
	// RandomTree grows a tree whose NodeCount lies in [lo, hi].
	RandomTree(src *rng.Source, lo, hi int) expr.Node
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown pool: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// symbolPool draws from fixed operator lists. Every registered pool is one.
type symbolPool struct {
	name   string
	unary  []byte
	binary []byte
	// varChance is the probability that a leaf is the variable.
	varChance float64
}

func (p *symbolPool) Name() string { return p.name }

func (p *symbolPool) RandomLeaf(src *rng.Source) expr.Node {
	if src.BoolP(p.varChance) {
		return expr.Var()
	}
	return expr.Const(p.RandomConst(src))
}

// RandomConst returns a small integer half of the time, otherwise a value in
// [-10, 10) rounded to two decimals.
func (p *symbolPool) RandomConst(src *rng.Source) float64 {
	if src.Bool() {
		return float64(src.Intn(9) + 1)
	}
	return math.Round((src.Float64()*20-10)*100) / 100
}

func (p *symbolPool) RandomUnary(src *rng.Source) byte {
	return p.unary[src.Intn(len(p.unary))]
}

func (p *symbolPool) RandomBinary(src *rng.Source) byte {
	return p.binary[src.Intn(len(p.binary))]
}

func (p *symbolPool) RandomTree(src *rng.Source, lo, hi int) expr.Node {
	return RandomTree(p, src, lo, hi)
}

// RandomTree grows a tree from p by recursive descent. The chance of
// stopping at a terminal grows with depth as depth/(depth+2); each call
// carries a node budget so the result always has between lo and hi nodes.
// lo is raised to 1 and hi to lo when out of order.
func RandomTree(p Pool, src *rng.Source, lo, hi int) expr.Node {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return grow(p, src, 0, lo, hi)
}

func grow(p Pool, src *rng.Source, depth, lo, hi int) expr.Node {
	if hi <= 1 {
		return p.RandomLeaf(src)
	}
	if lo <= 1 && src.BoolP(float64(depth)/float64(depth+2)) {
		return p.RandomLeaf(src)
	}
	// Binary nodes need room for two children.
	if hi >= 3 && src.BoolP(0.6) {
		left := grow(p, src, depth+1, 1, hi-2)
		used := left.NodeCount()
		right := grow(p, src, depth+1, max(1, lo-1-used), hi-1-used)
		return &expr.BinaryNode{Op: p.RandomBinary(src), Left: left, Right: right}
	}
	child := grow(p, src, depth+1, max(1, lo-1), hi-1)
	return &expr.UnaryNode{Op: p.RandomUnary(src), Child: child}
}
