// Package expr implements the function tree: a recursive expression over
// the single variable x built from the operators of package genmath.
package expr

import (
	"fmt"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// Node is the interface for all expression tree nodes.
type Node interface {
	EvalF64(x float64) float64
	String() string
	Clone() Node
	NodeCount() int
	Depth() int
}

// VarNode represents the variable. An empty Name prints as "x".
type VarNode struct {
	Name string
}

// ConstNode represents a numeric constant.
type ConstNode struct {
	Val float64
}

// UnaryNode applies a one-argument operator to a child expression.
type UnaryNode struct {
	Op    byte
	Child Node
}

// BinaryNode applies a two-argument operator to two child expressions.
type BinaryNode struct {
	Op          byte
	Left, Right Node
}

// DefaultVariable is the variable name used when a VarNode has none.
const DefaultVariable = "x"

// Var returns a node for the default variable.
func Var() *VarNode { return &VarNode{} }

// Const returns a constant node.
func Const(v float64) *ConstNode { return &ConstNode{Val: v} }

// Unary builds a unary node, panicking if op is not a unary operator.
func Unary(op byte, child Node) *UnaryNode {
	if genmath.Arity(op) != 1 {
		panic(fmt.Sprintf("expr: %q is not a unary operator", op))
	}
	return &UnaryNode{Op: op, Child: child}
}

// Binary builds a binary node, panicking if op is not a binary operator.
func Binary(op byte, left, right Node) *BinaryNode {
	if genmath.Arity(op) != 2 {
		panic(fmt.Sprintf("expr: %q is not a binary operator", op))
	}
	return &BinaryNode{Op: op, Left: left, Right: right}
}

// Arity returns the number of children of n.
func Arity(n Node) int {
	switch n.(type) {
	case *UnaryNode:
		return 1
	case *BinaryNode:
		return 2
	default:
		return 0
	}
}

// IsLeaf reports whether n is a terminal.
func IsLeaf(n Node) bool { return Arity(n) == 0 }

func (v *VarNode) name() string {
	if v.Name == "" {
		return DefaultVariable
	}
	return v.Name
}
