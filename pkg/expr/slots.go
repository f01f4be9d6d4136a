package expr

import (
	"sort"

	"github.com/wildfunctions/genetix/pkg/rng"
)

// Slots returns pointers to every node slot of the tree rooted at *root, in
// pre-order with the root slot first. Assigning through a slot replaces that
// subtree in place.
func Slots(root *Node) []*Node {
	var result []*Node
	collectSlots(root, &result)
	return result
}

func collectSlots(slot *Node, result *[]*Node) {
	*result = append(*result, slot)
	switch n := (*slot).(type) {
	case *UnaryNode:
		collectSlots(&n.Child, result)
	case *BinaryNode:
		collectSlots(&n.Left, result)
		collectSlots(&n.Right, result)
	}
}

// LeafSlots returns the slots holding terminals.
func LeafSlots(root *Node) []*Node {
	var leaves []*Node
	for _, s := range Slots(root) {
		if IsLeaf(*s) {
			leaves = append(leaves, s)
		}
	}
	return leaves
}

// PickSlot chooses one of slots. Unbiased picks are uniform; biased picks
// order the slots by subtree length and take an ascending draw, so small
// subtrees are favored.
func PickSlot(slots []*Node, src *rng.Source, biased bool) *Node {
	if len(slots) == 0 {
		return nil
	}
	if !biased {
		return slots[src.Intn(len(slots))]
	}
	ordered := make([]*Node, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return (*ordered[i]).NodeCount() < (*ordered[j]).NodeCount()
	})
	return ordered[src.AscendingInt(len(ordered))]
}

// RandomSlot picks a slot of the tree rooted at *root.
func RandomSlot(root *Node, src *rng.Source, biased bool) *Node {
	return PickSlot(Slots(root), src, biased)
}

// Replace swaps the subtree held by slot for sub and returns the old one.
func Replace(slot *Node, sub Node) Node {
	old := *slot
	*slot = sub
	return old
}
