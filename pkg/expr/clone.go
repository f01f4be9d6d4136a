package expr

func (v *VarNode) Clone() Node {
	return &VarNode{Name: v.Name}
}

func (c *ConstNode) Clone() Node {
	return &ConstNode{Val: c.Val}
}

func (u *UnaryNode) Clone() Node {
	return &UnaryNode{
		Op:    u.Op,
		Child: u.Child.Clone(),
	}
}

func (b *BinaryNode) Clone() Node {
	return &BinaryNode{
		Op:    b.Op,
		Left:  b.Left.Clone(),
		Right: b.Right.Clone(),
	}
}
