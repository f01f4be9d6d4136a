package pool

import "github.com/wildfunctions/genetix/pkg/genmath"

// trig extends basic with sin, cos, tan and exp/ln, suited to periodic or
// growing curves.
func init() {
	Register("trig", func() Pool {
		return &symbolPool{
			name: "trig",
			unary: []byte{
				genmath.Square, genmath.Cube, genmath.Sqrt, genmath.Abs,
				genmath.Sin, genmath.Cos, genmath.Tan,
				genmath.Exp, genmath.Ln,
			},
			binary:    []byte{genmath.Add, genmath.Sub, genmath.Mul, genmath.Div},
			varChance: 0.5,
		}
	})
}
