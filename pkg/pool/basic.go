package pool

import "github.com/wildfunctions/genetix/pkg/genmath"

func init() {
	Register("basic", func() Pool {
		return &symbolPool{
			name:      "basic",
			unary:     []byte{genmath.Square, genmath.Cube, genmath.Sqrt, genmath.Abs},
			binary:    []byte{genmath.Add, genmath.Sub, genmath.Mul, genmath.Div},
			varChance: 0.5,
		}
	})
}
