package pool

import "github.com/wildfunctions/genetix/pkg/genmath"

// full uses every operator of the expression language.
func init() {
	Register("full", func() Pool {
		return &symbolPool{
			name:      "full",
			unary:     genmath.Unary(),
			binary:    genmath.Binary(),
			varChance: 0.45,
		}
	})
}
