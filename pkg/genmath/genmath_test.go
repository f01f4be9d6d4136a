package genmath_test

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

var _ = Describe("Eval", func() {
	DescribeTable("double precision",
		func(sym byte, x1, x2, expected float64) {
			Expect(genmath.Eval64(sym, x1, x2)).To(BeNumerically("~", expected, 1e-12))
		},
		Entry("add", genmath.Add, 2.0, 3.0, 5.0),
		Entry("sub", genmath.Sub, 2.0, 3.0, -1.0),
		Entry("mul", genmath.Mul, 2.0, 3.0, 6.0),
		Entry("div", genmath.Div, 3.0, 2.0, 1.5),
		Entry("pow", genmath.Pow, 2.0, 10.0, 1024.0),
		Entry("max", genmath.Max, -1.0, 4.0, 4.0),
		Entry("min", genmath.Min, -1.0, 4.0, -1.0),
		Entry("square", genmath.Square, -3.0, 0.0, 9.0),
		Entry("cube", genmath.Cube, -2.0, 0.0, -8.0),
		Entry("fourth", genmath.Fourth, 2.0, 0.0, 16.0),
		Entry("fifth", genmath.Fifth, 2.0, 0.0, 32.0),
		Entry("abs", genmath.Abs, -7.5, 0.0, 7.5),
		Entry("exp", genmath.Exp, 1.0, 0.0, math.E),
		Entry("ln", genmath.Ln, math.E, 0.0, 1.0),
		Entry("log10", genmath.Log10, 1000.0, 0.0, 3.0),
		Entry("sqrt", genmath.Sqrt, 16.0, 0.0, 4.0),
		Entry("sin", genmath.Sin, math.Pi/2, 0.0, 1.0),
		Entry("cos", genmath.Cos, 0.0, 0.0, 1.0),
		Entry("tan", genmath.Tan, math.Pi/4, 0.0, 1.0),
		Entry("asin", genmath.Asin, 1.0, 0.0, math.Pi/2),
		Entry("acos", genmath.Acos, 1.0, 0.0, 0.0),
		Entry("atan", genmath.Atan, 1.0, 0.0, math.Pi/4),
	)

	DescribeTable("domain errors are NaN",
		func(sym byte, x1, x2 float64) {
			Expect(math.IsNaN(genmath.Eval64(sym, x1, x2))).To(BeTrue())
			Expect(math.IsNaN(float64(genmath.Eval32(sym, float32(x1), float32(x2))))).To(BeTrue())
		},
		Entry("x / 0", genmath.Div, 1.0, 0.0),
		Entry("0 / 0", genmath.Div, 0.0, 0.0),
		Entry("-5 / 0", genmath.Div, -5.0, 0.0),
		Entry("ln 0", genmath.Ln, 0.0, 0.0),
		Entry("ln -1", genmath.Ln, -1.0, 0.0),
		Entry("log10 0", genmath.Log10, 0.0, 0.0),
		Entry("sqrt -1", genmath.Sqrt, -1.0, 0.0),
		Entry("asin 2", genmath.Asin, 2.0, 0.0),
		Entry("pow of negative base", genmath.Pow, -2.0, 0.5),
		Entry("unknown symbol", byte('?'), 1.0, 1.0),
		Entry("NaN propagates through max", genmath.Max, math.NaN(), 1.0),
	)

	It("evaluates in single precision", func() {
		Expect(genmath.Eval32(genmath.Mul, 1.5, 4)).To(Equal(float32(6)))
		Expect(genmath.Eval32(genmath.Sqrt, 9, 0)).To(Equal(float32(3)))
	})
})

var _ = Describe("operator table", func() {
	It("gives every symbol an arity of one or two", func() {
		for _, sym := range genmath.Symbols() {
			Expect(genmath.Arity(sym)).To(Or(Equal(1), Equal(2)), string(sym))
		}
		Expect(genmath.Arity('?')).To(Equal(0))
		Expect(genmath.Symbols()).To(HaveLen(len(genmath.Unary()) + len(genmath.Binary())))
	})

	It("maps symbols to display strings", func() {
		Expect(genmath.Display('+')).To(Equal("+"))
		Expect(genmath.Display('2')).To(Equal("^2"))
		Expect(genmath.Display('e')).To(Equal("e^"))
		Expect(genmath.Display('~')).To(Equal("sqrt"))
		Expect(genmath.Display('?')).To(Equal("?"))
	})

	It("resolves function names", func() {
		sym, ok := genmath.Lookup("log")
		Expect(ok).To(BeTrue())
		Expect(sym).To(Equal(genmath.Log10))
		_, ok = genmath.Lookup("frobnicate")
		Expect(ok).To(BeFalse())
		Expect(genmath.PowerOf(genmath.Cube)).To(Equal(3))
		Expect(genmath.PowerOf(genmath.Add)).To(Equal(0))
	})
})
