package kernels

import "math"

func squareGeneric(x []float64) {
	mul := squareCallsMul()
	for i, v := range x {
		x[i] = mul(v, v)
	}
}

func squareAVX2(x []float64) {
	mul := squareCallsMul()
	n := len(x)
	i := 0
	for ; i <= n-4; i += 4 {
		x[i] = mul(x[i], x[i])
		x[i+1] = mul(x[i+1], x[i+1])
		x[i+2] = mul(x[i+2], x[i+2])
		x[i+3] = mul(x[i+3], x[i+3])
	}
	for ; i < n; i++ {
		x[i] = mul(x[i], x[i])
	}
}

func squareAVX(x []float64) {
	mul := squareCallsMul()
	n := len(x)
	i := 0
	for ; i <= n-2; i += 2 {
		x[i] = mul(x[i], x[i])
		x[i+1] = mul(x[i+1], x[i+1])
	}
	if i < n {
		x[i] = mul(x[i], x[i])
	}
}

// squareNEON matches the two float64 lanes of a NEON register.
func squareNEON(x []float64) { squareAVX(x) }

func mulGeneric(x, y float64) float64 { return x * y }

// negZero is the FMA addend that leaves every product unchanged, including
// the sign of a zero product.
var negZero = math.Copysign(0, -1)

func mulFMA(x, y float64) float64 { return math.FMA(x, y, negZero) }

func mulAVX(x, y float64) float64 { return x * y }

func mulNEON(x, y float64) float64 { return math.FMA(x, y, negZero) }
