package kernels

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"
)

func dotGeneric(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

func dotUnrolled4(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum0, sum1, sum2, sum3 float32
	n := len(a)
	i := 0
	for ; i <= n-4; i += 4 {
		sum0 += a[i] * b[i]
		sum1 += a[i+1] * b[i+1]
		sum2 += a[i+2] * b[i+2]
		sum3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		sum0 += a[i] * b[i]
	}
	return sum0 + sum1 + sum2 + sum3, nil
}

// dotUnrolled8 keeps eight partial sums, one per float32 lane of a 256-bit
// register.
func dotUnrolled8(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var acc [8]float32
	n := len(a)
	i := 0
	for ; i <= n-8; i += 8 {
		a8, b8 := a[i:i+8:i+8], b[i:i+8:i+8]
		for j := range acc {
			acc[j] += a8[j] * b8[j]
		}
	}
	for ; i < n; i++ {
		acc[0] += a[i] * b[i]
	}
	return reduce8(acc), nil
}

func dotUnrolled16(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var acc [16]float32
	n := len(a)
	i := 0
	for ; i <= n-16; i += 16 {
		a16, b16 := a[i:i+16:i+16], b[i:i+16:i+16]
		for j := range acc {
			acc[j] += a16[j] * b16[j]
		}
	}
	for ; i < n; i++ {
		acc[0] += a[i] * b[i]
	}
	var lo, hi [8]float32
	copy(lo[:], acc[:8])
	copy(hi[:], acc[8:])
	return reduce8(lo) + reduce8(hi), nil
}

func dotVek(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	return vek32.Dot(a, b), nil
}

func reduce8(acc [8]float32) float32 {
	return (acc[0] + acc[4]) + (acc[1] + acc[5]) + (acc[2] + acc[6]) + (acc[3] + acc[7])
}

func euclideanGeneric(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum))), nil
}

func euclideanUnrolled4(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum0, sum1, sum2, sum3 float32
	n := len(a)
	i := 0
	for ; i <= n-4; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		sum0 += d0 * d0
		sum1 += d1 * d1
		sum2 += d2 * d2
		sum3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum0 += d * d
	}
	return math32.Sqrt(sum0 + sum1 + sum2 + sum3), nil
}

func euclideanUnrolled8(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var acc [8]float32
	n := len(a)
	i := 0
	for ; i <= n-8; i += 8 {
		a8, b8 := a[i:i+8:i+8], b[i:i+8:i+8]
		for j := range acc {
			d := a8[j] - b8[j]
			acc[j] += d * d
		}
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		acc[0] += d * d
	}
	return math32.Sqrt(reduce8(acc)), nil
}

func euclideanUnrolled16(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var lo, hi [8]float32
	n := len(a)
	i := 0
	for ; i <= n-16; i += 16 {
		a16, b16 := a[i:i+16:i+16], b[i:i+16:i+16]
		for j := 0; j < 8; j++ {
			d0 := a16[j] - b16[j]
			d1 := a16[j+8] - b16[j+8]
			lo[j] += d0 * d0
			hi[j] += d1 * d1
		}
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		lo[0] += d * d
	}
	return math32.Sqrt(reduce8(lo) + reduce8(hi)), nil
}

func cosineGeneric(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return cosineDistance(dot, normA, normB), nil
}

// cosineFused builds the distance from three dot products taken with the Dot
// variant compiled for the same target.
func cosineFused(a, b []float32) (float32, error) {
	dot := cosineCallsDot()
	ab, err := dot(a, b)
	if err != nil {
		return 0, err
	}
	aa, _ := dot(a, a)
	bb, _ := dot(b, b)
	return cosineDistance(ab, aa, bb), nil
}

func cosineVek(a, b []float32) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	// vek divides by the norms without checking them.
	if len(a) == 0 || vek32.Dot(a, a) == 0 || vek32.Dot(b, b) == 0 {
		return 1.0, nil
	}
	return 1.0 - vek32.CosineSimilarity(a, b), nil
}

func cosineDistance(dot, normA, normB float32) float32 {
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - (dot / float32(math.Sqrt(float64(normA)*float64(normB))))
}
