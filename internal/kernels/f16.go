package kernels

import "github.com/apache/arrow-go/v18/arrow/float16"

func dotF16Generic(a, b []float16.Num) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		sum += a[i].Float32() * b[i].Float32()
	}
	return sum, nil
}

func dotF16Unrolled4(a, b []float16.Num) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var sum0, sum1, sum2, sum3 float32
	n := len(a)
	i := 0
	for ; i <= n-4; i += 4 {
		sum0 += a[i].Float32() * b[i].Float32()
		sum1 += a[i+1].Float32() * b[i+1].Float32()
		sum2 += a[i+2].Float32() * b[i+2].Float32()
		sum3 += a[i+3].Float32() * b[i+3].Float32()
	}
	for ; i < n; i++ {
		sum0 += a[i].Float32() * b[i].Float32()
	}
	return sum0 + sum1 + sum2 + sum3, nil
}

// dotF16Unrolled8 widens eight halves at a time, the way F16C converts one
// 128-bit load into a 256-bit float32 register.
func dotF16Unrolled8(a, b []float16.Num) (float32, error) {
	if err := checkLen(len(a), len(b)); err != nil {
		return 0, err
	}
	var acc, wa, wb [8]float32
	n := len(a)
	i := 0
	for ; i <= n-8; i += 8 {
		for j := range wa {
			wa[j] = a[i+j].Float32()
			wb[j] = b[i+j].Float32()
		}
		for j := range acc {
			acc[j] += wa[j] * wb[j]
		}
	}
	for ; i < n; i++ {
		acc[0] += a[i].Float32() * b[i].Float32()
	}
	return reduce8(acc), nil
}
