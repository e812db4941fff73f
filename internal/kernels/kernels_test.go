package kernels

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/23skdu/multiversion/internal/dispatch"
)

var dims = []int{0, 1, 3, 4, 7, 8, 15, 16, 17, 31, 33, 128, 384, 1536}

func makeVector(rng *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func referenceDot(a, b []float32) (dot, magnitude float64) {
	for i := range a {
		p := float64(a[i]) * float64(b[i])
		dot += p
		magnitude += math.Abs(p)
	}
	return dot, magnitude
}

func TestSquare(t *testing.T) {
	x := []float64{1, 2, 3}
	Square(x)
	assert.Equal(t, []float64{1, 4, 9}, x)

	for _, fn := range []func([]float64){squareGeneric, squareAVX2, squareAVX, squareNEON} {
		for _, n := range []int{0, 1, 2, 5, 9} {
			x := make([]float64, n)
			want := make([]float64, n)
			for i := range x {
				x[i] = float64(i) - 2.5
				want[i] = x[i] * x[i]
			}
			fn(x)
			assert.Equal(t, want, x)
		}
	}
}

func TestSquareCallsMulOnItsOwnTarget(t *testing.T) {
	Square([]float64{1})

	caller := squareDispatch.Current()
	idx := mulDispatch.IndexFor(caller)
	if caller == nil {
		assert.Equal(t, dispatch.DefaultIndex, idx)
		return
	}
	callee := mulDispatch.Variant(idx).Target
	require.NotNil(t, callee)
	assert.True(t, callee.Equal(*caller), "Mul ran on %s while Square ran on %s", callee, caller)
}

func TestMul(t *testing.T) {
	assert.Equal(t, 6.0, Mul(2, 3))
	for _, fn := range []func(x, y float64) float64{mulGeneric, mulFMA, mulAVX, mulNEON} {
		assert.Equal(t, -7.5, fn(2.5, -3))
		assert.True(t, math.Signbit(fn(-1, 0)), "-1*0 is -0")
		assert.False(t, math.Signbit(fn(-1, negZero)), "-1*-0 is +0")
		assert.False(t, math.Signbit(fn(0, 0)))
	}
	assert.True(t, math.Signbit(Mul(-1, 0)))
}

func TestDotVariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	variants := map[string]func(a, b []float32) (float32, error){
		"Dot":           Dot,
		"dotGeneric":    dotGeneric,
		"dotUnrolled4":  dotUnrolled4,
		"dotUnrolled8":  dotUnrolled8,
		"dotUnrolled16": dotUnrolled16,
		"dotVek":        dotVek,
	}
	for name, fn := range variants {
		for _, dim := range dims {
			t.Run(fmt.Sprintf("%s/dim_%d", name, dim), func(t *testing.T) {
				a, b := makeVector(rng, dim), makeVector(rng, dim)
				want, mag := referenceDot(a, b)
				got, err := fn(a, b)
				require.NoError(t, err)
				assert.InDelta(t, want, float64(got), 1e-5*mag+1e-6)
			})
		}
	}
}

func TestEuclideanVariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	variants := map[string]func(a, b []float32) (float32, error){
		"Euclidean":           Euclidean,
		"euclideanGeneric":    euclideanGeneric,
		"euclideanUnrolled4":  euclideanUnrolled4,
		"euclideanUnrolled8":  euclideanUnrolled8,
		"euclideanUnrolled16": euclideanUnrolled16,
	}
	for name, fn := range variants {
		for _, dim := range dims {
			t.Run(fmt.Sprintf("%s/dim_%d", name, dim), func(t *testing.T) {
				a, b := makeVector(rng, dim), makeVector(rng, dim)
				var sum float64
				for i := range a {
					d := float64(a[i]) - float64(b[i])
					sum += d * d
				}
				got, err := fn(a, b)
				require.NoError(t, err)
				assert.InDelta(t, math.Sqrt(sum), float64(got), 1e-4*math.Sqrt(sum)+1e-6)

				self, err := fn(a, a)
				require.NoError(t, err)
				assert.Zero(t, self)
			})
		}
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	b := []float32{0, 1, 0, 0}
	for _, fn := range []func(a, b []float32) (float32, error){Cosine, cosineGeneric, cosineFused, cosineVek} {
		d, err := fn(a, b)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, d, 1e-6)

		d, err = fn(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, d, 1e-6)

		d, err = fn(make([]float32, 4), a)
		require.NoError(t, err)
		assert.Equal(t, float32(1), d, "zero vectors are at maximum distance")
	}
}

func TestLengthMismatch(t *testing.T) {
	a, b := make([]float32, 3), make([]float32, 4)
	for _, fn := range []func(a, b []float32) (float32, error){
		Dot, dotGeneric, dotUnrolled4, dotUnrolled8, dotUnrolled16, dotVek,
		Euclidean, euclideanGeneric, euclideanUnrolled4, euclideanUnrolled8, euclideanUnrolled16,
		Cosine, cosineGeneric, cosineFused, cosineVek,
	} {
		_, err := fn(a, b)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	}

	_, err := DotF16(make([]float16.Num, 1), nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDotF16Variants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, fn := range []func(a, b []float16.Num) (float32, error){DotF16, dotF16Generic, dotF16Unrolled4, dotF16Unrolled8} {
		for _, dim := range dims {
			a, b := make([]float16.Num, dim), make([]float16.Num, dim)
			var want, mag float64
			for i := range a {
				a[i] = float16.New(rng.Float32()*2 - 1)
				b[i] = float16.New(rng.Float32()*2 - 1)
				p := float64(a[i].Float32()) * float64(b[i].Float32())
				want += p
				mag += math.Abs(p)
			}
			got, err := fn(a, b)
			require.NoError(t, err)
			assert.InDelta(t, want, float64(got), 1e-5*mag+1e-6, "dim %d", dim)
		}
	}
	assert.Equal(t, dispatch.StrategyDirect, dotF16Dispatch.Strategy())
}

func TestDouble(t *testing.T) {
	ints := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.Equal(t, int32(132), Double(ints))
	assert.Equal(t, []int32{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22}, ints)

	floats := []float32{0.5, 1.5}
	assert.Equal(t, float32(4), Double(floats))

	for _, fn := range []func([]uint8) uint8{doubleGeneric[uint8], doubleLanes[uint8]} {
		x := make([]uint8, 37)
		for i := range x {
			x[i] = 1
		}
		assert.Equal(t, uint8(74), fn(x))
	}
	assert.Equal(t, dispatch.StrategyDirect, doubleDispatch.Strategy())
}

func TestSumAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	x := make([]float64, 1000)
	for i := range x {
		x[i] = float64(i)
	}
	assert.Equal(t, 499500.0, <-SumAsync(x))
	assert.True(t, sumAsyncDispatch.Resolved())
	assert.Equal(t, 499500.0, sumPairwise(x))
	assert.Equal(t, 499500.0, sumGeneric(x))
	assert.Zero(t, sumPairwise(nil))
}

func TestAccumulators(t *testing.T) {
	accs := []Accumulator{NewAccumulator(), newScalarAccumulator(), newLaneAccumulator()}
	for _, acc := range accs {
		acc.Add(1, 2, 3)
		acc.Add(4, 5)
		assert.Equal(t, 15.0, acc.Sum(), "%T", acc)
		acc.Reset()
		assert.Zero(t, acc.Sum())
	}
	assert.Equal(t, dispatch.StrategyDirect, newAccumulatorDispatch.Strategy())
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, []string{
		"Cosine", "Dot", "DotF16", "Double", "Euclidean", "Mul", "NewAccumulator", "Square", "SumAsync",
	}, multiversioned.Names())

	d, err := dispatch.Lookup[squareFunc](multiversioned, "Square")
	require.NoError(t, err)
	assert.Same(t, squareDispatch, d)

	mul, err := dispatch.StaticCall[mulFunc](multiversioned, "Mul", squareDispatch.Current())
	require.NoError(t, err)
	assert.Equal(t, 12.0, mul(3, 4))
}

func TestDotVariantsAgree(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every Dot variant matches the generic one", prop.ForAll(
		func(a []float32) bool {
			b := make([]float32, len(a))
			for i := range a {
				b[i] = a[len(a)-1-i]
			}
			want, mag := referenceDot(a, b)
			for _, fn := range []func(a, b []float32) (float32, error){dotUnrolled4, dotUnrolled8, dotUnrolled16, dotVek} {
				got, err := fn(a, b)
				if err != nil || math.Abs(float64(got)-want) > 1e-5*mag+1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float32Range(-1, 1)),
	))

	properties.TestingRun(t)
}
