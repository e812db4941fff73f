package kernels

import "github.com/23skdu/multiversion/internal/target"

func doubleGeneric[T target.Lane](x []T) T {
	var sum T
	for i := range x {
		x[i] *= 2
		sum += x[i]
	}
	return sum
}

// doubleLanes works in blocks of one vector register for the selected
// target, keeping one partial sum per lane.
func doubleLanes[T target.Lane](x []T) T {
	width := 0
	if t := doubleDispatch.Current(); t != nil {
		width = target.SuggestedWidth[T](*t)
	}
	if width < 2 {
		return doubleGeneric(x)
	}

	partial := make([]T, width)
	n := len(x)
	i := 0
	for ; i <= n-width; i += width {
		block := x[i : i+width : i+width]
		for j := range block {
			block[j] *= 2
			partial[j] += block[j]
		}
	}
	var sum T
	for _, p := range partial {
		sum += p
	}
	return sum + doubleGeneric(x[i:])
}

func sumGeneric(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum
}

// sumPairwise adds in a balanced tree over blocks of at most 8 elements.
// Rounding error grows with log n instead of n.
func sumPairwise(x []float64) float64 {
	if len(x) <= 8 {
		var s0, s1 float64
		i := 0
		for ; i+1 < len(x); i += 2 {
			s0 += x[i]
			s1 += x[i+1]
		}
		if i < len(x) {
			s0 += x[i]
		}
		return s0 + s1
	}
	half := len(x) / 2
	return sumPairwise(x[:half]) + sumPairwise(x[half:])
}

type scalarAccumulator struct {
	sum float64
}

func newScalarAccumulator() *scalarAccumulator { return &scalarAccumulator{} }

func (a *scalarAccumulator) Add(x ...float64) {
	for _, v := range x {
		a.sum += v
	}
}

func (a *scalarAccumulator) Sum() float64 { return a.sum }

func (a *scalarAccumulator) Reset() { a.sum = 0 }

// laneAccumulator keeps four running sums, one per float64 lane of a 256-bit
// register, and folds them on read.
type laneAccumulator struct {
	lanes [4]float64
	next  int
}

func newLaneAccumulator() *laneAccumulator { return &laneAccumulator{} }

func (a *laneAccumulator) Add(x ...float64) {
	for _, v := range x {
		a.lanes[a.next] += v
		a.next = (a.next + 1) & 3
	}
}

func (a *laneAccumulator) Sum() float64 {
	return (a.lanes[0] + a.lanes[2]) + (a.lanes[1] + a.lanes[3])
}

func (a *laneAccumulator) Reset() { *a = laneAccumulator{} }
