package math

// MovingAverage averages the last size values. Until the window fills the
// estimate covers only the values seen so far.
type MovingAverage struct {
	values   []float64
	index    int
	size     int
	filled   int
	Estimate float64
}

func (a *MovingAverage) Init(size int) {
	a.size = max(1, size)
	a.values = make([]float64, a.size)
	a.Reset()
}

func (a *MovingAverage) Reset() {
	a.index = 0
	a.filled = 0
	a.Estimate = 0
}

func (a *MovingAverage) Update(val float64) float64 {
	if a.size == 0 {
		a.Init(1)
	}
	if a.filled > 0 {
		a.index = (a.index + 1) % a.size
	}
	a.values[a.index] = val
	a.filled = min(a.filled+1, a.size)

	total := 0.0
	for i := range a.filled {
		total += a.values[i]
	}
	a.Estimate = total / float64(a.filled)
	return a.Estimate
}
