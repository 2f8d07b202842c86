package utils

// TrackedState remembers a value, the value it replaced, and the step at
// which it last changed.
type TrackedState[T comparable] struct {
	LastValue   T
	Value       T
	UpdatedStep int
	valid       bool
}

func (t *TrackedState[T]) Update(val T, step int) (updated bool) {
	if !t.valid {
		t.valid = true
		t.Value = val
		t.LastValue = val
		t.UpdatedStep = step
		return false
	}
	if t.Value != val {
		t.LastValue = t.Value
		t.Value = val
		t.UpdatedStep = step
		return true
	}
	return false
}

func (t *TrackedState[T]) Valid() bool {
	return t.valid
}

func (t *TrackedState[T]) Reset() {
	var zero T
	t.LastValue = zero
	t.Value = zero
	t.UpdatedStep = 0
	t.valid = false
}
