package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
)

// layout maps the scalar fields of T onto a struct data section: float64
// words first, then int32 values, then bits.
type layout[T any] struct {
	floats   []func(*T) *float64
	ints     []func(*T) *int
	bools    []func(*T) *bool
	pointers uint16
}

func (l *layout[T]) intBase() uint32 {
	return uint32(len(l.floats)) * 8
}

func (l *layout[T]) boolBase() uint32 {
	return (l.intBase() + uint32(len(l.ints))*4) * 8
}

func (l *layout[T]) size() capnp.ObjectSize {
	bytes := l.boolBase()/8 + (uint32(len(l.bools))+7)/8
	words := (bytes + 7) / 8
	return capnp.ObjectSize{DataSize: capnp.Size(words * 8), PointerCount: l.pointers}
}

func (l *layout[T]) write(st capnp.Struct, v *T) {
	for i, field := range l.floats {
		st.SetUint64(capnp.DataOffset(i*8), float64Bits(*field(v)))
	}
	base := l.intBase()
	for i, field := range l.ints {
		st.SetUint32(capnp.DataOffset(base+uint32(i)*4), uint32(int32(*field(v))))
	}
	bits := l.boolBase()
	for i, field := range l.bools {
		st.SetBit(capnp.BitOffset(bits+uint32(i)), *field(v))
	}
}

func (l *layout[T]) read(st capnp.Struct, v *T) {
	for i, field := range l.floats {
		*field(v) = float64FromBits(st.Uint64(capnp.DataOffset(i * 8)))
	}
	base := l.intBase()
	for i, field := range l.ints {
		*field(v) = int(int32(st.Uint32(capnp.DataOffset(base + uint32(i)*4))))
	}
	bits := l.boolBase()
	for i, field := range l.bools {
		*field(v) = st.Bit(capnp.BitOffset(bits + uint32(i)))
	}
}

func float64Bits(v float64) uint64 {
	return math.Float64bits(v)
}

func float64FromBits(v uint64) float64 {
	return math.Float64frombits(v)
}

func setFloat64s(st capnp.Struct, i uint16, values []float64) error {
	list, err := capnp.NewFloat64List(st.Segment(), int32(len(values)))
	if err != nil {
		return err
	}
	for j, v := range values {
		list.Set(j, v)
	}
	return st.SetPtr(i, list.ToPtr())
}

func float64s(st capnp.Struct, i uint16) ([]float64, error) {
	p, err := st.Ptr(i)
	if err != nil {
		return nil, err
	}
	list := capnp.Float64List(p.List())
	values := make([]float64, list.Len())
	for j := range values {
		values[j] = list.At(j)
	}
	return values, nil
}

func setInt32s(st capnp.Struct, i uint16, values []int) error {
	list, err := capnp.NewInt32List(st.Segment(), int32(len(values)))
	if err != nil {
		return err
	}
	for j, v := range values {
		list.Set(j, int32(v))
	}
	return st.SetPtr(i, list.ToPtr())
}

func int32s(st capnp.Struct, i uint16) ([]int, error) {
	p, err := st.Ptr(i)
	if err != nil {
		return nil, err
	}
	list := capnp.Int32List(p.List())
	if list.Len() == 0 {
		return nil, nil
	}
	values := make([]int, list.Len())
	for j := range values {
		values[j] = int(list.At(j))
	}
	return values, nil
}

func setBools(st capnp.Struct, i uint16, values []bool) error {
	list, err := capnp.NewBitList(st.Segment(), int32(len(values)))
	if err != nil {
		return err
	}
	for j, v := range values {
		list.Set(j, v)
	}
	return st.SetPtr(i, list.ToPtr())
}

func bools(st capnp.Struct, i uint16) ([]bool, error) {
	p, err := st.Ptr(i)
	if err != nil {
		return nil, err
	}
	list := capnp.BitList(p.List())
	values := make([]bool, list.Len())
	for j := range values {
		values[j] = list.At(j)
	}
	return values, nil
}

func text(st capnp.Struct, i uint16) (string, error) {
	p, err := st.Ptr(i)
	if err != nil {
		return "", err
	}
	return p.Text(), nil
}

func flatten(coords [][2]float64) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return flat
}

func pairs(flat []float64) [][2]float64 {
	coords := make([][2]float64, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		coords = append(coords, [2]float64{flat[i], flat[i+1]})
	}
	return coords
}
