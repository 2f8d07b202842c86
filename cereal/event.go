package cereal

import (
	"time"

	"capnproto.org/go/capnp/v3"
	"github.com/pkg/errors"
)

const DEFAULT_SEGMENT_SIZE = 10 * 1024 * 1024

var startTime = time.Now()

// GetTime is the monotonic time since process start in nanoseconds.
func GetTime() uint64 {
	return uint64(time.Since(startTime).Nanoseconds())
}

type EventWhich uint16

const (
	EventWhich_none EventWhich = iota
	EventWhich_telemetry
	EventWhich_metrics
	EventWhich_control
	EventWhich_status
)

func (w EventWhich) String() string {
	switch w {
	case EventWhich_telemetry:
		return "telemetry"
	case EventWhich_metrics:
		return "metrics"
	case EventWhich_control:
		return "control"
	case EventWhich_status:
		return "status"
	}
	return "none"
}

// Event is the root of every message on the queues: a timestamp, a validity
// flag and one payload struct.
type Event capnp.Struct

var eventSize = capnp.ObjectSize{DataSize: 16, PointerCount: 1}

func NewRootEvent(s *capnp.Segment) (Event, error) {
	st, err := capnp.NewRootStruct(s, eventSize)
	return Event(st), err
}

func ReadRootEvent(msg *capnp.Message) (Event, error) {
	root, err := msg.Root()
	return Event(root.Struct()), err
}

func (s Event) LogMonoTime() uint64 {
	return capnp.Struct(s).Uint64(0)
}

func (s Event) SetLogMonoTime(v uint64) {
	capnp.Struct(s).SetUint64(0, v)
}

func (s Event) Which() EventWhich {
	return EventWhich(capnp.Struct(s).Uint16(8))
}

func (s Event) Valid() bool {
	return capnp.Struct(s).Bit(80)
}

func (s Event) SetValid(v bool) {
	capnp.Struct(s).SetBit(80, v)
}

func (s Event) payload(which EventWhich) (capnp.Struct, error) {
	if got := s.Which(); got != which {
		return capnp.Struct{}, errors.Errorf("event holds %s, not %s", got, which)
	}
	p, err := capnp.Struct(s).Ptr(0)
	if err != nil {
		return capnp.Struct{}, errors.Wrapf(err, "could not read %s payload", which)
	}
	return p.Struct(), nil
}

func (s Event) newPayload(which EventWhich, size capnp.ObjectSize) (capnp.Struct, error) {
	st, err := capnp.NewStruct(capnp.Struct(s).Segment(), size)
	if err != nil {
		return st, errors.Wrapf(err, "could not allocate %s payload", which)
	}
	capnp.Struct(s).SetUint16(8, uint16(which))
	return st, capnp.Struct(s).SetPtr(0, st.ToPtr())
}
