package cereal

import (
	"capnproto.org/go/capnp/v3"
	"github.com/pfeiferj/gomsgq"
	"github.com/pkg/errors"
)

// Encoder fills a fresh event with v.
type Encoder[T any] func(Event, T) error

type Publisher[T any] struct {
	Pub    gomsgq.MsgqPublisher
	encode Encoder[T]
}

// Marshal builds a single segment message holding v.
func Marshal[T any](v T, valid bool, encode Encoder[T]) ([]byte, error) {
	arena := capnp.SingleSegment(nil)

	msg, seg, err := capnp.NewMessage(arena)
	if err != nil {
		return nil, errors.Wrap(err, "could not create message")
	}

	event, err := NewRootEvent(seg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create event")
	}

	event.SetLogMonoTime(GetTime())
	event.SetValid(valid)

	if err := encode(event, v); err != nil {
		return nil, errors.Wrap(err, "could not encode event")
	}

	data, err := msg.Marshal()
	return data, errors.Wrap(err, "could not marshal message")
}

func (p *Publisher[T]) Send(v T, valid bool) error {
	data, err := Marshal(v, valid, p.encode)
	if err != nil {
		return err
	}
	p.Pub.Send(data)
	return nil
}

func NewPublisher[T any](name string, encode Encoder[T]) (publisher Publisher[T]) {
	msgq := gomsgq.Msgq{}
	err := msgq.Init(name, DEFAULT_SEGMENT_SIZE)
	if err != nil {
		panic(err)
	}
	pub := gomsgq.MsgqPublisher{}
	pub.Init(msgq)

	publisher.Pub = pub
	publisher.encode = encode
	return publisher
}
