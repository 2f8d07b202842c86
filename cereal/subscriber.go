package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
	"github.com/pfeiferj/gomsgq"
	"github.com/pkg/errors"

	"pfeifer.dev/trackd/utils"
)

type Reader[T any] func(Event) (T, error)

type Subscriber[T any] struct {
	Sub    gomsgq.MsgqSubscriber
	reader Reader[T]
}

// Unmarshal decodes a message built by Marshal. valid is the flag the
// publisher set on the event.
func Unmarshal[T any](data []byte, reader Reader[T]) (obj T, valid bool, err error) {
	msg, err := capnp.Unmarshal(data)
	if err != nil {
		return obj, false, errors.Wrap(err, "could not unmarshal message")
	}

	// allow us to read as much as we want
	msg.ResetReadLimit(math.MaxUint64)

	event, err := ReadRootEvent(msg)
	if err != nil {
		return obj, false, errors.Wrap(err, "could not read event")
	}

	obj, err = reader(event)
	return obj, event.Valid(), err
}

func (s *Subscriber[T]) Read() (obj T, success bool) {
	data := s.Sub.Read()
	if len(data) == 0 {
		return obj, false
	}
	obj, valid, err := Unmarshal(data, s.reader)
	if err != nil {
		utils.Logde(err)
		return obj, false
	}
	return obj, valid
}

func NewSubscriber[T any](name string, reader Reader[T], conflate bool) (subscriber Subscriber[T]) {
	msgq := gomsgq.Msgq{}
	err := msgq.Init(name, DEFAULT_SEGMENT_SIZE)
	if err != nil {
		panic(err)
	}
	sub := gomsgq.MsgqSubscriber{}
	sub.Conflate = conflate
	sub.Init(msgq)

	subscriber.Sub = sub
	subscriber.reader = reader
	return subscriber
}
