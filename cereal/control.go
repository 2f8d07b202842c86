package cereal

import (
	"capnproto.org/go/capnp/v3"
	"github.com/pkg/errors"
)

type ControlType uint16

const (
	ControlType_reloadSettings ControlType = iota
	ControlType_saveSettings
	ControlType_loadDefaultSettings
	ControlType_setLogLevel
	ControlType_setVehicleLength
	ControlType_setVehicleWidth
	ControlType_setStepsPerSecond
	ControlType_setSpeedWindow
	ControlType_setObstacleLength
	ControlType_setObstacleWidth
	ControlType_setRecordPath
)

var controlTypeNames = map[ControlType]string{
	ControlType_reloadSettings:      "reloadSettings",
	ControlType_saveSettings:        "saveSettings",
	ControlType_loadDefaultSettings: "loadDefaultSettings",
	ControlType_setLogLevel:         "setLogLevel",
	ControlType_setVehicleLength:    "setVehicleLength",
	ControlType_setVehicleWidth:     "setVehicleWidth",
	ControlType_setStepsPerSecond:   "setStepsPerSecond",
	ControlType_setSpeedWindow:      "setSpeedWindow",
	ControlType_setObstacleLength:   "setObstacleLength",
	ControlType_setObstacleWidth:    "setObstacleWidth",
	ControlType_setRecordPath:       "setRecordPath",
}

func (c ControlType) String() string {
	if name, ok := controlTypeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Control asks a running daemon to change or persist its settings. Only the
// value matching the type is meaningful.
type Control struct {
	Type  ControlType
	Float float64
	Bool  bool
	Str   string
}

var controlSize = capnp.ObjectSize{DataSize: 16, PointerCount: 1}

func ControlEncoder(evt Event, c Control) error {
	st, err := evt.newPayload(EventWhich_control, controlSize)
	if err != nil {
		return err
	}
	st.SetUint16(0, uint16(c.Type))
	st.SetBit(16, c.Bool)
	st.SetUint64(8, float64Bits(c.Float))
	return errors.Wrap(st.SetText(0, c.Str), "could not set control string")
}

func ControlReader(evt Event) (c Control, err error) {
	st, err := evt.payload(EventWhich_control)
	if err != nil {
		return c, err
	}
	c.Type = ControlType(st.Uint16(0))
	c.Bool = st.Bit(16)
	c.Float = float64FromBits(st.Uint64(8))
	c.Str, err = text(st, 0)
	return c, errors.Wrap(err, "could not read control string")
}
