package settings

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"pfeifer.dev/trackd/cereal"
	"pfeifer.dev/trackd/params"
	"pfeifer.dev/trackd/telemetry"
	"pfeifer.dev/trackd/utils"
)

var (
	Settings = EngineSettings{}
)

type EngineSettings struct {
	VehicleLength  float64 `json:"vehicle_length"`
	VehicleWidth   float64 `json:"vehicle_width"`
	StepsPerSecond float64 `json:"steps_per_second"`
	SpeedWindow    int     `json:"speed_window"`
	ObstacleLength float64 `json:"obstacle_length"`
	ObstacleWidth  float64 `json:"obstacle_width"`
	// RecordPath is the sqlite file metrics are written to, empty disables
	// recording.
	RecordPath string `json:"record_path"`
	LogLevel   string `json:"log_level"`
}

func (s *EngineSettings) Default() {
	cfg := telemetry.DefaultConfig()
	s.VehicleLength = cfg.VehicleLength
	s.VehicleWidth = cfg.VehicleWidth
	s.StepsPerSecond = cfg.StepsPerSecond
	s.SpeedWindow = cfg.SpeedWindow
	s.ObstacleLength = cfg.ObstacleLength
	s.ObstacleWidth = cfg.ObstacleWidth
	s.RecordPath = ""
	s.LogLevel = "error"
}

// EngineConfig converts the settings into the processor configuration.
func (s *EngineSettings) EngineConfig() telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.VehicleLength = s.VehicleLength
	cfg.VehicleWidth = s.VehicleWidth
	cfg.StepsPerSecond = s.StepsPerSecond
	cfg.SpeedWindow = s.SpeedWindow
	cfg.ObstacleLength = s.ObstacleLength
	cfg.ObstacleWidth = s.ObstacleWidth
	return cfg
}

func DefaultRecordPath() string {
	return filepath.Join(params.BasePath, DEFAULT_RECORD_FILE)
}

func (s *EngineSettings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	data, err := params.GetParam(params.ENGINE_SETTINGS)
	if err != nil {
		utils.Logde(err)
		return false
	}

	err = s.Unmarshal(data)
	if err != nil {
		utils.Loge(err)
		return false
	}

	return true
}

func (s *EngineSettings) LoadWithRetries(tries int) {
	for range tries {
		if s.Load() {
			break
		}
		time.Sleep(1 * time.Second)
	}
	s.Save()
}

func (s *EngineSettings) Save() {
	data, err := s.Marshal()
	if err != nil {
		utils.Loge(err)
		return
	}
	err = params.PutParam(params.ENGINE_SETTINGS, data)
	if err != nil {
		utils.Loge(err)
		return
	}
}

func (s *EngineSettings) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	return data, errors.Wrap(err, "could not marshal settings")
}

func (s *EngineSettings) Unmarshal(data []byte) error {
	err := json.Unmarshal(data, s)
	if err != nil {
		return errors.Wrap(err, "could not unmarshal settings")
	}
	s.setLogLevel()
	return nil
}

func (s *EngineSettings) setLogLevel() {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelError)
	}
}

// Handle applies a control message. It reports whether the engine
// configuration may have changed.
func (s *EngineSettings) Handle(input cereal.Control) (configChanged bool) {
	switch input.Type {
	case cereal.ControlType_reloadSettings:
		s.Load()
		return true
	case cereal.ControlType_saveSettings:
		go s.Save()
	case cereal.ControlType_loadDefaultSettings:
		s.Default()
		s.setLogLevel()
		return true
	case cereal.ControlType_setLogLevel:
		s.LogLevel = input.Str
		s.setLogLevel()
	case cereal.ControlType_setVehicleLength:
		s.VehicleLength = input.Float
		return true
	case cereal.ControlType_setVehicleWidth:
		s.VehicleWidth = input.Float
		return true
	case cereal.ControlType_setStepsPerSecond:
		s.StepsPerSecond = input.Float
		return true
	case cereal.ControlType_setSpeedWindow:
		s.SpeedWindow = int(input.Float)
		return true
	case cereal.ControlType_setObstacleLength:
		s.ObstacleLength = input.Float
		return true
	case cereal.ControlType_setObstacleWidth:
		s.ObstacleWidth = input.Float
		return true
	case cereal.ControlType_setRecordPath:
		s.RecordPath = input.Str
	default:
		slog.Warn("unknown control message", "type", input.Type)
	}
	return false
}
