package cereal

// queue names
const (
	TELEMETRY_QUEUE = "raceTelemetry"
	METRICS_QUEUE   = "raceMetrics"
	CONTROL_QUEUE   = "raceControl"
	STATUS_QUEUE    = "raceStatus"
)

func NewTelemetrySubscriber() Subscriber[Telemetry] {
	// every step matters, never conflate telemetry
	return NewSubscriber(TELEMETRY_QUEUE, TelemetryReader, false)
}

func NewTelemetryPublisher() Publisher[Telemetry] {
	return NewPublisher(TELEMETRY_QUEUE, TelemetryEncoder)
}

func NewMetricsPublisher() Publisher[Snapshot] {
	return NewPublisher(METRICS_QUEUE, MetricsEncoder)
}

func NewMetricsSubscriber() Subscriber[Snapshot] {
	return NewSubscriber(METRICS_QUEUE, MetricsReader, true)
}

func NewControlPublisher() Publisher[Control] {
	return NewPublisher(CONTROL_QUEUE, ControlEncoder)
}

func NewControlSubscriber() Subscriber[Control] {
	return NewSubscriber(CONTROL_QUEUE, ControlReader, false)
}

func NewStatusPublisher() Publisher[Status] {
	return NewPublisher(STATUS_QUEUE, StatusEncoder)
}

func NewStatusSubscriber() Subscriber[Status] {
	return NewSubscriber(STATUS_QUEUE, StatusReader, true)
}
