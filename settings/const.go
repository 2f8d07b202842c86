package settings

import (
	"time"
)

const (
	LOOP_DELAY          = 5 * time.Millisecond
	STATUS_INTERVAL     = 500 * time.Millisecond
	RATE_AVERAGE_LENGTH = 30
	SETTINGS_LOAD_TRIES = 3
	DEFAULT_RECORD_FILE = "metrics.db"
)
