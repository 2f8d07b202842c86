package utils

import (
	"time"

	m "pfeifer.dev/trackd/math"
)

// UpdateTracker measures the interval between successive updates.
type UpdateTracker struct {
	LastTime time.Time
	Time     time.Time
	Count    int
	DiffMA   m.MovingAverage
}

func (u *UpdateTracker) Init(maLength int) {
	u.LastTime = time.Now()
	u.Time = u.LastTime
	u.Count = 0
	u.DiffMA.Init(maLength)
}

func (u *UpdateTracker) Update() {
	u.UpdateAt(time.Now())
}

func (u *UpdateTracker) UpdateAt(now time.Time) {
	u.LastTime = u.Time
	u.Time = now
	u.Count++
	if u.Count > 1 {
		u.DiffMA.Update(u.Time.Sub(u.LastTime).Seconds())
	}
}

// Rate is the smoothed number of updates per second.
func (u *UpdateTracker) Rate() float64 {
	if u.DiffMA.Estimate <= 0 {
		return 0
	}
	return 1 / u.DiffMA.Estimate
}
