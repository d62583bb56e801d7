// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sync"
	"time"

	"github.com/VividCortex/ewma"
)

// minSampleInterval keeps several elements rendered in the same frame from
// feeding zero-length intervals into the average.
const minSampleInterval = 50 * time.Millisecond

// meter tracks a smoothed per-second rate from successive counter readings.
// Rate and ETA elements share one meter per bar.
type meter struct {
	mu        sync.Mutex
	avg       ewma.MovingAverage
	seeded    bool
	lastValue int64
	lastTime  time.Time
	rate      float64
}

func newMeter() *meter {
	return &meter{avg: ewma.NewMovingAverage()}
}

// observe records value at now and returns the current smoothed rate.
func (m *meter) observe(now time.Time, value int64) float64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastTime.IsZero() {
		m.lastTime, m.lastValue = now, value
		return m.rate
	}
	dt := now.Sub(m.lastTime)
	if dt < minSampleInterval {
		return m.rate
	}
	instant := float64(value-m.lastValue) / dt.Seconds()
	if instant >= 0 {
		if !m.seeded {
			m.avg.Set(instant)
			m.seeded = true
		} else {
			m.avg.Add(instant)
		}
		m.rate = m.avg.Value()
	}
	m.lastTime, m.lastValue = now, value
	return m.rate
}
