package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	return &Time{
		fps:       cfg.FramesPerSecond,
		interval:  interval,
		fpsTicker: time.NewTicker(interval),
		started:   time.Now(),
	}
}

// Time contains all the time services and tickers
type Time struct {
	fps       int
	interval  time.Duration
	fpsTicker *time.Ticker

	started time.Time
	frames  uint64
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// Interval is the time between two frames
func (t *Time) Interval() time.Duration {
	return t.interval
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Frame counts a drawn frame
func (t *Time) Frame() {
	t.frames++
}

// Frames returns the number of frames counted so far
func (t *Time) Frames() uint64 {
	return t.frames
}

// AverageFps is the frame rate measured since the service started
func (t *Time) AverageFps() float64 {
	elapsed := time.Since(t.started).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(t.frames) / elapsed
}

// Stop stops the tickers
func (t *Time) Stop() {
	t.fpsTicker.Stop()
}
