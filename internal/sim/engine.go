// Tick engine: paces the model at an operator-controlled rate.

package sim

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine drives the model forward tick by tick.
type Engine struct {
	Interval time.Duration // Base tick interval (default 1 second)

	// OnTick advances the world — wired to Model.Step plus any side work
	// (periodic persistence) by the caller.
	OnTick func(tick uint64)

	speed   atomic.Int64 // Speed ×1000: 1000 = real-time, 0 = paused
	running atomic.Bool
	tick    atomic.Uint64
}

// NewEngine creates an engine at real-time speed.
func NewEngine() *Engine {
	e := &Engine{Interval: time.Second}
	e.speed.Store(1000)
	return e
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	return float64(e.speed.Load()) / 1000
}

// SetSpeed sets the speed multiplier. Zero or negative pauses the engine.
func (e *Engine) SetSpeed(speed float64) {
	e.speed.Store(int64(speed * 1000))
}

// Tick returns the current tick counter.
func (e *Engine) Tick() uint64 { return e.tick.Load() }

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("engine started", "tick", e.Tick(), "speed", e.Speed())

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		tick := e.tick.Add(1)
		if e.OnTick != nil {
			e.OnTick(tick)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Tick())
}

// Stop halts the loop after the current tick completes.
func (e *Engine) Stop() {
	e.running.Store(false)
}
