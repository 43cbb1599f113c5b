// Package playback rehearses a planned mission by stepping through its valid
// waypoints at the configured cruise speed.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/model"
)

// Mode describes how the Player advances through the mission.
type Mode int

const (
	// RealTime advances according to wall-clock time, one leg taking as
	// long as the aircraft would need to fly it.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still
	// visiting every waypoint in order.
	Accelerated
)

// Step is reported to listeners each time the player reaches a waypoint.
type Step struct {
	Waypoint       model.Waypoint
	LegMeters      float64
	ElapsedSeconds float64
}

// Player drives mission rehearsal and notifies registered listeners.
type Player struct {
	mu sync.RWMutex

	CruiseSpeedMPS float64
	Mode           Mode

	current   Step
	listeners []func(Step)
}

// NewPlayer constructs a player. Non-positive speeds fall back to the
// planner's default cruise speed.
func NewPlayer(cruiseSpeedMPS float64, mode Mode) *Player {
	if cruiseSpeedMPS <= 0 {
		cruiseSpeedMPS = core.DefaultStatsConfig().CruiseSpeedMPS
	}
	return &Player{
		CruiseSpeedMPS: cruiseSpeedMPS,
		Mode:           mode,
	}
}

// Current returns the most recently reached step.
func (p *Player) Current() Step {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// AddListener registers a callback invoked at every waypoint. Listeners must
// be registered before Run starts.
func (p *Player) AddListener(fn func(Step)) {
	p.listeners = append(p.listeners, fn)
}

// Run walks the waypoints in a separate goroutine and returns a channel that
// is closed when the rehearsal finishes or the context is cancelled. Invalid
// waypoints are skipped; the aircraft would not fly them.
func (p *Player) Run(ctx context.Context, waypoints []model.Waypoint) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		elapsed := 0.0
		var prev *model.Waypoint

		for i := range waypoints {
			wp := waypoints[i]
			if !wp.Valid {
				continue
			}

			leg := 0.0
			if prev != nil {
				leg = core.HaversineDistance(prev.Position.Point(), wp.Position.Point())
				legSeconds := leg / p.CruiseSpeedMPS
				elapsed += legSeconds

				if p.Mode == RealTime {
					timer := time.NewTimer(time.Duration(legSeconds * float64(time.Second)))
					select {
					case <-ctx.Done():
						timer.Stop()
						return
					case <-timer.C:
					}
				} else if ctx.Err() != nil {
					return
				}
			}

			step := Step{Waypoint: wp, LegMeters: leg, ElapsedSeconds: elapsed}

			p.mu.Lock()
			p.current = step
			p.mu.Unlock()

			for _, fn := range p.listeners {
				fn(step)
			}
			prev = &waypoints[i]
		}
	}()
	return done
}
