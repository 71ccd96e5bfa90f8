package core

import "time"

// GameState represents the overall game state
type GameState uint8

const (
	StatePaused GameState = iota
	StatePlaying
)

// Simulation is anything advanced one fixed step at a time
type Simulation interface {
	Tick()
}

// GameLoop runs a simulation at a fixed tick rate independent of the
// render rate.
type GameLoop struct {
	Sim         Simulation
	State       GameState
	TickRate    float64 // fixed ticks per second
	MaxFrame    float64 // seconds of backlog kept per frame
	Now         func() time.Time
	accumulator float64
	lastTime    time.Time
}

// NewGameLoop creates a game loop with fixed tick rate
func NewGameLoop(sim Simulation, tickRate float64) *GameLoop {
	return &GameLoop{
		Sim:      sim,
		TickRate: tickRate,
		MaxFrame: 0.25,
		Now:      time.Now,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It runs as many fixed
// ticks as the elapsed time allows and returns the interpolation alpha.
func (gl *GameLoop) Update() float64 {
	now := gl.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now

	// Cap frame time to avoid spiral of death
	if frameTime > gl.MaxFrame {
		frameTime = gl.MaxFrame
	}

	dt := 1.0 / gl.TickRate
	if gl.State != StatePlaying {
		return gl.accumulator / dt
	}
	gl.accumulator += frameTime
	for gl.accumulator >= dt {
		gl.Sim.Tick()
		gl.accumulator -= dt
	}
	return gl.accumulator / dt
}

// Play starts or resumes the game
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = gl.Now()
}

// Pause pauses the game
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
}

// Toggle flips between playing and paused
func (gl *GameLoop) Toggle() {
	if gl.State == StatePlaying {
		gl.Pause()
	} else {
		gl.Play()
	}
}
