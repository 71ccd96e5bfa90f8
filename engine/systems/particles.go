package systems

import (
	"image/color"
	"math"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

var (
	ColorSmoke     = color.RGBA{150, 150, 150, 255}
	ColorExplosion = color.RGBA{255, 160, 40, 255}
	ColorSpark     = color.RGBA{255, 230, 120, 255}
	ColorDebris    = color.RGBA{110, 90, 70, 255}
	ColorTrail     = color.RGBA{200, 200, 200, 255}
)

// Burst spawns n particles flying out of at with random speed up to
// maxSpeed and a lifetime of life ticks. A nil rng spawns nothing.
func Burst(w *core.World, rng *core.Rand, at geom.Vec2, n int, maxSpeed float64, life int, c color.RGBA) {
	if rng == nil {
		return
	}
	for i := 0; i < n; i++ {
		a := rng.Uniform(0, 2*math.Pi)
		v := rng.Uniform(0.2, maxSpeed)
		id := w.Spawn()
		w.Attach(id, &core.Position{X: at.X, Y: at.Y})
		w.Attach(id, &core.Class{Kind: core.KindParticle})
		w.Attach(id, &core.Particle{
			VX:      math.Cos(a) * v,
			VY:      math.Sin(a) * v,
			Size:    rng.Uniform(2, 4),
			Life:    life,
			MaxLife: life,
			Color:   c,
		})
	}
}

// ParticleSystem drifts and expires particles
type ParticleSystem struct{}

func (s *ParticleSystem) Priority() int { return 35 }

func (s *ParticleSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompParticle, core.CompPosition) {
		p := w.Get(id, core.CompParticle).(*core.Particle)
		pos := w.Get(id, core.CompPosition).(*core.Position)
		pos.X += p.VX
		pos.Y += p.VY
		p.Life--
		if p.Life <= 0 {
			w.Destroy(id)
		}
	}
}
