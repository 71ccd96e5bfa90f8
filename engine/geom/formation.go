package geom

import "math"

const (
	formationCols    = 5
	formationRows    = 4
	formationSpacing = 20.0
)

// FormationPositions lays out up to 20 slots in a 5x4 grid centered on
// center and rotated by angle. Extra units beyond the grid get no slot.
func FormationPositions(center Vec2, n int, angle float64) []Vec2 {
	if n <= 0 {
		return nil
	}
	if n > formationCols*formationRows {
		n = formationCols * formationRows
	}
	cos, sin := math.Cos(angle), math.Sin(angle)
	out := make([]Vec2, 0, n)
	for i := 0; i < n; i++ {
		row, col := i/formationCols, i%formationCols
		ox := (float64(col) - float64(formationCols-1)/2) * formationSpacing
		oy := (float64(row) - float64(formationRows-1)/2) * formationSpacing
		out = append(out, Vec2{
			X: center.X + ox*cos - oy*sin,
			Y: center.Y + ox*sin + oy*cos,
		})
	}
	return out
}

// FormationToward is FormationPositions facing from center toward target.
// A coincident target faces east.
func FormationToward(center, target Vec2, n int) []Vec2 {
	angle := 0.0
	if target != center {
		angle = HeadingTo(center, target)
	}
	return FormationPositions(center, n, angle)
}
