package hexgrid

// HexIndex is an axial coordinate on the hex grid. The third cube
// coordinate s = -Q-R is always derived, never stored.
type HexIndex struct {
	Q, R int
}

// Add returns h + o componentwise.
func (h HexIndex) Add(o HexIndex) HexIndex {
	return HexIndex{Q: h.Q + o.Q, R: h.R + o.R}
}

// Sub returns h - o componentwise.
func (h HexIndex) Sub(o HexIndex) HexIndex {
	return HexIndex{Q: h.Q - o.Q, R: h.R - o.R}
}

// Scale returns h multiplied by n.
func (h HexIndex) Scale(n int) HexIndex {
	return HexIndex{Q: h.Q * n, R: h.R * n}
}

// S returns the derived cube coordinate.
func (h HexIndex) S() int {
	return -h.Q - h.R
}

// RotateCW rotates h by one clockwise sixty-degree step around the
// origin: (q, r) -> (-r, -s).
func (h HexIndex) RotateCW() HexIndex {
	return HexIndex{Q: -h.R, R: -h.S()}
}

// RotateBy rotates h around the origin by rot clockwise steps.
func (h HexIndex) RotateBy(rot Rotation) HexIndex {
	out := h
	for i := Rotation(0); i < NormalizeRotation(int(rot)); i++ {
		out = out.RotateCW()
	}
	return out
}

// RotateAround rotates h around pivot by rot clockwise steps.
func (h HexIndex) RotateAround(pivot HexIndex, rot Rotation) HexIndex {
	return h.Sub(pivot).RotateBy(rot).Add(pivot)
}

// Rotation is a discrete hex rotation in sixty-degree clockwise steps,
// always held in 0..5.
type Rotation int

// NormalizeRotation reduces any signed step count into 0..5.
func NormalizeRotation(n int) Rotation {
	return Rotation(((n % 6) + 6) % 6)
}

// Add returns r advanced by n steps, reduced mod 6.
func (r Rotation) Add(n int) Rotation {
	return NormalizeRotation(int(r) + n)
}

// Sub returns r moved back by n steps, reduced mod 6.
func (r Rotation) Sub(n int) Rotation {
	return NormalizeRotation(int(r) - n)
}

// directions holds the unit hex vector for each rotation, i.e. (1,0)
// rotated by k clockwise steps.
var directions = [6]HexIndex{
	{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1},
}

// Direction returns the unit hex vector pointing along rotation r.
func Direction(r Rotation) HexIndex {
	return directions[NormalizeRotation(int(r))]
}
