package gesture

import "gonum.org/v1/gonum/spatial/r2"

// finger chains as [base, middle joint, outer joint, tip]
var chains = [5][4]int{
	{1, 2, 3, 4},     // thumb
	{5, 6, 7, 8},     // index
	{9, 10, 11, 12},  // middle
	{13, 14, 15, 16}, // ring
	{17, 18, 19, 20}, // pinky
}

// Synthetic builds a hand holding pose g with its palm centre (landmark 9)
// at (cx, cy). None yields a pointing hand that matches no pose. It stands
// in for a tracker when driving the engine from a keyboard or a test.
func Synthetic(g Gesture, cx, cy float64) Landmarks {
	at := func(dx, dy float64) r2.Vec { return r2.Vec{X: cx + dx, Y: cy + dy} }

	bases := [5]r2.Vec{
		at(-0.10, 0.18),
		at(-0.06, 0.01),
		at(0, 0),
		at(0.05, 0.01),
		at(0.10, 0.03),
	}
	up := func(i int) r2.Vec { return r2.Add(bases[i], r2.Vec{Y: -0.40}) }
	curled := func(i int) r2.Vec { return r2.Add(bases[i], r2.Vec{Y: 0.06}) }

	tips := [5]r2.Vec{at(-0.13, 0.12), curled(1), curled(2), curled(3), curled(4)}
	switch g {
	case Pinch:
		tips[0] = r2.Add(tips[1], r2.Vec{X: 0.01})
	case OpenPalm:
		tips = [5]r2.Vec{at(-0.30, 0.05), up(1), up(2), up(3), up(4)}
	case PeaceSign:
		tips[0] = at(-0.02, 0.10)
		tips[1], tips[2] = up(1), up(2)
	case None:
		tips[1] = up(1)
	}

	var h Landmarks
	h[Wrist] = at(0, 0.25)
	for f, chain := range chains {
		b, t := bases[f], tips[f]
		h[chain[0]] = b
		h[chain[1]] = lerp(b, t, 0.4)
		h[chain[2]] = lerp(b, t, 0.7)
		h[chain[3]] = t
	}
	return h
}

func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}
