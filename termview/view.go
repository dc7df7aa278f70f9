// Package termview draws the particle cloud into a terminal with tcell.
//
// Every cell accumulates the particles projected into it; denser cells get a
// heavier rune and a brighter colour, which reads like additive blending.
package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/handmorph"
	"github.com/go-gl/mathgl/mgl32"
)

// Screen is the part of tcell.Screen the view draws with.
type Screen interface {
	Size() (width, height int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

const (
	fovDegrees = 75
	cameraZ    = 35
	cellAspect = 2 // terminal cells are about twice as tall as wide
	hudRows    = 1
)

var ramp = []rune{'·', '∙', '•', '●'}

type View struct {
	screen Screen
	help   string

	counts []uint16
	sums   [][3]float32
}

func New(screen Screen, help string) *View {
	return &View{screen: screen, help: help}
}

// Camera returns the projection*view matrix for a w x h cell viewport.
func Camera(w, h int) mgl32.Mat4 {
	aspect := float32(w) / (float32(h) * cellAspect)
	proj := mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, 0.1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, cameraZ}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Project maps a world point through mvp onto a w x h grid of cells.
func Project(mvp mgl32.Mat4, p mgl32.Vec3, w, h int) (col, row int, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() >= 1 || ndc.Y() <= -1 || ndc.Y() > 1 {
		return 0, 0, false
	}
	col = int((ndc.X() + 1) / 2 * float32(w))
	row = int((1 - ndc.Y()) / 2 * float32(h))
	return col, row, true
}

func (v *View) Draw(f *handmorph.Frame) error {
	w, h := v.screen.Size()
	h -= hudRows
	if w <= 0 || h <= 0 {
		return nil
	}
	if n := w * h; len(v.counts) != n {
		v.counts = make([]uint16, n)
		v.sums = make([][3]float32, n)
	} else {
		clear(v.counts)
		clear(v.sums)
	}

	mvp := Camera(w, h).Mul4(f.Model)
	pos, colors := f.Positions, f.Colors
	for i := 0; i+2 < len(pos); i += 3 {
		col, row, ok := Project(mvp, mgl32.Vec3{pos[i], pos[i+1], pos[i+2]}, w, h)
		if !ok {
			continue
		}
		c := row*w + col
		if v.counts[c] < 0xffff {
			v.counts[c]++
		}
		v.sums[c][0] += colors[i]
		v.sums[c][1] += colors[i+1]
		v.sums[c][2] += colors[i+2]
	}

	v.screen.Clear()
	for c, n := range v.counts {
		if n == 0 {
			continue
		}
		v.screen.SetContent(c%w, c/w, glyphFor(n), nil, styleFor(v.sums[c], n))
	}
	v.hud(f, w, h)
	v.screen.Show()
	return nil
}

func glyphFor(n uint16) rune {
	switch {
	case n >= 8:
		return ramp[3]
	case n >= 4:
		return ramp[2]
	case n >= 2:
		return ramp[1]
	}
	return ramp[0]
}

// styleFor averages the particle colours of a cell and brightens it with
// density.
func styleFor(sum [3]float32, n uint16) tcell.Style {
	gain := min(1, 0.45+0.08*float32(n)) / float32(n)
	to8 := func(x float32) int32 { return int32(min(255, x*gain*255+0.5)) }
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(to8(sum[0]), to8(sum[1]), to8(sum[2])))
}

func (v *View) hud(f *handmorph.Frame, w, row int) {
	status := fmt.Sprintf(" %-6s frame %-7d", f.Shape, f.Number)
	if f.Flashing {
		status += " *"
	}
	line := status + "  " + v.help
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		v.screen.SetContent(x, row, r, nil, tcell.StyleDefault.Reverse(true))
		x++
	}
}
