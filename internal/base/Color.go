package base

import (
	"math"
	"math/rand"
)

type Color3b struct {
	R, G, B uint8
}
type Color3f struct {
	R, G, B float64
}

func saturate(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func (x Color3f) Quantize() Color3b {
	return Color3b{
		R: uint8(saturate(x.R) * math.MaxUint8),
		G: uint8(saturate(x.G) * math.MaxUint8),
		B: uint8(saturate(x.B) * math.MaxUint8),
	}
}

func (x Color3b) Ansi(fg bool) string {
	return FormatAnsiColor(x.R, x.G, x.B, fg)
}

// pastel palette, readable on dark and light terminals
func NewPastelizerColor(f float64) Color3f {
	_, h := math.Modf(saturate(f) + 0.92620819117478)
	h = math.Abs(h) * 6.2831853071796
	cocg_x, cocg_y := 0.25*math.Cos(h), 0.25*math.Sin(h)
	br_x, br_y := -cocg_x-cocg_y, cocg_x-cocg_y
	c_x, c_y, c_z := 0.929+br_y, 0.929+cocg_y, 0.929+br_x
	return Color3f{
		R: saturate(c_x * c_x),
		G: saturate(c_y * c_y),
		B: saturate(c_z * c_z),
	}
}

func NewColorFromHash(h uint64) Color3f {
	rnd := rand.New(rand.NewSource(int64(h)))
	return NewPastelizerColor(float64(rnd.Int63n(1<<53)) / (1 << 53))
}
