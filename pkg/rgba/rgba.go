// Package rgba parses and serializes the translucent rgba() color strings
// used to tag annotations.
package rgba

import (
	"fmt"
	"regexp"
	"strconv"
)

// Color is a parsed rgba() value. R, G and B are 0-255; A is 0.0-1.0.
type Color struct {
	R uint8
	G uint8
	B uint8
	A float64
}

// Fallback is returned for any input Parse cannot understand: translucent
// yellow. Callers treat it as a silent degradation, never an error, so that
// rendering is never blocked by a malformed color.
var Fallback = Color{R: 255, G: 235, B: 60, A: 0.4}

var pattern = regexp.MustCompile(`^rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*([\d.]+))?\)$`)

// Parse reads a color of the form "rgba(R, G, B, A)" or "rgb(R, G, B)".
// A missing alpha component defaults to 1.0. The second return value
// reports whether the input matched; on a mismatch the Fallback color is
// returned and ok is false.
func Parse(input string) (c Color, ok bool) {
	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return Fallback, false
	}

	r, errR := strconv.ParseUint(m[1], 10, 16)
	g, errG := strconv.ParseUint(m[2], 10, 16)
	b, errB := strconv.ParseUint(m[3], 10, 16)
	if errR != nil || errG != nil || errB != nil || r > 255 || g > 255 || b > 255 {
		return Fallback, false
	}

	a := 1.0
	if m[4] != "" {
		parsed, err := strconv.ParseFloat(m[4], 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return Fallback, false
		}
		a = parsed
	}

	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: a}, true
}

// String serializes the color in the exact form Parse accepts. A value
// produced by Parse round-trips losslessly.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatAlpha(c.A))
}

// Norm returns the color channels normalized to 0.0-1.0, the operand range
// of the PDF rg/RG operators.
func (c Color) Norm() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
