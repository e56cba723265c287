package game

// Color identifies one obstacle colour. The set is closed and ordered:
// difficulty tiers unlock a prefix of it, and seats partition it.
type Color uint8

const (
	Yellow Color = iota
	Red
	Green
	Blue

	// NumColors is the size of the closed colour set.
	NumColors = 4
)

func (c Color) String() string {
	switch c {
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// RGB is one pixel value as handed to the LED driver. Channel order is
// logical RGB; strip-specific reordering (GRB for WS2812) is the driver's
// problem.
type RGB struct {
	R, G, B uint8
}

var (
	rgbOff    = RGB{}
	rgbPurple = RGB{R: 200, B: 200} // zero digit
)

// palette holds the in-game obstacle colours. Green is kept darker than
// the bright digit palette so it reads as green rather than white on
// diffused strips.
var palette = [NumColors]RGB{
	Yellow: {R: 255, G: 255},
	Red:    {R: 255},
	Green:  {G: 150},
	Blue:   {B: 255},
}

// digitPalette holds the bright variants used by the score display.
var digitPalette = [NumColors]RGB{
	Yellow: {R: 255, G: 255},
	Red:    {R: 255},
	Green:  {G: 255},
	Blue:   {B: 255},
}

// RGB returns the strip colour for c.
func (c Color) RGB() RGB { return palette[c] }

// ColorSet is a bitmask over the closed colour set.
type ColorSet uint8

// AllColors is the full palette.
const AllColors ColorSet = 1<<NumColors - 1

// FirstN returns the set of the first n colours in unlock order.
func FirstN(n int) ColorSet {
	if n < 0 {
		n = 0
	}
	if n > NumColors {
		n = NumColors
	}
	return 1<<n - 1
}

func (s ColorSet) Has(c Color) bool { return s&(1<<c) != 0 }

func (s *ColorSet) Add(c Color) { *s |= 1 << c }

func (s *ColorSet) Remove(c Color) { *s &^= 1 << c }

// Count returns the number of colours in the set.
func (s ColorSet) Count() int {
	n := 0
	for c := Color(0); c < NumColors; c++ {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Colors returns the members in unlock order.
func (s ColorSet) Colors() []Color {
	out := make([]Color, 0, NumColors)
	for c := Color(0); c < NumColors; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s ColorSet) String() string {
	out := ""
	for _, c := range s.Colors() {
		if out != "" {
			out += "+"
		}
		out += c.String()
	}
	if out == "" {
		return "none"
	}
	return out
}
