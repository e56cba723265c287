package game

// Frame is one full strip image, ordered from pixel 0 upward. The driver
// applies the global brightness; frames carry full-scale colour.
type Frame []RGB

// NewFrame allocates a blanked frame of n pixels.
func NewFrame(n int) Frame { return make(Frame, n) }

func (f Frame) fill(c RGB) {
	for i := range f {
		f[i] = c
	}
}

// renderField paints the live playfield: player zone in white (dark while
// a button is held, since the player is "in the air"), obstacles at their
// rounded positions, and an optional trailing fade behind each obstacle.
func renderField(dst Frame, obstacles []Obstacle, zoneCenter, zoneRadius int, playerColor RGB, hidePlayer bool, fadeLen int) {
	dst.fill(rgbOff)

	if !hidePlayer {
		for i := zoneCenter - zoneRadius; i <= zoneCenter+zoneRadius; i++ {
			if i >= 0 && i < len(dst) {
				dst[i] = playerColor
			}
		}
	}

	// Trails first so obstacle heads always win the pixel.
	if fadeLen > 0 {
		for _, o := range obstacles {
			cell := o.Cell()
			trailDir := -1
			if o.Vel < 0 {
				trailDir = 1
			}
			for k := 1; k <= fadeLen; k++ {
				i := cell + k*trailDir
				if i < 0 || i >= len(dst) || dst[i] != rgbOff {
					continue
				}
				dst[i] = scale(o.Color.RGB(), fadeLen-k+1, (fadeLen+1)*2)
			}
		}
	}

	for _, o := range obstacles {
		if cell := o.Cell(); cell >= 0 && cell < len(dst) {
			dst[cell] = o.Color.RGB()
		}
	}
}

func scale(c RGB, num, den int) RGB {
	return RGB{
		R: uint8(int(c.R) * num / den),
		G: uint8(int(c.G) * num / den),
		B: uint8(int(c.B) * num / den),
	}
}

// ledsPerDigit is the strip span of one score digit.
const ledsPerDigit = 10

// renderScoreDigits paints the score as left-to-right digits, ten LEDs
// each: digit d lights the first d pixels of its span in a palette colour
// cycling by digit index. Zero gets an alternating purple pattern so it
// reads as "something" rather than a gap.
func renderScoreDigits(dst Frame, score int) {
	dst.fill(rgbOff)

	digits := digitsOf(score)
	maxDigits := len(dst) / ledsPerDigit
	for pos, digit := range digits {
		if pos >= maxDigits {
			break
		}
		start := pos * ledsPerDigit
		if digit == 0 {
			for i := 0; i < ledsPerDigit; i += 2 {
				dst[start+i] = rgbPurple
			}
			continue
		}
		bright := digitPalette[pos%NumColors]
		for i := 0; i < digit && start+i < len(dst); i++ {
			dst[start+i] = bright
		}
	}
}

func digitsOf(n int) []int {
	if n == 0 {
		return []int{0}
	}
	var rev []int
	for n > 0 {
		rev = append(rev, n%10)
		n /= 10
	}
	out := make([]int, len(rev))
	for i, d := range rev {
		out[len(rev)-1-i] = d
	}
	return out
}

// renderScoreBar paints the score as a green-to-red bar: one LED per
// point until the strip is full, then the full strip stands for the whole
// score.
func renderScoreBar(dst Frame, score int) {
	dst.fill(rgbOff)
	lit := score
	if lit > len(dst) {
		lit = len(dst)
	}
	for i := 0; i < lit; i++ {
		dst[i] = gradientColor(i, len(dst))
	}
}

// gradientColor maps position onto green→yellow→red.
func gradientColor(value, max int) RGB {
	ratio := 0.0
	if max > 0 {
		ratio = float64(value) / float64(max)
		if ratio > 1 {
			ratio = 1
		}
	}
	if ratio < 0.5 {
		return RGB{R: uint8(255 * ratio * 2), G: 255}
	}
	return RGB{R: 255, G: uint8(255 * (1 - (ratio-0.5)*2))}
}

// renderBlink fills the strip with c on the "on" halves of an n-blink
// animation spread over totalTicks.
func renderBlink(dst Frame, c RGB, ticksIn, totalTicks, blinks int) {
	dst.fill(rgbOff)
	if totalTicks <= 0 {
		return
	}
	phase := ticksIn * blinks * 2 / totalTicks
	if phase%2 == 0 {
		dst.fill(c)
	}
}

// renderCountdown shrinks a green bar from full strip to empty across
// totalTicks, giving players a readable "get ready" ramp.
func renderCountdown(dst Frame, ticksIn, totalTicks int) {
	dst.fill(rgbOff)
	if totalTicks <= 0 {
		return
	}
	remaining := totalTicks - ticksIn
	if remaining < 0 {
		remaining = 0
	}
	lit := len(dst) * remaining / totalTicks
	for i := 0; i < lit; i++ {
		dst[i] = RGB{G: 180}
	}
}
