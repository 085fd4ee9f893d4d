package colour

import "math"

// Constants of the CIEDE2000 formula, converted to radians once.
var (
	deg6   = degToRad(6)
	deg30  = degToRad(30)
	deg63  = degToRad(63)
	deg25  = degToRad(25)
	deg275 = degToRad(275)
	pow25  = math.Pow(25, 7)
)

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}

// CIEDE2000 returns the CIEDE2000 colour difference between x and y with
// unity parametric weights (kL = kC = kH = 1).
//
// All angles are handled in radians. The result is symmetric and is exactly
// zero for identical colours.
func CIEDE2000(x, y Lab) float64 {
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	meanC7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(meanC7/(meanC7+pow25)))

	a1p := (1 + g) * x.A
	a2p := (1 + g) * y.A
	c1p := math.Hypot(a1p, x.B)
	c2p := math.Hypot(a2p, y.B)
	h1p := hueAngle(x.B, a1p)
	h2p := hueAngle(y.B, a2p)

	dLp := y.L - x.L
	dCp := c2p - c1p

	cProd := c1p * c2p
	var dhp float64
	if cProd != 0 {
		dhp = h2p - h1p
		switch {
		case dhp > math.Pi:
			dhp -= 2 * math.Pi
		case dhp <= -math.Pi:
			dhp += 2 * math.Pi
		}
	}
	dHp := 2 * math.Sqrt(cProd) * math.Sin(dhp/2)

	meanLp := (x.L + y.L) / 2
	meanCp := (c1p + c2p) / 2

	hSum := h1p + h2p
	var meanHp float64
	switch {
	case cProd == 0:
		meanHp = hSum
	case math.Abs(h1p-h2p) <= math.Pi:
		meanHp = hSum / 2
	case hSum < 2*math.Pi:
		meanHp = (hSum + 2*math.Pi) / 2
	default:
		meanHp = (hSum - 2*math.Pi) / 2
	}

	t := 1 -
		0.17*math.Cos(meanHp-deg30) +
		0.24*math.Cos(2*meanHp) +
		0.32*math.Cos(3*meanHp+deg6) -
		0.20*math.Cos(4*meanHp-deg63)

	dTheta := deg30 * math.Exp(-math.Pow((meanHp-deg275)/deg25, 2))
	meanCp7 := math.Pow(meanCp, 7)
	rC := 2 * math.Sqrt(meanCp7/(meanCp7+pow25))

	l50 := (meanLp - 50) * (meanLp - 50)
	sL := 1 + 0.015*l50/math.Sqrt(20+l50)
	sC := 1 + 0.045*meanCp
	sH := 1 + 0.015*meanCp*t
	rT := -math.Sin(2*dTheta) * rC

	lTerm := dLp / sL
	cTerm := dCp / sC
	hTerm := dHp / sH
	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rT*cTerm*hTerm)
}

// hueAngle returns atan2(b, a) in [0, 2π), with the hue of the achromatic
// axis defined as zero.
func hueAngle(b, a float64) float64 {
	if b == 0 && a == 0 {
		return 0
	}
	h := math.Atan2(b, a)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}
