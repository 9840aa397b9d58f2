package bitmap

import "math"

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func inverseLerp(a, b, v float64) float64 {
	return (v - a) / (b - a)
}

// remap maps v from [ia, ib] onto [oa, ob].
func remap(ia, ib, oa, ob, v float64) float64 {
	return lerp(oa, ob, inverseLerp(ia, ib, v))
}

func lerpChannel(a, b byte, t float64) byte {
	v := math.Round(lerp(float64(a), float64(b), t))
	return byte(min(max(v, 0), 255))
}

// lerpPixel interpolates the first len(out) channels of p1 and p2.
func lerpPixel(p1, p2 []byte, t float64, out []byte) {
	for i := range out {
		out[i] = lerpChannel(p1[i], p2[i], t)
	}
}

// averagePixel writes the truncated per-channel mean of the four samples.
func averagePixel(in *[4][]byte, out []byte) {
	for i := range out {
		var sum uint
		for _, p := range in {
			sum += uint(p[i])
		}
		out[i] = byte(sum / 4)
	}
}
