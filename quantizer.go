package gifcore

import "github.com/gif-tools/gifcore/internal/gifformat"

// paletteLookup is the encoder-internal 2^15-entry cache mapping a
// bit-crushed RGB key to a palette index. The key packs the high 5 bits of
// each of R, G, B: (R>>3)*1024 + (G>>3)*32 + (B>>3).
type paletteLookup struct {
	present [1 << 15]bool
	index   [1 << 15]uint8
}

func (p *paletteLookup) clear() {
	for i := range p.present {
		p.present[i] = false
	}
}

func quantizeKey(r, g, b byte) int {
	return (int(r)>>3)<<10 | (int(g)>>3)<<5 | (int(b) >> 3)
}

// alphaTransparentThreshold is the alpha value below which a pixel is
// treated as transparent during encoding, fixed at half-opacity for
// deterministic output.
const alphaTransparentThreshold = 128

// rgbDistance is the Manhattan distance between two RGB triples, chosen
// over Euclidean for speed at the cost of some perceptual accuracy.
func rgbDistance(r0, g0, b0, r1, g1, b1 int) int {
	dist := 0
	if r0 > r1 {
		dist += r0 - r1
	} else {
		dist += r1 - r0
	}
	if g0 > g1 {
		dist += g0 - g1
	} else {
		dist += g1 - g0
	}
	if b0 > b1 {
		dist += b0 - b1
	} else {
		dist += b1 - b0
	}
	return dist
}

// nearestPaletteEntry scans every entry of cmap and returns the index
// minimizing Manhattan distance to the cube center (rc, gc, bc), breaking
// ties toward the lowest index (the scan's natural "<" comparison already
// does this, since a later, equal-distance entry never replaces an
// earlier one).
func nearestPaletteEntry(cmap *gifformat.ColorMap, rc, gc, bc int) int {
	best := 0
	bestDist := 1 << 30
	for i, c := range cmap.Colors {
		d := rgbDistance(rc, gc, bc, int(c.R), int(c.G), int(c.B))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// quantizePixel maps one BGRA pixel to a palette index: a transparency
// short-circuit, then a lookup-cache hit, or else a nearest-palette search
// from the pixel's 8x8x8 cube center, with the result cached.
func quantizePixel(p bgra, cmap *gifformat.ColorMap, lookup *paletteLookup, transparentIndex int) byte {
	if p.a < alphaTransparentThreshold && transparentIndex != gifformat.NoTransparentColor {
		return byte(transparentIndex)
	}

	key := quantizeKey(p.r, p.g, p.b)
	if lookup.present[key] {
		return lookup.index[key]
	}

	rCenter := int(p.r&0xF8) | 4
	gCenter := int(p.g&0xF8) | 4
	bCenter := int(p.b&0xF8) | 4
	best := nearestPaletteEntry(cmap, rCenter, gCenter, bCenter)

	lookup.present[key] = true
	lookup.index[key] = byte(best)
	return byte(best)
}
