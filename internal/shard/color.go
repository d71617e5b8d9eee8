package shard

// The on-disk pixel format is 16 bits: 1 alpha / 5 red / 5 green / 5 blue.
// The alpha bit is unreliable in shipped content and is ignored; the value
// zero is the universal transparency sentinel instead.

// grayTolerance is the maximum spread between channels for a pixel to still
// count as gray during partial hue substitution.
const grayTolerance = 8

// expand5 widens a 5-bit channel to 8 bits by bit replication.
func expand5(v uint32) uint32 {
	return (v << 3) | (v >> 2)
}

// Unpack converts a packed 16-bit color to 0xAARRGGBB. Zero maps to fully
// transparent regardless of the alpha bit; every other value is opaque.
func Unpack(c uint16) uint32 {
	if c == 0 {
		return 0
	}
	r := expand5(uint32(c>>10) & 0x1F)
	g := expand5(uint32(c>>5) & 0x1F)
	b := expand5(uint32(c) & 0x1F)
	return 0xFF000000 | r<<16 | g<<8 | b
}

// luminance buckets an unpacked color into the 32 palette slots.
func luminance(c uint32) int {
	r := (c >> 16) & 0xFF
	g := (c >> 8) & 0xFF
	b := c & 0xFF
	return int((r + g + b) / 3 >> 3)
}

// isGray reports whether the channel spread stays within tolerance.
func isGray(c uint32) bool {
	r := int((c >> 16) & 0xFF)
	g := int((c >> 8) & 0xFF)
	b := int(c & 0xFF)
	min, max := r, r
	for _, v := range []int{g, b} {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max-min <= grayTolerance
}

// ApplyHue substitutes a palette color for the pixel's luminance bucket,
// preserving the alpha channel. Transparent pixels pass through untouched.
// With partial set, colored (non-gray) pixels keep their original value;
// only the gray ramp is recolored.
func ApplyHue(c uint32, palette *[32]uint32, partial bool) uint32 {
	if c&0xFF000000 == 0 {
		return c
	}
	if partial && !isGray(c) {
		return c
	}
	return c&0xFF000000 | palette[luminance(c)]&0x00FFFFFF
}
