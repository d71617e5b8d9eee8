package archive

import "fmt"

// HashName computes the 64-bit digest package directories are keyed by.
// It is a lookup2-style mixing function seeded by the input length,
// consuming 12-byte chunks with a final avalanche over the tail. It is
// deterministic and never fails; a lookup simply misses when the caller
// does not reproduce the exact filename formatting the package was built
// with.
func HashName(s string) uint64 {
	var a, b, c uint32

	c = uint32(len(s)) + 0xDEADBEEF
	a, b = c, c

	i := 0
	for ; i+12 <= len(s); i += 12 {
		a += uint32(s[i]) | uint32(s[i+1])<<8 | uint32(s[i+2])<<16 | uint32(s[i+3])<<24
		b += uint32(s[i+4]) | uint32(s[i+5])<<8 | uint32(s[i+6])<<16 | uint32(s[i+7])<<24
		c += uint32(s[i+8]) | uint32(s[i+9])<<8 | uint32(s[i+10])<<16 | uint32(s[i+11])<<24

		a = (a - c) ^ (c>>28 | c<<4)
		c += b
		b = (b - a) ^ (a>>26 | a<<6)
		a += c
		c = (c - b) ^ (b>>24 | b<<8)
		b += a
		a = (a - c) ^ (c>>16 | c<<16)
		c += b
		b = (b - a) ^ (a>>13 | a<<19)
		a += c
		c = (c - b) ^ (b>>28 | b<<4)
		b += a
	}

	if len(s)-i == 0 {
		// No tail: the legacy function skips the final avalanche and the
		// low word stays zero. Reproduced as-is; packages were built with
		// this behavior.
		return uint64(c) << 32
	}

	switch len(s) - i {
	case 12:
		c += uint32(s[i+11]) << 24
		fallthrough
	case 11:
		c += uint32(s[i+10]) << 16
		fallthrough
	case 10:
		c += uint32(s[i+9]) << 8
		fallthrough
	case 9:
		c += uint32(s[i+8])
		fallthrough
	case 8:
		b += uint32(s[i+7]) << 24
		fallthrough
	case 7:
		b += uint32(s[i+6]) << 16
		fallthrough
	case 6:
		b += uint32(s[i+5]) << 8
		fallthrough
	case 5:
		b += uint32(s[i+4])
		fallthrough
	case 4:
		a += uint32(s[i+3]) << 24
		fallthrough
	case 3:
		a += uint32(s[i+2]) << 16
		fallthrough
	case 2:
		a += uint32(s[i+1]) << 8
		fallthrough
	case 1:
		a += uint32(s[i])
	}

	c = (c ^ b) - (b>>18 | b<<14)
	a = (c ^ a) - (c>>21 | c<<11)
	b = (b ^ a) - (a>>7 | a<<25)
	c = (c ^ b) - (b>>16 | b<<16)
	x := (c ^ a) - (c>>28 | c<<4)
	b = (b ^ x) - (x>>18 | x<<14)
	y := (c ^ b) - (b>>8 | b<<24)

	return uint64(b)<<32 | uint64(y)
}

// EntryName fills a package filename pattern with a symbolic index. The
// pattern is the zero-padded template the package was built with, e.g.
// "build/artlegacymul/%08d.tga".
func EntryName(pattern string, index int) string {
	return fmt.Sprintf(pattern, index)
}
