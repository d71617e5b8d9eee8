package shard

import "image"

// Raster is a decoded pixel buffer. Pixels are packed 0xAARRGGBB; the zero
// value of a pixel is fully transparent. The buffer belongs to the cache
// that produced it and is released when the cache evicts the entry.
type Raster struct {
	Pix     []uint32
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// NewRaster returns a transparent raster of the given dimensions.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the pixel at (x, y), or 0 outside the bounds.
func (r *Raster) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0
	}
	return r.Pix[y*r.Width+x]
}

// Set writes the pixel at (x, y). Writes outside the bounds are dropped so
// that malformed run data can never scribble past the declared size.
func (r *Raster) Set(x, y int, c uint32) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	r.Pix[y*r.Width+x] = c
}

// Release drops the pixel buffer. Called by caches on eviction.
func (r *Raster) Release() {
	r.Pix = nil
}

// RGBA copies the raster into a stdlib image, mainly for export tooling.
func (r *Raster) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		row := y * img.Stride
		for x := 0; x < r.Width; x++ {
			c := r.Pix[y*r.Width+x]
			img.Pix[row+x*4] = uint8(c >> 16)
			img.Pix[row+x*4+1] = uint8(c >> 8)
			img.Pix[row+x*4+2] = uint8(c)
			img.Pix[row+x*4+3] = uint8(c >> 24)
		}
	}
	return img
}
