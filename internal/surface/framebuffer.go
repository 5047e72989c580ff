package surface

import (
	"image"
	"image/color"
	"sync"
)

// Framebuffer is an in-memory RGB565 Surface.
//
// Writes come from the session loop's compositor; reads may come from the
// admin snapshot endpoint on another goroutine, hence the lock.
type Framebuffer struct {
	mu     sync.RWMutex
	w, h   int
	pixels []uint16
}

var _ Surface = (*Framebuffer)(nil)
var _ image.Image = (*Framebuffer)(nil)

func NewFramebuffer(w, h int) *Framebuffer {
	if w <= 0 || h <= 0 {
		panic("surface: non-positive framebuffer dimensions")
	}
	return &Framebuffer{
		w:      w,
		h:      h,
		pixels: make([]uint16, w*h),
	}
}

func (f *Framebuffer) Width() int  { return f.w }
func (f *Framebuffer) Height() int { return f.h }

func (f *Framebuffer) SetPixel(x, y int, color uint16) {
	f.mu.Lock()
	f.pixels[y*f.w+x] = color
	f.mu.Unlock()
}

func (f *Framebuffer) FillRow(x0, y, length int, color uint16) {
	f.mu.Lock()
	row := f.pixels[y*f.w+x0 : y*f.w+x0+length]
	for i := range row {
		row[i] = color
	}
	f.mu.Unlock()
}

// Clear fills the whole surface with one color.
func (f *Framebuffer) Clear(color uint16) {
	f.mu.Lock()
	for i := range f.pixels {
		f.pixels[i] = color
	}
	f.mu.Unlock()
}

// Pixel reads one raw RGB565 value.
func (f *Framebuffer) Pixel(x, y int) uint16 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pixels[y*f.w+x]
}

// image.Image implementation, used by the admin snapshot endpoint.

func (f *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

func (f *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

func (f *Framebuffer) At(x, y int) color.Color {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return color.RGBA{}
	}
	r, g, b := RGB565Components(f.Pixel(x, y))
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// RGB565Components expands a packed RGB565 value to 8-bit channels.
func RGB565Components(c uint16) (r, g, b uint8) {
	r5 := uint8(c >> 11 & 0x1F)
	g6 := uint8(c >> 5 & 0x3F)
	b5 := uint8(c & 0x1F)
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return r, g, b
}

// PackRGB565 packs 8-bit channels into RGB565.
func PackRGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
