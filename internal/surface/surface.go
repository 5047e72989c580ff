// Package surface abstracts the raster target that decoded updates land on.
package surface

// Surface is a fixed-size raster target. Color is 16-bit packed RGB565;
// interpretation beyond that is the implementation's concern. Callers are
// expected to bounds-check before writing.
type Surface interface {
	Width() int
	Height() int
	SetPixel(x, y int, color uint16)
	FillRow(x0, y, length int, color uint16)
}
