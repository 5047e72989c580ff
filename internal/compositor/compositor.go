// Package compositor applies decoded update batches to a surface.
package compositor

import (
	"github.com/aisaiev/lilka-desktop-monitor/internal/protocol"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
)

// Apply drains one fully-decoded batch onto dst and returns the number of
// pixels written.
//
// Pixel batches tolerate bad geometry per entry: an out-of-bounds pixel is
// skipped without aborting the rest. Run batches are all-or-nothing per
// run: a run that would leave the surface is skipped entirely, never
// clipped. Malformed counts are the decoder's problem; by the time a batch
// reaches here every entry is structurally valid.
func Apply(buf *protocol.UpdateBuffer, dst surface.Surface) int {
	switch buf.Kind() {
	case protocol.KindPixel:
		return applyPixels(buf.Pixels(), dst)
	case protocol.KindRun:
		return applyRuns(buf.Runs(), dst)
	default:
		return 0
	}
}

func applyPixels(entries []protocol.PixelEntry, dst surface.Surface) int {
	w, h := dst.Width(), dst.Height()
	applied := 0
	for _, e := range entries {
		x, y := int(e.X), int(e.Y)
		if x >= w || y >= h {
			continue
		}
		dst.SetPixel(x, y, e.Color)
		applied++
	}
	return applied
}

func applyRuns(entries []protocol.RunEntry, dst surface.Surface) int {
	w, h := dst.Width(), dst.Height()
	applied := 0
	for _, e := range entries {
		x0, y, length := int(e.X0), int(e.Y), int(e.Length)
		if y >= h || length == 0 || x0 >= w || x0+length > w {
			continue
		}
		dst.FillRow(x0, y, length, e.Color)
		applied += length
	}
	return applied
}
