package protocol

import "encoding/binary"

// EncodeHeader appends the 11-byte packet header for kind to dst.
func EncodeHeader(dst []byte, kind Kind, frameID uint32, count uint16) []byte {
	magic := MagicPixel
	if kind == KindRun {
		magic = MagicRun
	}
	dst = append(dst, magic[:]...)
	dst = append(dst, expectedVersion(kind))
	dst = binary.LittleEndian.AppendUint32(dst, frameID)
	dst = binary.LittleEndian.AppendUint16(dst, count)
	return dst
}

// AppendPixelEntry appends one 6-byte pixel body entry to dst.
func AppendPixelEntry(dst []byte, e PixelEntry) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, e.X)
	dst = binary.LittleEndian.AppendUint16(dst, e.Y)
	dst = binary.LittleEndian.AppendUint16(dst, e.Color)
	return dst
}

// AppendRunEntry appends one 8-byte run body entry to dst.
func AppendRunEntry(dst []byte, e RunEntry) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, e.Y)
	dst = binary.LittleEndian.AppendUint16(dst, e.X0)
	dst = binary.LittleEndian.AppendUint16(dst, e.Length)
	dst = binary.LittleEndian.AppendUint16(dst, e.Color)
	return dst
}

// EncodePixelFrame builds one complete PXUP packet.
func EncodePixelFrame(frameID uint32, entries []PixelEntry) []byte {
	out := make([]byte, 0, HeaderLen+len(entries)*PixelEntrySize)
	out = EncodeHeader(out, KindPixel, frameID, uint16(len(entries)))
	for _, e := range entries {
		out = AppendPixelEntry(out, e)
	}
	return out
}

// EncodeRunFrame builds one complete PXUR packet.
func EncodeRunFrame(frameID uint32, runs []RunEntry) []byte {
	out := make([]byte, 0, HeaderLen+len(runs)*RunEntrySize)
	out = EncodeHeader(out, KindRun, frameID, uint16(len(runs)))
	for _, e := range runs {
		out = AppendRunEntry(out, e)
	}
	return out
}
