package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/aisaiev/lilka-desktop-monitor/internal/stream"
)

// Decoder frames a byte stream into update batches.
type Decoder struct {
	// MaxEntries is the per-frame entry count sanity bound, normally the
	// surface area. A hostile or corrupted count above it is fatal.
	MaxEntries int
	// Read controls polling behavior for the exact-length reads issued
	// once a packet has been committed to.
	Read stream.Config
}

// DecodeNext reads at most one complete packet from t into buf.
//
// ok is false with a nil error when fewer than HeaderLen bytes are buffered;
// nothing is consumed in that case. ok is true when a frame (possibly empty)
// was fully decoded into buf. A non-nil error is connection-fatal: the
// stream is desynchronized and the caller must tear the transport down
// without attempting to skip the undelivered body.
func (d Decoder) DecodeNext(t stream.Transport, buf *UpdateBuffer) (Header, bool, error) {
	if t.Buffered() < HeaderLen {
		return Header{}, false, nil
	}

	var magic [4]byte
	if err := stream.ReadExact(t, magic[:], d.Read); err != nil {
		return Header{}, false, fmt.Errorf("%w: magic: %v", ErrTruncated, err)
	}
	var kind Kind
	switch magic {
	case MagicPixel:
		kind = KindPixel
	case MagicRun:
		kind = KindRun
	default:
		return Header{}, false, fmt.Errorf("%w: % x", ErrBadMagic, magic[:])
	}

	var rest [HeaderLen - 4]byte
	if err := stream.ReadExact(t, rest[:], d.Read); err != nil {
		return Header{}, false, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	h := Header{
		Kind:       kind,
		Version:    rest[0],
		FrameID:    binary.LittleEndian.Uint32(rest[1:5]),
		EntryCount: binary.LittleEndian.Uint16(rest[5:7]),
	}
	if h.Version != expectedVersion(kind) {
		return Header{}, false, fmt.Errorf("%w: %s 0x%02x", ErrUnsupportedVersion, kind, h.Version)
	}

	if h.EntryCount == 0 {
		// Valid empty frame; no body follows.
		if !buf.EnsureCapacity(kind, 0) {
			return Header{}, false, ErrBufferAlloc
		}
		return h, true, nil
	}
	if d.MaxEntries > 0 && int(h.EntryCount) > d.MaxEntries {
		return Header{}, false, fmt.Errorf("%w: %d > %d", ErrCountTooLarge, h.EntryCount, d.MaxEntries)
	}
	if !buf.EnsureCapacity(kind, int(h.EntryCount)) {
		return Header{}, false, ErrBufferAlloc
	}

	switch kind {
	case KindPixel:
		var entry [PixelEntrySize]byte
		for i := uint16(0); i < h.EntryCount; i++ {
			if err := stream.ReadExact(t, entry[:], d.Read); err != nil {
				return Header{}, false, fmt.Errorf("%w: pixel body entry %d: %v", ErrTruncated, i, err)
			}
			buf.appendPixel(PixelEntry{
				X:     binary.LittleEndian.Uint16(entry[0:2]),
				Y:     binary.LittleEndian.Uint16(entry[2:4]),
				Color: binary.LittleEndian.Uint16(entry[4:6]),
			})
		}
	case KindRun:
		var entry [RunEntrySize]byte
		for i := uint16(0); i < h.EntryCount; i++ {
			if err := stream.ReadExact(t, entry[:], d.Read); err != nil {
				return Header{}, false, fmt.Errorf("%w: run body entry %d: %v", ErrTruncated, i, err)
			}
			buf.appendRun(RunEntry{
				Y:      binary.LittleEndian.Uint16(entry[0:2]),
				X0:     binary.LittleEndian.Uint16(entry[2:4]),
				Length: binary.LittleEndian.Uint16(entry[4:6]),
				Color:  binary.LittleEndian.Uint16(entry[6:8]),
			})
		}
	}
	return h, true, nil
}

func expectedVersion(k Kind) uint8 {
	if k == KindRun {
		return RunVersion
	}
	return PixelVersion
}
