package protocol

// Wire layout constants. Both packet kinds share the 11-byte header shape:
// magic (4) + version (1) + frame_id (uint32 LE) + entry_count (uint16 LE).
const (
	HeaderLen = 11

	PixelVersion uint8 = 0x02
	RunVersion   uint8 = 0x01

	PixelEntrySize = 6
	RunEntrySize   = 8
)

var (
	MagicPixel = [4]byte{'P', 'X', 'U', 'P'}
	MagicRun   = [4]byte{'P', 'X', 'U', 'R'}
)

// Kind tags one decoded batch as per-pixel or run-length updates.
type Kind uint8

const (
	KindPixel Kind = iota
	KindRun
)

func (k Kind) String() string {
	switch k {
	case KindPixel:
		return "pixel"
	case KindRun:
		return "run"
	default:
		return "unknown"
	}
}

// Header is the shared packet header after magic dispatch.
type Header struct {
	Kind       Kind
	Version    uint8
	FrameID    uint32
	EntryCount uint16
}

// PixelEntry is one absolute pixel write: x (u16 LE), y (u16 LE),
// color (u16 LE, RGB565 as far as this layer is concerned).
type PixelEntry struct {
	X     uint16
	Y     uint16
	Color uint16
}

// RunEntry is one horizontal same-color span: y (u16 LE), x0 (u16 LE),
// length (u16 LE), color (u16 LE).
type RunEntry struct {
	Y      uint16
	X0     uint16
	Length uint16
	Color  uint16
}
