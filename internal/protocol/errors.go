package protocol

import "errors"

// Connection-fatal decode errors. Any of these desynchronizes the byte
// stream; the only recovery is tearing the transport down.
var (
	ErrBadMagic           = errors.New("protocol: invalid magic")
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
	ErrCountTooLarge      = errors.New("protocol: entry count exceeds surface area")
	ErrTruncated          = errors.New("protocol: truncated packet")
	ErrBufferAlloc        = errors.New("protocol: update buffer growth failed")
)

// ErrorReason maps a fatal decode error to a stable metric/log label.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrCountTooLarge):
		return "count_too_large"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrBufferAlloc):
		return "buffer_alloc"
	default:
		return "transport"
	}
}
