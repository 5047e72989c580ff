package protocol

// UpdateBuffer is the reusable decode target for one connection.
//
// Capacity only grows for the lifetime of the buffer; a later frame that
// needs fewer entries reuses the existing backing storage. Content beyond
// Len is stale and must not be read. The buffer is lent to the decoder for
// filling and to the compositor for draining, never concurrently.
type UpdateBuffer struct {
	// Limit optionally caps how many entries a single frame may occupy.
	// Zero means no cap beyond the decoder's own count bound.
	Limit int

	kind   Kind
	count  int
	pixels []PixelEntry
	runs   []RunEntry
}

// EnsureCapacity prepares the buffer to hold n entries of the given kind
// and resets Len to zero. It reports false when growth is refused; the
// previously held storage stays intact and usable in that case.
func (b *UpdateBuffer) EnsureCapacity(kind Kind, n int) bool {
	if n < 0 || (b.Limit > 0 && n > b.Limit) {
		return false
	}
	switch kind {
	case KindPixel:
		if cap(b.pixels) < n {
			b.pixels = make([]PixelEntry, n)
		}
		b.pixels = b.pixels[:cap(b.pixels)]
	case KindRun:
		if cap(b.runs) < n {
			b.runs = make([]RunEntry, n)
		}
		b.runs = b.runs[:cap(b.runs)]
	default:
		return false
	}
	b.kind = kind
	b.count = 0
	return true
}

func (b *UpdateBuffer) Kind() Kind {
	return b.kind
}

// Len is the number of entries decoded for the current frame.
func (b *UpdateBuffer) Len() int {
	return b.count
}

// PixelCap reports backing capacity for pixel entries.
func (b *UpdateBuffer) PixelCap() int {
	return cap(b.pixels)
}

// RunCap reports backing capacity for run entries.
func (b *UpdateBuffer) RunCap() int {
	return cap(b.runs)
}

// Pixels returns the decoded pixel entries of the current frame.
// Valid only while Kind is KindPixel.
func (b *UpdateBuffer) Pixels() []PixelEntry {
	return b.pixels[:b.count]
}

// Runs returns the decoded run entries of the current frame.
// Valid only while Kind is KindRun.
func (b *UpdateBuffer) Runs() []RunEntry {
	return b.runs[:b.count]
}

func (b *UpdateBuffer) appendPixel(e PixelEntry) {
	b.pixels[b.count] = e
	b.count++
}

func (b *UpdateBuffer) appendRun(e RunEntry) {
	b.runs[b.count] = e
	b.count++
}
