// Package streamtest provides a scripted in-memory transport for decode and
// session tests.
package streamtest

import "io"

// Transport replays a fixed byte script as a stream.Transport. The zero
// cut value (-1 via New) keeps the peer connected after the script drains;
// CutAt simulates the peer going away once a byte offset is reached.
type Transport struct {
	data   []byte
	off    int
	chunk  int
	closed bool
	cut    int
}

func New(data []byte) *Transport {
	return &Transport{data: data, cut: -1}
}

// NewClosing returns a transport whose peer disconnects exactly when the
// script is exhausted.
func NewClosing(data []byte) *Transport {
	return &Transport{data: data, cut: len(data)}
}

// SetChunk caps how many bytes a single Read returns, to exercise partial
// arrival handling. Zero means unlimited.
func (t *Transport) SetChunk(n int) {
	t.chunk = n
}

// CutAt marks the peer disconnected once off bytes have been consumed.
func (t *Transport) CutAt(off int) {
	t.cut = off
}

// Consumed reports how many script bytes have been read so far.
func (t *Transport) Consumed() int {
	return t.off
}

// Closed reports whether Close was called locally.
func (t *Transport) Closed() bool {
	return t.closed
}

func (t *Transport) Connected() bool {
	if t.closed {
		return false
	}
	return t.cut < 0 || t.off < t.cut
}

func (t *Transport) Buffered() int {
	end := len(t.data)
	if t.cut >= 0 && t.cut < end {
		end = t.cut
	}
	if t.off >= end {
		return 0
	}
	return end - t.off
}

func (t *Transport) Read(p []byte) (int, error) {
	if !t.Connected() {
		return 0, io.EOF
	}
	avail := t.Buffered()
	if avail == 0 {
		return 0, nil
	}
	n := len(p)
	if n > avail {
		n = avail
	}
	if t.chunk > 0 && n > t.chunk {
		n = t.chunk
	}
	copy(p, t.data[t.off:t.off+n])
	t.off += n
	return n, nil
}

func (t *Transport) Close() error {
	t.closed = true
	return nil
}
