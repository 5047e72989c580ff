package stream

import (
	"errors"
	"net"
	"os"
	"time"
)

// probeWindow is the deadline applied to socket reads so that Read and
// Buffered stay near-non-blocking for the caller's poll loop.
const probeWindow = 5 * time.Millisecond

// ConnTransport adapts a net.Conn to the Transport contract.
//
// Bytes are pulled from the socket in short deadline-bounded probes into an
// internal buffer, which is what Buffered reports against. Not safe for
// concurrent use; only the session loop reads from it.
type ConnTransport struct {
	conn    net.Conn
	buf     []byte
	off     int
	scratch [4096]byte
	down    bool
}

func NewConnTransport(conn net.Conn) *ConnTransport {
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	return &ConnTransport{conn: conn}
}

func (t *ConnTransport) Connected() bool {
	return !t.down
}

func (t *ConnTransport) Buffered() int {
	t.probe()
	return len(t.buf) - t.off
}

func (t *ConnTransport) Read(p []byte) (int, error) {
	if t.off >= len(t.buf) {
		t.probe()
	}
	if t.off < len(t.buf) {
		n := copy(p, t.buf[t.off:])
		t.off += n
		if t.off >= len(t.buf) {
			t.buf = t.buf[:0]
			t.off = 0
		}
		return n, nil
	}
	if t.down {
		return 0, ErrDisconnected
	}
	return 0, nil
}

func (t *ConnTransport) Close() error {
	t.down = true
	return t.conn.Close()
}

// probe drains whatever the socket has ready into the internal buffer.
func (t *ConnTransport) probe() {
	if t.down {
		return
	}
	_ = t.conn.SetReadDeadline(time.Now().Add(probeWindow))
	n, err := t.conn.Read(t.scratch[:])
	if n > 0 {
		t.buf = append(t.buf, t.scratch[:n]...)
	}
	if err != nil && !isTimeout(err) {
		t.down = true
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
