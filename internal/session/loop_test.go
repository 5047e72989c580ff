package session_test

import (
	"errors"
	"testing"

	"github.com/aisaiev/lilka-desktop-monitor/internal/protocol"
	"github.com/aisaiev/lilka-desktop-monitor/internal/session"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
	"github.com/aisaiev/lilka-desktop-monitor/internal/testutil/streamtest"
	"github.com/aisaiev/lilka-desktop-monitor/internal/testutil/testlog"
)

func newLoop(w, h int) (*session.Loop, *surface.Framebuffer) {
	fb := surface.NewFramebuffer(w, h)
	return session.New(fb, session.DefaultConfig()), fb
}

func stepFrame(t *testing.T, loop *session.Loop) {
	t.Helper()
	decoded, alive, err := loop.Step()
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !decoded || !alive {
		t.Fatalf("expected a decoded frame on a live connection, got decoded=%v alive=%v", decoded, alive)
	}
}

func TestLoopAppliesPixelFrame(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(280, 240)
	packet := protocol.EncodePixelFrame(7, []protocol.PixelEntry{{X: 0, Y: 0, Color: 0xFFFF}})
	loop.Attach(streamtest.New(packet))

	stepFrame(t, loop)

	if fb.Pixel(0, 0) != 0xFFFF {
		t.Fatalf("pixel not drawn")
	}
	stats := loop.Stats()
	if stats.FramesReceived != 1 || stats.UpdatesApplied != 1 || stats.LastFrameID != 7 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
}

func TestLoopAppliesRunFrame(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(280, 240)
	packet := protocol.EncodeRunFrame(3, []protocol.RunEntry{
		{Y: 10, X0: 5, Length: 20, Color: 0x07E0},
	})
	loop.Attach(streamtest.New(packet))

	stepFrame(t, loop)

	for x := 5; x < 25; x++ {
		if fb.Pixel(x, 10) != 0x07E0 {
			t.Fatalf("span missed x=%d", x)
		}
	}
	if stats := loop.Stats(); stats.UpdatesApplied != 20 {
		t.Fatalf("updates applied: %d want 20", stats.UpdatesApplied)
	}
}

func TestLoopRejectedRunCountsFrameOnly(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(280, 240)
	packet := protocol.EncodeRunFrame(4, []protocol.RunEntry{
		{Y: 10, X0: 270, Length: 20, Color: 0xFFFF},
	})
	loop.Attach(streamtest.New(packet))

	stepFrame(t, loop)

	stats := loop.Stats()
	if stats.FramesReceived != 1 || stats.UpdatesApplied != 0 || stats.LastFrameID != 4 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
	for x := 270; x < 280; x++ {
		if fb.Pixel(x, 10) != 0 {
			t.Fatalf("rejected run touched the surface at x=%d", x)
		}
	}
}

func TestLoopEmptyFrameCountsWithoutWrites(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(16, 16)
	loop.Attach(streamtest.New(protocol.EncodePixelFrame(12, nil)))

	stepFrame(t, loop)

	stats := loop.Stats()
	if stats.FramesReceived != 1 || stats.UpdatesApplied != 0 || stats.LastFrameID != 12 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if fb.Pixel(x, y) != 0 {
				t.Fatalf("empty frame wrote (%d,%d)", x, y)
			}
		}
	}
}

func TestLoopBadMagicTearsDown(t *testing.T) {
	testlog.Start(t)
	loop, _ := newLoop(280, 240)
	tr := streamtest.New(append([]byte("XXXX"), make([]byte, 16)...))
	loop.Attach(tr)

	_, alive, err := loop.Step()
	if !errors.Is(err, protocol.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if alive || loop.Connected() {
		t.Fatalf("connection survived bad magic")
	}
	if !tr.Closed() {
		t.Fatalf("transport not torn down")
	}
	if stats := loop.Stats(); stats.FramesReceived != 0 {
		t.Fatalf("bad magic counted a frame: %+v", stats)
	}
}

func TestLoopCountTooLargeTearsDownWithoutWrites(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(16, 16)
	tr := streamtest.New(protocol.EncodePixelFrame(1, make([]protocol.PixelEntry, 300)))
	loop.Attach(tr)

	_, alive, err := loop.Step()
	if !errors.Is(err, protocol.ErrCountTooLarge) {
		t.Fatalf("expected ErrCountTooLarge, got %v", err)
	}
	if alive || !tr.Closed() {
		t.Fatalf("connection survived oversized count")
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if fb.Pixel(x, y) != 0 {
				t.Fatalf("rejected frame wrote (%d,%d)", x, y)
			}
		}
	}
}

func TestLoopTruncatedBodyLeavesSurfaceUntouched(t *testing.T) {
	testlog.Start(t)
	loop, fb := newLoop(16, 16)
	packet := protocol.EncodePixelFrame(1, []protocol.PixelEntry{
		{X: 1, Y: 1, Color: 0xFFFF},
		{X: 2, Y: 2, Color: 0xFFFF},
	})
	loop.Attach(streamtest.NewClosing(packet[:len(packet)-3]))

	_, _, err := loop.Step()
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if fb.Pixel(1, 1) != 0 {
		t.Fatalf("partially decoded frame reached the surface")
	}
}

func TestLoopIncompleteKeepsConnection(t *testing.T) {
	testlog.Start(t)
	loop, _ := newLoop(16, 16)
	loop.Attach(streamtest.New([]byte("PXUP")))

	decoded, alive, err := loop.Step()
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if decoded || !alive {
		t.Fatalf("partial header should leave connection idle: decoded=%v alive=%v", decoded, alive)
	}
	if !loop.Connected() {
		t.Fatalf("connection dropped on incomplete header")
	}
}

func TestLoopDisconnectReturnsToIdle(t *testing.T) {
	testlog.Start(t)
	loop, _ := newLoop(16, 16)
	loop.Attach(streamtest.NewClosing(nil))

	_, alive, err := loop.Step()
	if err != nil {
		t.Fatalf("clean disconnect returned error: %v", err)
	}
	if alive || loop.Connected() {
		t.Fatalf("loop not idle after disconnect")
	}
}

func TestLoopStatsResetOnAttach(t *testing.T) {
	testlog.Start(t)
	loop, _ := newLoop(280, 240)
	loop.Attach(streamtest.New(protocol.EncodePixelFrame(9, []protocol.PixelEntry{{X: 1, Y: 1, Color: 1}})))
	stepFrame(t, loop)
	if stats := loop.Stats(); stats.FramesReceived != 1 {
		t.Fatalf("precondition failed: %+v", stats)
	}

	loop.Attach(streamtest.New(nil))
	if stats := loop.Stats(); stats != (session.Stats{}) {
		t.Fatalf("stats not reset on attach: %+v", stats)
	}
}

func TestLoopMultipleFramesAccumulate(t *testing.T) {
	testlog.Start(t)
	loop, _ := newLoop(280, 240)
	var script []byte
	script = append(script, protocol.EncodePixelFrame(1, []protocol.PixelEntry{{X: 1, Y: 1, Color: 1}})...)
	script = append(script, protocol.EncodeRunFrame(2, []protocol.RunEntry{{Y: 0, X0: 0, Length: 10, Color: 2}})...)
	script = append(script, protocol.EncodePixelFrame(3, nil)...)
	loop.Attach(streamtest.New(script))

	for i := 0; i < 3; i++ {
		stepFrame(t, loop)
	}
	stats := loop.Stats()
	if stats.FramesReceived != 3 || stats.UpdatesApplied != 11 || stats.LastFrameID != 3 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
}
