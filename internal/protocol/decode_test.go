package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/aisaiev/lilka-desktop-monitor/internal/stream"
	"github.com/aisaiev/lilka-desktop-monitor/internal/testutil/streamtest"
)

func testDecoder() Decoder {
	return Decoder{
		MaxEntries: 280 * 240,
		Read: stream.Config{
			PollInterval: time.Millisecond,
			MaxWait:      50 * time.Millisecond,
		},
	}
}

func TestDecodePixelFrameRoundTrip(t *testing.T) {
	packet := EncodePixelFrame(7, []PixelEntry{{X: 0, Y: 0, Color: 0xFFFF}})
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	h, ok, err := testDecoder().DecodeNext(tr, &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok {
		t.Fatalf("expected a decoded frame")
	}
	if h.Kind != KindPixel || h.Version != PixelVersion || h.FrameID != 7 || h.EntryCount != 1 {
		t.Fatalf("header mismatch: %+v", h)
	}
	if buf.Kind() != KindPixel || buf.Len() != 1 {
		t.Fatalf("buffer mismatch: kind=%v len=%d", buf.Kind(), buf.Len())
	}
	if e := buf.Pixels()[0]; e != (PixelEntry{X: 0, Y: 0, Color: 0xFFFF}) {
		t.Fatalf("entry mismatch: %+v", e)
	}
}

func TestDecodeRunFrameRoundTrip(t *testing.T) {
	packet := EncodeRunFrame(99, []RunEntry{{Y: 10, X0: 5, Length: 20, Color: 0x07E0}})
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	h, ok, err := testDecoder().DecodeNext(tr, &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok {
		t.Fatalf("expected a decoded frame")
	}
	if h.Kind != KindRun || h.Version != RunVersion || h.FrameID != 99 || h.EntryCount != 1 {
		t.Fatalf("header mismatch: %+v", h)
	}
	if e := buf.Runs()[0]; e != (RunEntry{Y: 10, X0: 5, Length: 20, Color: 0x07E0}) {
		t.Fatalf("entry mismatch: %+v", e)
	}
}

func TestDecodePartialArrivals(t *testing.T) {
	packet := EncodePixelFrame(3, []PixelEntry{
		{X: 1, Y: 2, Color: 3},
		{X: 4, Y: 5, Color: 6},
	})
	tr := streamtest.New(packet)
	tr.SetChunk(1)
	var buf UpdateBuffer

	_, ok, err := testDecoder().DecodeNext(tr, &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok || buf.Len() != 2 {
		t.Fatalf("expected 2 entries, got ok=%v len=%d", ok, buf.Len())
	}
}

func TestDecodeIncompleteConsumesNothing(t *testing.T) {
	packet := EncodePixelFrame(1, []PixelEntry{{X: 1, Y: 1, Color: 1}})
	tr := streamtest.New(packet[:HeaderLen-1])
	var buf UpdateBuffer

	h, ok, err := testDecoder().DecodeNext(tr, &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok {
		t.Fatalf("expected incomplete, got header %+v", h)
	}
	if tr.Consumed() != 0 {
		t.Fatalf("incomplete decode consumed %d bytes", tr.Consumed())
	}
}

func TestDecodeBadMagic(t *testing.T) {
	script := append([]byte("XXXX"), make([]byte, 16)...)
	tr := streamtest.New(script)
	var buf UpdateBuffer

	_, _, err := testDecoder().DecodeNext(tr, &buf)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	packet := EncodePixelFrame(1, nil)
	packet[4] = 0x05
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	_, _, err := testDecoder().DecodeNext(tr, &buf)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeRunVersionIsNotPixelVersion(t *testing.T) {
	// A run packet carrying the pixel version byte is fatal.
	packet := EncodeRunFrame(1, nil)
	packet[4] = PixelVersion
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	_, _, err := testDecoder().DecodeNext(tr, &buf)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	packet := EncodePixelFrame(42, nil)
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	h, ok, err := testDecoder().DecodeNext(tr, &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok || h.FrameID != 42 || h.EntryCount != 0 {
		t.Fatalf("expected empty frame 42, got ok=%v header=%+v", ok, h)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty frame left %d entries in buffer", buf.Len())
	}
}

func TestDecodeCountTooLarge(t *testing.T) {
	// Count bound is the surface area; a 16x16 target makes it reachable
	// within uint16 range.
	dec := testDecoder()
	dec.MaxEntries = 16 * 16

	entries := make([]PixelEntry, 300)
	packet := EncodePixelFrame(1, entries)
	tr := streamtest.New(packet)
	var buf UpdateBuffer

	_, _, err := dec.DecodeNext(tr, &buf)
	if !errors.Is(err, ErrCountTooLarge) {
		t.Fatalf("expected ErrCountTooLarge, got %v", err)
	}
}

func TestDecodeTruncatedBody(t *testing.T) {
	packet := EncodePixelFrame(1, []PixelEntry{
		{X: 1, Y: 1, Color: 1},
		{X: 2, Y: 2, Color: 2},
	})
	// Peer dies one byte short of the second entry.
	tr := streamtest.NewClosing(packet[:len(packet)-1])
	var buf UpdateBuffer

	_, _, err := testDecoder().DecodeNext(tr, &buf)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeBufferGrowthRefused(t *testing.T) {
	packet := EncodePixelFrame(1, make([]PixelEntry, 10))
	tr := streamtest.New(packet)
	buf := UpdateBuffer{Limit: 4}

	_, _, err := testDecoder().DecodeNext(tr, &buf)
	if !errors.Is(err, ErrBufferAlloc) {
		t.Fatalf("expected ErrBufferAlloc, got %v", err)
	}
}
