// pxfeed generates PXUP/PXUR traffic against a running receiver. It is a
// developer tool: wipe the surface, draw moving color bars, or sprinkle
// random pixels at a fixed frame rate.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/aisaiev/lilka-desktop-monitor/internal/observability"
	"github.com/aisaiev/lilka-desktop-monitor/internal/protocol"
	"github.com/aisaiev/lilka-desktop-monitor/internal/surface"
)

type options struct {
	addr   string
	mode   string
	width  int
	height int
	frames int
	fps    int
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "127.0.0.1:8090", "receiver address")
	flag.StringVar(&opts.mode, "mode", "bars", "feed mode: wipe, bars, sparkle")
	flag.IntVar(&opts.width, "width", 280, "surface width")
	flag.IntVar(&opts.height, "height", 240, "surface height")
	flag.IntVar(&opts.frames, "frames", 300, "frames to send, 0 runs forever")
	flag.IntVar(&opts.fps, "fps", 30, "target frame rate")
	flag.Parse()

	logger := observability.InitLogger("pxfeed")

	conn, err := net.Dial("tcp", opts.addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pxfeed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info().Str("addr", opts.addr).Str("mode", opts.mode).Msg("connected")

	if err := run(conn, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pxfeed: %v\n", err)
		os.Exit(1)
	}
}

func run(conn net.Conn, opts options) error {
	// Start every session with a full wipe so previous content is gone.
	frameID := uint32(1)
	if err := send(conn, wipeFrame(frameID, opts, 0x0000)); err != nil {
		return err
	}
	if opts.mode == "wipe" {
		return nil
	}

	interval := time.Second / time.Duration(max(opts.fps, 1))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; opts.frames == 0 || i < opts.frames; i++ {
		frameID++
		var packet []byte
		switch opts.mode {
		case "sparkle":
			packet = sparkleFrame(frameID, opts, rng)
		default:
			packet = barsFrame(frameID, opts, i)
		}
		if err := send(conn, packet); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	return nil
}

func send(conn net.Conn, packet []byte) error {
	_, err := conn.Write(packet)
	return err
}

func wipeFrame(frameID uint32, opts options, color uint16) []byte {
	runs := make([]protocol.RunEntry, 0, opts.height)
	for y := 0; y < opts.height; y++ {
		runs = append(runs, protocol.RunEntry{
			Y:      uint16(y),
			X0:     0,
			Length: uint16(opts.width),
			Color:  color,
		})
	}
	return protocol.EncodeRunFrame(frameID, runs)
}

func barsFrame(frameID uint32, opts options, tick int) []byte {
	palette := []uint16{
		surface.PackRGB565(0xFF, 0x00, 0x00),
		surface.PackRGB565(0x00, 0xFF, 0x00),
		surface.PackRGB565(0x00, 0x00, 0xFF),
		surface.PackRGB565(0xFF, 0xFF, 0x00),
		surface.PackRGB565(0xFF, 0xFF, 0xFF),
	}
	barWidth := max(opts.width/len(palette), 1)
	runs := make([]protocol.RunEntry, 0, opts.height*len(palette))
	for y := 0; y < opts.height; y++ {
		for x := 0; x < opts.width; x += barWidth {
			length := min(barWidth, opts.width-x)
			color := palette[((x/barWidth)+tick)%len(palette)]
			runs = append(runs, protocol.RunEntry{
				Y:      uint16(y),
				X0:     uint16(x),
				Length: uint16(length),
				Color:  color,
			})
		}
	}
	return protocol.EncodeRunFrame(frameID, runs)
}

func sparkleFrame(frameID uint32, opts options, rng *rand.Rand) []byte {
	const perFrame = 512
	entries := make([]protocol.PixelEntry, 0, perFrame)
	for i := 0; i < perFrame; i++ {
		entries = append(entries, protocol.PixelEntry{
			X:     uint16(rng.Intn(opts.width)),
			Y:     uint16(rng.Intn(opts.height)),
			Color: uint16(rng.Intn(0x10000)),
		})
	}
	return protocol.EncodePixelFrame(frameID, entries)
}
