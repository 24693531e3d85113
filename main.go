// Command xtstub serves a post-mortem GDB Remote Serial Protocol session
// against a single captured Xtensa crash dump, optionally enriched with
// an ELF image's loadable segments.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GoAethereal/cancel"

	"xtstub/rsp"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		logPath  = flag.String("log", "", "post-mortem register+memory dump to ingest (required)")
		elfPath  = flag.String("elf", "", "ELF binary whose loadable segments become memory regions (optional)")
		addr     = flag.String("addr", ":1234", "TCP listen address for the RSP session")
		logLevel = flag.String("loglevel", "error", "none, error, warn, packet")
	)
	flag.Parse()

	level, ok := rsp.Levels[*logLevel]
	if !ok {
		fmt.Fprintf(os.Stderr, "xtstub: unknown -loglevel %q\n", *logLevel)
		return 2
	}
	if *logPath == "" {
		fmt.Fprintln(os.Stderr, "xtstub: -log is required")
		return 2
	}

	cfg := rsp.Config{Kind: "tcp", Endpoint: *addr, LogLevel: level}
	if err := cfg.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "xtstub: %v\n", err)
		return 2
	}

	lg := rsp.NewLogger(os.Stderr, level)

	state, err := ingest(*logPath, *elfPath)
	if err != nil {
		lg.Error("ingest failed: %v", err)
		return 1
	}

	ctx := cancel.New()
	notifyShutdown(ctx)

	accept, err := cfg.Listen(ctx)
	if err != nil {
		lg.Error("listen failed: %v", err)
		return 1
	}

	bridge := rsp.NewStateBridge(state)
	for {
		t, err := accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return 0
			default:
				lg.Error("accept failed: %v", err)
				return 1
			}
		}

		sess := rsp.NewSession(t, bridge, lg)
		lg.Warn("client connected")
		serveErr := sess.Serve(ctx)
		switch {
		case serveErr == rsp.ErrShutdown:
			lg.Warn("client detached cleanly")
			return 0
		case serveErr != nil:
			lg.Error("session ended: %v", serveErr)
		}
	}
}

// ingest builds a DebugState from the required crash log and the
// optional ELF image, in that order, so the RAM region from the crash
// log is always found before any ELF segment at an overlapping address.
func ingest(logPath, elfPath string) (*rsp.DebugState, error) {
	f, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	regs, mem, err := rsp.ParseCrashLog(f)
	if err != nil {
		return nil, err
	}

	state := &rsp.DebugState{Registers: *regs}
	state.AddRegion(mem.Base, mem.Data)

	if elfPath != "" {
		ef, err := os.Open(elfPath)
		if err != nil {
			return nil, err
		}
		defer ef.Close()
		segs, err := rsp.LoadELFSegments(ef)
		if err != nil {
			return nil, err
		}
		for _, seg := range segs {
			state.AddRegion(seg.Base, seg.Data)
		}
	}
	return state, nil
}
