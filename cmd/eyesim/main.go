// eyesim - walk through a scene of flat polygons in your terminal.
// Every frame casts one ray per cell and paints the polygons it crosses,
// farthest first.
//
// Controls:
//
//	Mouse drag  - Look around
//	Scroll      - Zoom in/out
//	W/S         - Move forward/backward
//	A/D         - Strafe left/right
//	Space       - Move up
//	Shift/X     - Move down
//	+/-         - Adjust zoom
//	Esc, Q      - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/eyesim/pkg/config"
	"github.com/taigrr/eyesim/pkg/input"
	"github.com/taigrr/eyesim/pkg/math3d"
	"github.com/taigrr/eyesim/pkg/render"
	"github.com/taigrr/eyesim/pkg/scene"
)

// crosshairSize is the side of the view centre marker in framebuffer pixels.
const crosshairSize = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target FPS")
	flag.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "Paint cell size in pixels")
	flag.Float64Var(&cfg.FOVDegrees, "fov", cfg.FOVDegrees, "Horizontal field of view in degrees")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for demo triangles")
	flag.IntVar(&cfg.Triangles, "triangles", cfg.Triangles, "Random translucent triangles to add")
	snapshot := flag.String("snapshot", "", "Render one frame to this PNG file and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eyesim - Terminal Ray-Casting Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: eyesim [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move and strafe\n")
		fmt.Fprintf(os.Stderr, "  Space       - Move up\n")
		fmt.Fprintf(os.Stderr, "  Shift/X     - Move down\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment variables EYESIM_* set the defaults.\n")
	}
	flag.Parse()

	if flag.NArg() > 0 {
		cfg.Scene = flag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *snapshot != "" {
		err = runSnapshot(cfg, *snapshot)
	} else {
		err = run(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newScene builds the scene described by cfg, viewed by a camera at the
// origin.
func newScene(cfg *config.Config) (*render.Scene, error) {
	s := render.NewScene(render.NewCamera(cfg.Render(1, 1).Camera))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	if err := scene.Build(s, cfg.Scene, rng, cfg.Triangles); err != nil {
		return nil, err
	}
	return s, nil
}

func drawFrame(fb *render.Framebuffer, tick func(render.Sink) render.FrameStats) render.FrameStats {
	fb.Clear(render.ColorWhite)
	stats := tick(fb)
	fb.DrawCrosshair(crosshairSize, render.ColorBlack)
	return stats
}

func runSnapshot(cfg *config.Config, path string) error {
	log, closer, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	render.SetLogger(log)

	sc, err := newScene(cfg)
	if err != nil {
		return err
	}
	rcfg := cfg.Render(render.DefaultConfig().Width, render.DefaultConfig().Height)
	renderer, err := render.NewRenderer(rcfg, sc)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(rcfg.Width, rcfg.Height)
	stats := drawFrame(fb, renderer.Render)
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Info("snapshot written", "path", path, "renderer", renderer.String(), "hits", stats.Hits)
	return nil
}

func run(cfg *config.Config) error {
	// The terminal is the display, so only log when a log file is set.
	log, closer, err := cfg.Logger(nil)
	if err != nil {
		return err
	}
	defer closer.Close()
	render.SetLogger(log)

	sc, err := newScene(cfg)
	if err != nil {
		return err
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	renderer, err := render.NewRenderer(cfg.Render(fbWidth, fbHeight), sc)
	if err != nil {
		cleanup()
		return err
	}

	ctrl := input.NewController(renderer, cfg.FPS)
	// Most terminals report key repeats but no releases, and never a lone
	// shift, so held keys time out and X also moves down.
	ctrl.HoldTicks = max(cfg.FPS/2, 1)
	ctrl.Bindings["x"] = render.Down
	log.Info("starting", "renderer", renderer.String())

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are handled on the render loop so the controller and the
	// framebuffer are only touched from one goroutine.
	events := make(chan any, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	handle := func(ev any) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			next, err := render.NewRenderer(cfg.Render(fbWidth, fbHeight), sc)
			if err != nil {
				log.Warn("resize rejected", "width", fbWidth, "height", fbHeight, "err", err)
				return
			}
			ctrl.SetRenderer(next)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c", "q"):
				cancel()
			case ev.MatchString("+", "="):
				ctrl.Scroll(input.WheelNotch)
			case ev.MatchString("-", "_"):
				ctrl.Scroll(-input.WheelNotch)
			default:
				for key := range ctrl.Bindings {
					if ev.MatchString(key) {
						ctrl.Press(key)
					}
				}
			}

		case uv.KeyReleaseEvent:
			for key := range ctrl.Bindings {
				if ev.MatchString(key) {
					ctrl.Release(key)
				}
			}

		case uv.MouseClickEvent:
			ctrl.MouseDown(cellToPixel(ev.X, ev.Y))

		case uv.MouseMotionEvent:
			ctrl.MouseMove(cellToPixel(ev.X, ev.Y))

		case uv.MouseReleaseEvent:
			ctrl.MouseUp()

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				ctrl.Scroll(input.WheelNotch)
			case uv.MouseWheelDown:
				ctrl.Scroll(-input.WheelNotch)
			}
		}
	}

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)

	for {
		now := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev := <-events:
				handle(ev)
			default:
				break drain
			}
		}

		drawFrame(fb, ctrl.Tick)

		// Display
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// cellToPixel maps a terminal cell to framebuffer pixels; each cell is one
// pixel wide and two tall.
func cellToPixel(x, y int) math3d.Vec2 {
	return math3d.V2(float64(x), float64(y*2))
}
