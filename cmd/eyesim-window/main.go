// eyesim-window - the eyesim viewer in a desktop window.
//
// Controls:
//
//	Left drag   - Look around
//	Wheel       - Zoom in/out
//	W/S         - Move forward/backward
//	A/D         - Strafe left/right
//	Space/Shift - Move up/down
//	F12         - Save a PNG snapshot of the current frame
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/taigrr/eyesim/pkg/config"
	"github.com/taigrr/eyesim/pkg/input"
	"github.com/taigrr/eyesim/pkg/math3d"
	"github.com/taigrr/eyesim/pkg/render"
	"github.com/taigrr/eyesim/pkg/scene"
)

// crosshairSize is the side of the view centre marker in pixels.
const crosshairSize = 6

var keys = map[string]ebiten.Key{
	"w":     ebiten.KeyW,
	"s":     ebiten.KeyS,
	"a":     ebiten.KeyA,
	"d":     ebiten.KeyD,
	"space": ebiten.KeySpace,
	"shift": ebiten.KeyShift,
}

var errQuit = errors.New("quit")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Ticks per second")
	flag.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "Paint cell size in pixels")
	flag.Float64Var(&cfg.FOVDegrees, "fov", cfg.FOVDegrees, "Horizontal field of view in degrees")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for demo triangles")
	flag.IntVar(&cfg.Triangles, "triangles", cfg.Triangles, "Random translucent triangles to add")
	scale := flag.Int("scale", 2, "Window pixels per frame pixel")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eyesim-window - Ray-Casting Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: eyesim-window [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 {
		cfg.Scene = flag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, max(*scale, 1)); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, scale int) error {
	log, closer, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	render.SetLogger(log)

	rcfg := cfg.Render(render.DefaultConfig().Width, render.DefaultConfig().Height)
	sc := render.NewScene(render.NewCamera(rcfg.Camera))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	if err := scene.Build(sc, cfg.Scene, rng, cfg.Triangles); err != nil {
		return err
	}

	renderer, err := render.NewRenderer(rcfg, sc)
	if err != nil {
		return err
	}
	log.Info("starting", "renderer", renderer.String())

	g := &game{
		ctrl: input.NewController(renderer, cfg.FPS),
		fb:   render.NewFramebuffer(rcfg.Width, rcfg.Height),
	}

	ebiten.SetWindowTitle("eyesim")
	ebiten.SetWindowSize(rcfg.Width*scale, rcfg.Height*scale)
	ebiten.SetTPS(cfg.FPS)
	return ebiten.RunGame(g)
}

// game renders one frame per tick into a Framebuffer and uploads it in Draw.
type game struct {
	ctrl  *input.Controller
	fb    *render.Framebuffer
	fbImg *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		path := fmt.Sprintf("eyesim-%s.png", time.Now().Format("20060102-150405"))
		if err := g.fb.SavePNG(path); err != nil {
			render.Logger().Warn("snapshot failed", "path", path, "err", err)
		} else {
			render.Logger().Info("snapshot written", "path", path)
		}
	}

	for name, key := range keys {
		switch {
		case inpututil.IsKeyJustPressed(key):
			g.ctrl.Press(name)
		case inpututil.IsKeyJustReleased(key):
			g.ctrl.Release(name)
		}
	}

	x, y := ebiten.CursorPosition()
	cursor := math3d.V2(float64(x), float64(y))
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.ctrl.MouseDown(cursor)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.ctrl.MouseUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.ctrl.MouseMove(cursor)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.ctrl.Scroll(dy * input.WheelNotch)
	}

	g.fb.Clear(render.ColorWhite)
	g.ctrl.Tick(g.fb)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}
	g.fbImg.WritePixels(g.fb.ToImage().Pix)
	screen.DrawImage(g.fbImg, nil)

	cx := float32(g.fb.Width/2 - crosshairSize/2)
	cy := float32(g.fb.Height/2 - crosshairSize/2)
	vector.DrawFilledRect(screen, cx, cy, crosshairSize, crosshairSize, render.ColorBlack, false)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}
