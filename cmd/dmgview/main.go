// Command dmgview is a minimal windowed front-end: it loads a ROM, steps
// the core one frame per Ebiten update, and reads the joypad from the
// keyboard. It has no menu, no audio, and no save-state UI; those are
// non-goals for this core (see SPEC_FULL.md).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pixelcore-dev/dmgcore/internal/machine"
)

type app struct {
	m   *machine.Machine
	tex *ebiten.Image
}

func (a *app) Update() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fatal: %v", r)
		}
	}()

	a.m.SetButtons(machine.Buttons{
		Up:     ebiten.IsKeyPressed(ebiten.KeyW),
		Down:   ebiten.IsKeyPressed(ebiten.KeyS),
		Left:   ebiten.IsKeyPressed(ebiten.KeyA),
		Right:  ebiten.IsKeyPressed(ebiten.KeyD),
		A:      ebiten.IsKeyPressed(ebiten.KeyK),
		B:      ebiten.IsKeyPressed(ebiten.KeyJ),
		Start:  ebiten.IsKeyPressed(ebiten.KeyU),
		Select: ebiten.IsKeyPressed(ebiten.KeyI),
	})
	a.m.StepFrame()
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(screen.Bounds().Dx())/160, float64(screen.Bounds().Dy())/144)
	screen.DrawImage(a.tex, op)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	scale := flag.Int("scale", 3, "window scale")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m, err := machine.New(machine.Config{}, rom)
	if err != nil {
		log.Fatalf("load cartridge: %v", err)
	}

	ebiten.SetWindowTitle("dmgview")
	ebiten.SetWindowSize(160*(*scale), 144*(*scale))
	if err := ebiten.RunGame(&app{m: m}); err != nil {
		log.Fatal(err)
	}
}
