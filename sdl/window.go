package sdl

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/view"
)

// Window shows a grid as a heat map, one texture pixel per cell.
type Window struct {
	Size     int
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
}

// NewWindow opens a window scaled so that the grid is roughly side pixels wide.
func NewWindow(size, side int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl: init: %w", err)
	}
	scale := side / size
	if scale < 1 {
		scale = 1
	}
	window, err := sdl.CreateWindow("Relaxation", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(size*scale), int32(size*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl: create renderer: %w", err)
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, int32(size), int32(size))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl: create texture: %w", err)
	}
	return &Window{
		Size:     size,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, size*size*4),
	}, nil
}

// Draw copies g into the texture and presents it.
func (w *Window) Draw(g *relax.Grid) error {
	if g.Size != w.Size {
		return fmt.Errorf("sdl: grid is %d wide, window expects %d", g.Size, w.Size)
	}
	for i, v := range g.Cells {
		r, gr, b := view.HeatRGB(v)
		// ARGB8888 is stored little-endian as B, G, R, A.
		w.pixels[4*i] = b
		w.pixels[4*i+1] = gr
		w.pixels[4*i+2] = r
		w.pixels[4*i+3] = 0xFF
	}
	if err := w.texture.Update(nil, w.pixels, w.Size*4); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

// SetTitle shows the iteration count in the title bar.
func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}

// Destroy releases the window and shuts SDL down.
func (w *Window) Destroy() {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}

// quitRequested drains pending SDL events and reports a close or q/Escape.
func quitRequested() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && (e.Keysym.Sym == sdl.K_q || e.Keysym.Sym == sdl.K_ESCAPE) {
				return true
			}
		}
	}
	return false
}
