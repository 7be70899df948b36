package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/yalue/image_utils"

	"mazewal/domain/maze"
)

var (
	barrierColor     = color.RGBA{0, 0, 0, 255}
	unreachableColor = color.RGBA{150, 150, 150, 255}
	startColor       = color.RGBA{40, 180, 70, 255}
	exitColor        = color.RGBA{100, 120, 255, 255}
)

// Image rasterizes g with each cell drawn as a cellPixels square.
func Image(g *maze.Grid, cellPixels int) (*image.RGBA, error) {
	if cellPixels <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %d", cellPixels)
	}
	maxDist := 1
	for _, d := range g.Distances() {
		if d != maze.Unreached && d > maxDist {
			maxDist = d
		}
	}
	exit, hasExit := g.Exit()

	tiles := map[color.RGBA]image.Image{}
	tile := func(c color.RGBA) image.Image {
		if t, ok := tiles[c]; ok {
			return t
		}
		px := image.NewRGBA(image.Rect(0, 0, 1, 1))
		px.SetRGBA(0, 0, c)
		t := image_utils.ResizeImage(px, cellPixels, cellPixels)
		tiles[c] = t
		return t
	}

	pic := image_utils.NewCompositeImage()
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.UsableCols(); c++ {
			cell := maze.Cell{Row: r, Col: c}
			var col color.RGBA
			switch {
			case g.IsBarrier(cell):
				col = barrierColor
			case cell == g.Start():
				col = startColor
			case hasExit && cell == exit:
				col = exitColor
			case g.Distance(cell) == maze.Unreached:
				col = unreachableColor
			default:
				col = heat(g.Distance(cell), maxDist)
			}
			e := pic.AddImage(tile(col), image.Pt(c*cellPixels, r*cellPixels))
			if e != nil {
				return nil, fmt.Errorf("error drawing cell %s: %w", cell, e)
			}
		}
	}
	return image_utils.ToRGBA(pic), nil
}

// PNG encodes the heat map of g to w.
func PNG(w io.Writer, g *maze.Grid, cellPixels int) error {
	img, err := Image(g, cellPixels)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// heat shades near cells light and far cells dark red.
func heat(d, maxDist int) color.RGBA {
	v := uint8(230 - d*200/maxDist)
	return color.RGBA{255, v, v, 255}
}
