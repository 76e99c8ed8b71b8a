// Test image generator for creating synthetic portrait fixtures
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	// Portrait: a skin-coloured face block in the upper-centre over a
	// cool background, warm enough to exercise the whole pipeline.
	writePNG("testdata/portrait.png", portrait(400, 400, image.Rect(120, 60, 280, 240)))

	// No face anywhere: exercises the FACE_NOT_DETECTED path.
	writePNG("testdata/noface.png", portrait(400, 400, image.Rectangle{}))
}

func portrait(width, height int, faceRect image.Rectangle) image.Image {
	skin := color.RGBA{R: 205, G: 150, B: 120, A: 255}
	background := color.RGBA{R: 80, G: 120, B: 220, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(faceRect) {
				img.SetRGBA(x, y, skin)
			} else {
				img.SetRGBA(x, y, background)
			}
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}

	println("created: " + path)
}
