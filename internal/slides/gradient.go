package slides

import (
	"image"
	"image/color"
)

type rgb struct{ r, g, b uint8 }

// Gradient palettes for fallback backgrounds, dark enough that white text
// stays readable without an overlay.
var gradientPalettes = [][2]rgb{
	{{20, 30, 48}, {36, 59, 85}},    // deep blue
	{{48, 25, 52}, {95, 44, 130}},   // royal purple
	{{20, 36, 50}, {71, 120, 140}},  // ocean blue
	{{40, 30, 50}, {70, 50, 90}},    // night purple
}

// design is the per-slide color scheme, cycled by slide index.
type design struct {
	overlay  color.NRGBA
	headline color.NRGBA
	accent   color.NRGBA
}

var designVariants = []design{
	{
		overlay:  color.NRGBA{0, 0, 0, 180},
		headline: color.NRGBA{255, 255, 255, 255},
		accent:   color.NRGBA{200, 200, 200, 255},
	},
	{
		overlay:  color.NRGBA{20, 23, 26, 200},
		headline: color.NRGBA{255, 255, 255, 255},
		accent:   color.NRGBA{180, 180, 180, 255},
	},
	{
		overlay:  color.NRGBA{26, 20, 26, 200},
		headline: color.NRGBA{255, 255, 255, 255},
		accent:   color.NRGBA{180, 180, 180, 255},
	},
	{
		overlay:  color.NRGBA{26, 20, 20, 200},
		headline: color.NRGBA{255, 255, 255, 255},
		accent:   color.NRGBA{180, 180, 180, 255},
	},
}

func designFor(index int) design {
	return designVariants[index%len(designVariants)]
}

// gradientBackground renders a vertical two-color gradient. The palette is
// picked by slide index so a run's fallbacks vary but stay deterministic.
func gradientBackground(index int) image.Image {
	palette := gradientPalettes[index%len(gradientPalettes)]
	top, bottom := palette[0], palette[1]

	img := image.NewRGBA(image.Rect(0, 0, slideSize, slideSize))
	for y := 0; y < slideSize; y++ {
		c := color.RGBA{
			R: lerp(top.r, bottom.r, y),
			G: lerp(top.g, bottom.g, y),
			B: lerp(top.b, bottom.b, y),
			A: 255,
		}
		for x := 0; x < slideSize; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func lerp(from, to uint8, y int) uint8 {
	return uint8(int(from) + (int(to)-int(from))*y/slideSize)
}
