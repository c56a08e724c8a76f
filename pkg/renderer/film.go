package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"seehuhn.de/go/geom/vec"
)

// Film maps between pixels and film coordinates. Film coordinates cover the
// unit square with (0,0) at the top-left corner of the image.
type Film struct {
	Width, Height int
	pixels        []PixelStats
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]PixelStats, width*height)}
}

// Pixel returns the statistics of pixel (x, y)
func (f *Film) Pixel(x, y int) *PixelStats {
	return &f.pixels[y*f.Width+x]
}

// FilmPoint returns the film coordinates of a point inside pixel (x, y),
// offset by jitter in [0,1)².
func (f *Film) FilmPoint(x, y int, jitter vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (float64(x) + jitter.X) / float64(f.Width),
		Y: (float64(y) + jitter.Y) / float64(f.Height),
	}
}

// PixelAt returns the pixel containing a film point
func (f *Film) PixelAt(p vec.Vec2) (int, int, bool) {
	if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
		return 0, 0, false
	}
	x := min(int(p.X*float64(f.Width)), f.Width-1)
	y := min(int(p.Y*float64(f.Height)), f.Height-1)
	return x, y, true
}

// AddSplats adds queued splats to their pixels
func (f *Film) AddSplats(splats []SplatXY) {
	for _, s := range splats {
		ps := f.Pixel(s.X, s.Y)
		ps.SplatAccum = ps.SplatAccum.Add(s.Color)
	}
}

// Resolve returns the current estimate of every pixel
func (f *Film) Resolve() *Image {
	img := NewImage(f.Width, f.Height)
	for i := range f.pixels {
		img.Pix[i] = f.pixels[i].GetColor()
	}
	return img
}

// Image is a linear radiance image in row-major order
type Image struct {
	Width, Height int
	Pix           []core.Vec3
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]core.Vec3, width*height)}
}

// At returns the radiance of pixel (x, y)
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pix[y*img.Width+x]
}

// Add accumulates c into pixel (x, y)
func (img *Image) Add(x, y int, c core.Vec3) {
	i := y*img.Width + x
	img.Pix[i] = img.Pix[i].Add(c)
}

// Merge adds every pixel of other, which must have the same size
func (img *Image) Merge(other *Image) {
	for i := range img.Pix {
		img.Pix[i] = img.Pix[i].Add(other.Pix[i])
	}
}

// Scale multiplies every pixel by s
func (img *Image) Scale(s float64) {
	for i := range img.Pix {
		img.Pix[i] = img.Pix[i].Multiply(s)
	}
}

// MeanLuminance returns the average pixel luminance
func (img *Image) MeanLuminance() float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range img.Pix {
		sum += c.Luminance()
	}
	return sum / float64(len(img.Pix))
}

// displayGamma is applied when converting to 8 bit
const displayGamma = 2.2

// RGBA converts the image to 8 bit with clamping and gamma correction
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetRGBA(x, y, toColor(img.At(x, y)))
		}
	}
	return out
}

// toColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func toColor(c core.Vec3) color.RGBA {
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z) {
		c = core.Vec3{}
	}
	c = c.Clamp(0.0, 1.0).GammaCorrect(displayGamma)
	return color.RGBA{
		R: uint8(math.Round(255 * c.X)),
		G: uint8(math.Round(255 * c.Y)),
		B: uint8(math.Round(255 * c.Z)),
		A: 255,
	}
}
