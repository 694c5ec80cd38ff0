package pointcloud

import (
	"fmt"
	"image"
	"image/color"
)

// Image is an 8-bit multi-channel raster with row-major (H, W, C) layout.
type Image struct {
	Height   int
	Width    int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed h×w image with c channels.
func NewImage(h, w, c int) *Image {
	return &Image{Height: h, Width: w, Channels: c, Pix: make([]uint8, h*w*c)}
}

// NewUniform returns an h×w image where every pixel holds the given channel values.
func NewUniform(h, w int, value ...uint8) *Image {
	img := NewImage(h, w, len(value))
	for i := 0; i < len(img.Pix); i += len(value) {
		copy(img.Pix[i:], value)
	}
	return img
}

// Shape returns (H, W, C).
func (m *Image) Shape() (int, int, int) { return m.Height, m.Width, m.Channels }

// Pixels returns H·W.
func (m *Image) Pixels() int { return m.Height * m.Width }

// offset is the index of channel k of pixel (y, x) in Pix.
func (m *Image) offset(y, x, k int) int {
	return (y*m.Width+x)*m.Channels + k
}

// At returns channel k of pixel (y, x).
func (m *Image) At(y, x, k int) uint8 { return m.Pix[m.offset(y, x, k)] }

// Set stores v into channel k of pixel (y, x).
func (m *Image) Set(y, x, k int, v uint8) { m.Pix[m.offset(y, x, k)] = v }

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	out := *m
	out.Pix = append([]uint8(nil), m.Pix...)
	return &out
}

// Validate reports an error when the dimensions and the pixel buffer disagree.
func (m *Image) Validate() error {
	if m.Height <= 0 || m.Width <= 0 || m.Channels <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrEmptyImage, m.Height, m.Width, m.Channels)
	}
	if len(m.Pix) != m.Height*m.Width*m.Channels {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrShape, len(m.Pix), m.Height*m.Width*m.Channels)
	}
	return nil
}

// Channel returns channel k as an H·W field of float64 values in [0, 255].
func Channel(img *Image, k int) []float64 {
	field := make([]float64, img.Pixels())
	for i := range field {
		field[i] = float64(img.Pix[i*img.Channels+k])
	}
	return field
}

// SetChannel writes an H·W field of already-quantised values into channel k.
func SetChannel(img *Image, k int, field []uint8) error {
	if len(field) != img.Pixels() {
		return fmt.Errorf("%w: channel field has %d values, image has %d pixels", ErrShape, len(field), img.Pixels())
	}
	for i, v := range field {
		img.Pix[i*img.Channels+k] = v
	}
	return nil
}

// FromImage converts any image.Image into a three-channel RGB Image.
// Alpha is discarded; colours are taken un-premultiplied.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := NewImage(b.Dy(), b.Dx(), 3)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := out.offset(y, x, 0)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
		}
	}
	return out
}

// ToNRGBA renders the first three channels as an opaque NRGBA image. Single
// channel images are rendered as grey.
func (m *Image) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			var r, g, b uint8
			if m.Channels >= 3 {
				r, g, b = m.At(y, x, 0), m.At(y, x, 1), m.At(y, x, 2)
			} else {
				r = m.At(y, x, 0)
				g, b = r, r
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return dst
}
