package render

import (
	"fmt"
	"image"
)

// Frame is an RGBA8 pixel buffer the display hands to the core for the
// duration of one trial. Pix is row-major, 4 bytes per pixel.
type Frame struct {
	W, H int
	Pix  []uint8
}

// NewFrame allocates a frame of the given dimensions.
func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// Wrap adopts an existing RGBA8 buffer. The buffer length must be
// exactly w*h*4.
func Wrap(w, h int, pix []uint8) (*Frame, error) {
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("frame: buffer length %d, want %d", len(pix), w*h*4)
	}
	return &Frame{W: w, H: h, Pix: pix}, nil
}

// Clear fills the frame with an opaque grey level.
func (f *Frame) Clear(level uint8) {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = level
		f.Pix[i+1] = level
		f.Pix[i+2] = level
		f.Pix[i+3] = 255
	}
}

// setGrey writes an opaque grey pixel at (x, y).
func (f *Frame) setGrey(x, y int, level uint8) {
	i := (y*f.W + x) * 4
	f.Pix[i] = level
	f.Pix[i+1] = level
	f.Pix[i+2] = level
	f.Pix[i+3] = 255
}

// grey reads the red channel at (x, y); stimuli are achromatic so any
// channel represents luminance.
func (f *Frame) grey(x, y int) uint8 {
	return f.Pix[(y*f.W+x)*4]
}

// mirrorHorizontal flips the frame left-right for mirrored display
// optics.
func (f *Frame) mirrorHorizontal() {
	for y := 0; y < f.H; y++ {
		row := f.Pix[y*f.W*4 : (y+1)*f.W*4]
		for x0, x1 := 0, f.W-1; x0 < x1; x0, x1 = x0+1, x1-1 {
			a := row[x0*4 : x0*4+4]
			b := row[x1*4 : x1*4+4]
			a[0], b[0] = b[0], a[0]
			a[1], b[1] = b[1], a[1]
			a[2], b[2] = b[2], a[2]
			a[3], b[3] = b[3], a[3]
		}
	}
}

// ToImage copies the frame into an image.NRGBA for PNG export and
// debugging tools.
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	copy(img.Pix, f.Pix)
	return img
}
