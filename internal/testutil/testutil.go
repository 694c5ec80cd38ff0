// Package testutil provides shared test helpers and image fixtures.
package testutil

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banshee-data/colour.transfer/internal/pointcloud"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// Gradient returns an RGB image whose channels ramp along x, along y and
// diagonally.
func Gradient(h, w int) *pointcloud.Image {
	img := pointcloud.NewImage(h, w, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(y, x, 0, uint8(x*255/max(w-1, 1)))
			img.Set(y, x, 1, uint8(y*255/max(h-1, 1)))
			img.Set(y, x, 2, uint8((x+y)*255/max(w+h-2, 1)))
		}
	}
	return img
}

// Noise returns an RGB image of uniformly random bytes. The same seed always
// yields the same image.
func Noise(h, w int, seed uint64) *pointcloud.Image {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	img := pointcloud.NewImage(h, w, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	return img
}

// Tinted returns img with every channel value scaled by the matching factor
// and clamped to [0, 255].
func Tinted(img *pointcloud.Image, factors ...float64) *pointcloud.Image {
	out := img.Clone()
	for i, v := range out.Pix {
		f := factors[i%len(factors)]
		out.Pix[i] = pointcloud.Saturate(float64(v) * f)
	}
	return out
}

// AssertSameShape fails the test when the two images differ in shape.
func AssertSameShape(t *testing.T, got, want *pointcloud.Image) {
	t.Helper()
	gh, gw, gc := got.Shape()
	wh, ww, wc := want.Shape()
	if gh != wh || gw != ww || gc != wc {
		t.Fatalf("shape = %dx%dx%d, want %dx%dx%d", gh, gw, gc, wh, ww, wc)
	}
	if len(got.Pix) != len(want.Pix) {
		t.Fatalf("pixel buffer has %d bytes, want %d", len(got.Pix), len(want.Pix))
	}
}

// AssertWithin fails the test when any channel value of got differs from want
// by more than tol.
func AssertWithin(t *testing.T, got, want *pointcloud.Image, tol int) {
	t.Helper()
	AssertSameShape(t, got, want)
	for i := range got.Pix {
		d := int(got.Pix[i]) - int(want.Pix[i])
		if d < -tol || d > tol {
			t.Fatalf("byte %d = %d, want %d ± %d", i, got.Pix[i], want.Pix[i], tol)
		}
	}
}
