package pointcloud

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func gradient(h, w int) *Image {
	img := NewImage(h, w, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(y, x, 0, uint8(x*255/max(w-1, 1)))
			img.Set(y, x, 1, uint8(y*255/max(h-1, 1)))
			img.Set(y, x, 2, uint8((x+y)%256))
		}
	}
	return img
}

func TestFlatten_ShapeAndScale(t *testing.T) {
	cloud := Flatten(NewUniform(2, 3, 0, 51, 255))

	if r, c := cloud.Dims(); r != 6 || c != 3 {
		t.Fatalf("Dims() = %d, %d, want 6, 3", r, c)
	}
	want := []float64{0, 0.2, 1}
	for i := 0; i < 6; i++ {
		for k, v := range want {
			if got := cloud.At(i, k); math.Abs(got-v) > 1e-12 {
				t.Errorf("cloud[%d][%d] = %v, want %v", i, k, got, v)
			}
		}
	}
}

func TestQuantise_RoundTrip(t *testing.T) {
	img := gradient(5, 7)
	out, err := Quantise(Flatten(img), 5, 7, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(img, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantise_ClipsAndRounds(t *testing.T) {
	cloud := mat.NewDense(1, 4, []float64{-0.3, 1.7, 0.5, math.NaN()})
	out, err := Quantise(cloud, 1, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{0, 255, 128, 0}, out.Pix); diff != "" {
		t.Errorf("Pix mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantise_ShapeMismatch(t *testing.T) {
	if _, err := Quantise(mat.NewDense(4, 3, nil), 3, 1, 3); !errors.Is(err, ErrShape) {
		t.Errorf("got %v, want ErrShape", err)
	}
}

func TestSampleIndices_WithReplacement(t *testing.T) {
	idx := SampleIndices(50, 4, rand.New(rand.NewPCG(1, 2)))
	if len(idx) != 50 {
		t.Fatalf("len = %d, want 50", len(idx))
	}
	for _, i := range idx {
		if i < 0 || i >= 4 {
			t.Errorf("index %d out of [0, 4)", i)
		}
	}

	again := SampleIndices(50, 4, rand.New(rand.NewPCG(1, 2)))
	if diff := cmp.Diff(idx, again); diff != "" {
		t.Errorf("same seed drew different indices (-first +second):\n%s", diff)
	}
}

func TestSubsample(t *testing.T) {
	cloud := mat.NewDense(3, 2, []float64{
		0, 1,
		2, 3,
		4, 5,
	})
	got := Subsample(cloud, []int{2, 0, 2})
	want := mat.NewDense(3, 2, []float64{4, 5, 0, 1, 4, 5})
	if !mat.Equal(want, got) {
		t.Errorf("Subsample = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestChannelAndSetChannel(t *testing.T) {
	img := gradient(3, 4)
	field := Channel(img, 1)
	if len(field) != 12 {
		t.Fatalf("len(Channel) = %d, want 12", len(field))
	}

	q := make([]uint8, len(field))
	for i, v := range field {
		q[i] = uint8(v)
	}
	out := NewImage(3, 4, 3)
	if err := SetChannel(out, 1, q); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < img.Pixels(); i++ {
		if img.Pix[i*3+1] != out.Pix[i*3+1] {
			t.Errorf("pixel %d green = %d, want %d", i, out.Pix[i*3+1], img.Pix[i*3+1])
		}
	}

	if err := SetChannel(out, 0, q[:5]); !errors.Is(err, ErrShape) {
		t.Errorf("short field: got %v, want ErrShape", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
		want error
	}{
		{"valid", NewImage(2, 2, 3), nil},
		{"zero height", &Image{Height: 0, Width: 2, Channels: 3}, ErrEmptyImage},
		{"short buffer", &Image{Height: 2, Width: 2, Channels: 3, Pix: make([]uint8, 5)}, ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromImageToNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	src.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(12, 21, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	img := FromImage(src)
	if h, w, c := img.Shape(); h != 2 || w != 3 || c != 3 {
		t.Fatalf("Shape() = %d, %d, %d, want 2, 3, 3", h, w, c)
	}
	if img.At(0, 0, 0) != 1 || img.At(0, 0, 2) != 3 || img.At(1, 2, 1) != 100 {
		t.Errorf("unexpected pixels: %v", img.Pix)
	}

	want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	if got := img.ToNRGBA().NRGBAAt(2, 1); got != want {
		t.Errorf("NRGBAAt(2, 1) = %v, want %v", got, want)
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-4, 0},
		{0.49, 0},
		{0.5, 0},
		{1.5, 2},
		{254.6, 255},
		{300, 255},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Saturate(tt.in); got != tt.want {
			t.Errorf("Saturate(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	img := gradient(2, 2)
	cp := img.Clone()
	cp.Pix[0] = 99
	if img.Pix[0] == cp.Pix[0] {
		t.Error("Clone shares its pixel buffer with the original")
	}
}
