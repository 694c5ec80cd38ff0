package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/colour.transfer/internal/pointcloud"
	"github.com/banshee-data/colour.transfer/internal/testutil"
)

func TestSaveLoad_LosslessFormats(t *testing.T) {
	dir := t.TempDir()
	want := testutil.Noise(9, 13, 1)

	for _, name := range []string{"out.png", "out.PNG", "out.bmp", "out.tif", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveLoad_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	want := pointcloud.NewUniform(16, 16, 120, 60, 200)
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	testutil.AssertWithin(t, got, want, 4)
}

func TestLoad_GIF(t *testing.T) {
	pal := color.Palette{color.RGBA{0, 0, 0, 255}, color.RGBA{255, 0, 0, 255}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.SetColorIndex(1, 0, 1)
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, src, nil))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 255, 0, 0}, got.Pix)
}

func TestSave_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	err := Save(path, testutil.Noise(2, 2, 1))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created")
}

func TestSave_InvalidImage(t *testing.T) {
	bad := &pointcloud.Image{Height: 2, Width: 2, Channels: 3}
	err := Save(filepath.Join(t.TempDir(), "out.png"), bad)
	assert.ErrorIs(t, err, pointcloud.ErrShape)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	_, err = Load(garbage)
	assert.ErrorIs(t, err, image.ErrFormat)
}
