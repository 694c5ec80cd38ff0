package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/colour.transfer/internal/pointcloud"
	"github.com/banshee-data/colour.transfer/internal/testutil"
)

func TestChannelHistogram_Uniform(t *testing.T) {
	h := ChannelHistogram("src", pointcloud.NewUniform(3, 4, 0, 128, 255), DefaultBins)
	require.Len(t, h.Counts, 3)
	assert.Equal(t, 256, h.Bins())
	assert.Equal(t, 1.0, h.Counts[0][0])
	assert.Equal(t, 1.0, h.Counts[1][128])
	assert.Equal(t, 1.0, h.Counts[2][255])
	for k := range h.Counts {
		assert.InDelta(t, 1, floats.Sum(h.Counts[k]), 1e-12)
	}
}

func TestChannelHistogram_CoarseBins(t *testing.T) {
	img := pointcloud.NewImage(1, 4, 1)
	copy(img.Pix, []uint8{0, 63, 64, 255})
	h := ChannelHistogram("x", img, 4)
	assert.Equal(t, []float64{0.5, 0.25, 0, 0.25}, h.Counts[0])

	// Out of range bin counts fall back to the default.
	assert.Equal(t, DefaultBins, ChannelHistogram("x", img, 0).Bins())
}

func TestMeanShift(t *testing.T) {
	src := pointcloud.NewUniform(2, 2, 10, 20, 30)
	adapted := pointcloud.NewUniform(2, 2, 15, 10, 30)
	assert.Equal(t, []float64{5, -10, 0}, MeanShift(src, adapted))
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	src := testutil.Noise(8, 8, 1)
	hists := []Histogram{
		ChannelHistogram("source", src, 32),
		ChannelHistogram("target", testutil.Gradient(8, 8), 32),
	}
	paths, err := WritePNG(dir, hists...)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.Equal(t, dir, filepath.Dir(p))
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHTML(&buf,
		ChannelHistogram("source", testutil.Noise(4, 4, 2), 16),
		ChannelHistogram("adapted", testutil.Noise(4, 4, 3), 16),
	)
	require.NoError(t, err)
	out := buf.String()
	for _, want := range []string{"Colour transfer report", "red", "green", "blue", "source", "adapted"} {
		assert.True(t, strings.Contains(out, want), "page should mention %q", want)
	}
}

func TestMismatchedHistograms(t *testing.T) {
	a := ChannelHistogram("a", testutil.Noise(2, 2, 1), 16)
	b := ChannelHistogram("b", testutil.Noise(2, 2, 1), 32)
	_, err := WritePNG(t.TempDir(), a, b)
	assert.Error(t, err)
	assert.Error(t, RenderHTML(&bytes.Buffer{}, a, b))
	assert.Error(t, RenderHTML(&bytes.Buffer{}))
}
