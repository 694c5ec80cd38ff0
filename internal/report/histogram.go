// Package report summarises adaptation runs as per-channel colour histograms.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/colour.transfer/internal/pointcloud"
)

// DefaultBins gives one bin per 8-bit level.
const DefaultBins = 256

// Histogram holds the normalised per-channel value distribution of one image.
type Histogram struct {
	Label string
	// Counts[k][b] is the fraction of pixels whose channel k falls in bin b.
	Counts [][]float64
}

// Bins returns the number of bins per channel.
func (h Histogram) Bins() int {
	if len(h.Counts) == 0 {
		return 0
	}
	return len(h.Counts[0])
}

// ChannelHistogram bins every channel of img into bins equal-width bins over
// [0, 256).
func ChannelHistogram(label string, img *pointcloud.Image, bins int) Histogram {
	if bins < 1 || bins > DefaultBins {
		bins = DefaultBins
	}
	dividers := floats.Span(make([]float64, bins+1), 0, 256)
	h := Histogram{Label: label, Counts: make([][]float64, img.Channels)}
	for k := range h.Counts {
		field := pointcloud.Channel(img, k)
		sort.Float64s(field)
		counts := stat.Histogram(nil, dividers, field, nil)
		if n := len(field); n > 0 {
			floats.Scale(1/float64(n), counts)
		}
		h.Counts[k] = counts
	}
	return h
}

// MeanShift returns the per-channel difference of the mean value of adapted
// minus that of src.
func MeanShift(src, adapted *pointcloud.Image) []float64 {
	out := make([]float64, min(src.Channels, adapted.Channels))
	for k := range out {
		out[k] = stat.Mean(pointcloud.Channel(adapted, k), nil) - stat.Mean(pointcloud.Channel(src, k), nil)
	}
	return out
}

// binCentres returns the centre of each bin in 8-bit units.
func binCentres(bins int) []float64 {
	w := 256 / float64(bins)
	out := make([]float64, bins)
	for i := range out {
		out[i] = (float64(i) + 0.5) * w
	}
	return out
}

// channels returns the number of channels shared by every histogram.
func channels(hists []Histogram) (int, error) {
	if len(hists) == 0 {
		return 0, fmt.Errorf("report: no histograms")
	}
	c, bins := len(hists[0].Counts), hists[0].Bins()
	for _, h := range hists[1:] {
		if len(h.Counts) != c || h.Bins() != bins {
			return 0, fmt.Errorf("report: histogram %q has %d channels of %d bins, want %d of %d",
				h.Label, len(h.Counts), h.Bins(), c, bins)
		}
	}
	return c, nil
}

// channelName labels channel k.
func channelName(k, n int) string {
	if n == 3 {
		return [...]string{"red", "green", "blue"}[k]
	}
	return fmt.Sprintf("channel %d", k)
}
