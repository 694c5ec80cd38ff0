package report

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WritePNG saves one plot per channel into dir, overlaying every histogram,
// and returns the written paths.
func WritePNG(dir string, hists ...Histogram) ([]string, error) {
	n, err := channels(hists)
	if err != nil {
		return nil, err
	}
	centres := binCentres(hists[0].Bins())

	paths := make([]string, 0, n)
	for k := 0; k < n; k++ {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Colour distribution - %s", channelName(k, n))
		p.X.Label.Text = "Level"
		p.Y.Label.Text = "Fraction of pixels"
		p.X.Min, p.X.Max = 0, 256

		for i, h := range hists {
			pts := make(plotter.XYs, len(centres))
			for b, x := range centres {
				pts[b] = plotter.XY{X: x, Y: h.Counts[k][b]}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return paths, fmt.Errorf("%s line: %w", h.Label, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1)
			p.Add(line)
			p.Legend.Add(h.Label, line)
		}
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		file := filepath.Join(dir, fmt.Sprintf("histogram_%d.png", k))
		if err := p.Save(8*vg.Inch, 4*vg.Inch, file); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", file, err)
		}
		paths = append(paths, file)
	}
	return paths, nil
}
