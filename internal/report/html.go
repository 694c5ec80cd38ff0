package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a page with one line chart per channel, one series per
// histogram.
func RenderHTML(w io.Writer, hists ...Histogram) error {
	n, err := channels(hists)
	if err != nil {
		return err
	}
	centres := binCentres(hists[0].Bins())
	xs := make([]string, len(centres))
	for i, c := range centres {
		xs[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}

	page := components.NewPage()
	page.SetPageTitle("Colour transfer report")
	for k := 0; k < n; k++ {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
			charts.WithTitleOpts(opts.Title{Title: channelName(k, n), Subtitle: fmt.Sprintf("%d bins", len(centres))}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Level", NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Fraction"}),
		)
		line.SetXAxis(xs)
		for _, h := range hists {
			data := make([]opts.LineData, len(h.Counts[k]))
			for b, v := range h.Counts[k] {
				data[b] = opts.LineData{Value: v}
			}
			line.AddSeries(h.Label, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(false)}))
		}
		page.AddCharts(line)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
