package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/colour.transfer/internal/adapt"
	"github.com/banshee-data/colour.transfer/internal/config"
	"github.com/banshee-data/colour.transfer/internal/db"
	"github.com/banshee-data/colour.transfer/internal/imageio"
	"github.com/banshee-data/colour.transfer/internal/monitoring"
	"github.com/banshee-data/colour.transfer/internal/pointcloud"
	"github.com/banshee-data/colour.transfer/internal/report"
)

// adaptOptions are the parsed adapt flags merged over the config file.
type adaptOptions struct {
	Source    string
	Target    string
	Out       string
	DBPath    string
	ReportDir string
	Config    *config.AdaptConfig
}

func parseAdaptFlags(args []string, stderr io.Writer) (*adaptOptions, error) {
	fs := flag.NewFlagSet("adapt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	source := fs.String("source", "", "Source image to recolour (required)")
	target := fs.String("target", "", "Reference image whose colours are matched (required)")
	out := fs.String("out", "", "Output image path; the extension selects the format (required)")
	method := fs.String("method", adapt.Linear.String(), "Adaptation method")
	nsamples := fs.Int("nsamples", adapt.DefaultSamples, "Pixels sampled per image by subsampled methods")
	seed := fs.Uint64("seed", 0, "Sampling seed (random when unset)")
	configPath := fs.String("config", "", "Path to a JSON adaptation config")
	dbPath := fs.String("db", "", "Record the run in this SQLite database")
	reportDir := fs.String("report", "", "Write colour histograms into this directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *source == "" || *target == "" || *out == "" {
		return nil, fmt.Errorf("-source, -target and -out are required")
	}

	cfg := config.EmptyAdaptConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadAdaptConfig(*configPath); err != nil {
			return nil, err
		}
	}

	// Explicit flags win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "method":
			cfg.Method = method
		case "nsamples":
			cfg.NSamples = nsamples
		case "seed":
			cfg.Seed = seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &adaptOptions{
		Source:    *source,
		Target:    *target,
		Out:       *out,
		DBPath:    *dbPath,
		ReportDir: *reportDir,
		Config:    cfg,
	}, nil
}

func runAdapt(args []string, stdout io.Writer) error {
	o, err := parseAdaptFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	r, err := adaptFiles(o)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s -> %s (%dx%d, %d ms)\n", r.Method, r.SourcePath, r.OutputPath, r.Width, r.Height, r.DurationMs)
	return nil
}

// adaptFiles loads both images, adapts, saves the result and optionally
// writes a report and records the run.
func adaptFiles(o *adaptOptions) (*db.Run, error) {
	src, err := imageio.Load(o.Source)
	if err != nil {
		return nil, err
	}
	tgt, err := imageio.Load(o.Target)
	if err != nil {
		return nil, err
	}

	cfg := o.Config
	opts := []adapt.Option{
		adapt.WithSolver(cfg.Solver()),
		adapt.WithSamples(cfg.GetNSamples()),
	}
	seed, seeded := cfg.GetSeed()
	if seeded {
		opts = append(opts, adapt.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	start := time.Now()
	method := cfg.GetMethod()
	out, err := adapt.New(opts...).Adapt(src, tgt, method)
	if err != nil {
		return nil, fmt.Errorf("%s adaptation failed: %w", method, err)
	}
	elapsed := time.Since(start)
	monitoring.Elapsed(start, "adapted %s with %s", o.Source, method)

	if err := imageio.Save(o.Out, out); err != nil {
		return nil, err
	}

	r := &db.Run{
		Method:     method.String(),
		NSamples:   cfg.GetNSamples(),
		SourcePath: o.Source,
		TargetPath: o.Target,
		OutputPath: o.Out,
		Height:     out.Height,
		Width:      out.Width,
		Channels:   out.Channels,
		DurationMs: elapsed.Milliseconds(),
	}
	if seeded {
		r.Seed = &seed
	}
	copy(r.MeanShift[:], report.MeanShift(src, out))

	if o.ReportDir != "" {
		if err := writeReport(o.ReportDir, cfg.GetHistogramBins(), src, tgt, out); err != nil {
			return nil, err
		}
	}
	if o.DBPath != "" {
		store, err := db.OpenDB(o.DBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if err := store.RecordRun(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func writeReport(dir string, bins int, src, tgt, out *pointcloud.Image) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	hists := []report.Histogram{
		report.ChannelHistogram("source", src, bins),
		report.ChannelHistogram("target", tgt, bins),
		report.ChannelHistogram("adapted", out, bins),
	}
	paths, err := report.WritePNG(dir, hists...)
	if err != nil {
		return err
	}

	htmlPath := filepath.Join(dir, "report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", htmlPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", htmlPath, cerr)
		}
	}()
	if err := report.RenderHTML(f, hists...); err != nil {
		return err
	}
	monitoring.Logf("wrote report %s and %d plots", htmlPath, len(paths))
	return nil
}
