// Package config loads adaptation settings from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/colour.transfer/internal/adapt"
	"github.com/banshee-data/colour.transfer/internal/ot"
)

// DefaultConfigPath is the path to the canonical adaptation defaults file.
const DefaultConfigPath = "config/adapt.defaults.json"

// maxFileSize caps config files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// AdaptConfig holds adaptation settings. Nil fields fall back to the
// defaults returned by the Get* methods, so partial files are safe.
type AdaptConfig struct {
	Method   *string `json:"method,omitempty"`
	NSamples *int    `json:"nsamples,omitempty"`
	// Seed fixes the subsampling random source. Omit for a random seed.
	Seed *uint64 `json:"seed,omitempty"`

	// Linear params
	LinearReg *float64 `json:"linear_reg,omitempty"`

	// Kernel mapping params
	GaussianMu      *float64 `json:"gaussian_mu,omitempty"`
	GaussianEta     *float64 `json:"gaussian_eta,omitempty"`
	GaussianSigma   *float64 `json:"gaussian_sigma,omitempty"`
	GaussianMaxIter *int     `json:"gaussian_max_iter,omitempty"`

	// Sinkhorn params
	SinkhornReg     *float64 `json:"sinkhorn_reg,omitempty"`
	SinkhornMaxIter *int     `json:"sinkhorn_max_iter,omitempty"`

	// Report params
	HistogramBins *int `json:"histogram_bins,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyAdaptConfig returns an AdaptConfig with all fields set to nil.
func EmptyAdaptConfig() *AdaptConfig {
	return &AdaptConfig{}
}

// DefaultAdaptConfig returns an AdaptConfig with every field set to its default.
func DefaultAdaptConfig() *AdaptConfig {
	s := ot.DefaultSolver()
	return &AdaptConfig{
		Method:          ptrString(adapt.Linear.String()),
		NSamples:        ptrInt(adapt.DefaultSamples),
		LinearReg:       ptrFloat64(s.Linear.Reg),
		GaussianMu:      ptrFloat64(s.Gaussian.Mu),
		GaussianEta:     ptrFloat64(s.Gaussian.Eta),
		GaussianSigma:   ptrFloat64(s.Gaussian.Sigma),
		GaussianMaxIter: ptrInt(s.Gaussian.MaxIter),
		SinkhornReg:     ptrFloat64(s.Sinkhorn.Reg),
		SinkhornMaxIter: ptrInt(s.Sinkhorn.MaxIter),
		HistogramBins:   ptrInt(256),
	}
}

// LoadAdaptConfig loads an AdaptConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadAdaptConfig(path string) (*AdaptConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAdaptConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// a parent of it. It panics when the file cannot be found and is intended for
// test setup.
func MustLoadDefaultConfig() *AdaptConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAdaptConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set.
func (c *AdaptConfig) Validate() error {
	if c.Method != nil {
		if _, err := adapt.ParseMethod(*c.Method); err != nil {
			return err
		}
	}
	if c.NSamples != nil && *c.NSamples < 1 {
		return fmt.Errorf("nsamples must be positive, got %d", *c.NSamples)
	}
	if c.LinearReg != nil && *c.LinearReg < 0 {
		return fmt.Errorf("linear_reg must be non-negative, got %g", *c.LinearReg)
	}
	for name, v := range map[string]*float64{
		"gaussian_mu":    c.GaussianMu,
		"gaussian_sigma": c.GaussianSigma,
		"sinkhorn_reg":   c.SinkhornReg,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, *v)
		}
	}
	if c.GaussianEta != nil && *c.GaussianEta < 0 {
		return fmt.Errorf("gaussian_eta must be non-negative, got %g", *c.GaussianEta)
	}
	for name, v := range map[string]*int{
		"gaussian_max_iter": c.GaussianMaxIter,
		"sinkhorn_max_iter": c.SinkhornMaxIter,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}
	if c.HistogramBins != nil && (*c.HistogramBins < 1 || *c.HistogramBins > 256) {
		return fmt.Errorf("histogram_bins must be between 1 and 256, got %d", *c.HistogramBins)
	}
	return nil
}

// GetMethod returns the method value or the default.
func (c *AdaptConfig) GetMethod() adapt.Method {
	if c.Method == nil {
		return adapt.Linear
	}
	m, err := adapt.ParseMethod(*c.Method)
	if err != nil {
		return adapt.Linear // default on parse error
	}
	return m
}

// GetNSamples returns the nsamples value or the default.
func (c *AdaptConfig) GetNSamples() int {
	if c.NSamples == nil {
		return adapt.DefaultSamples
	}
	return *c.NSamples
}

// GetSeed returns the seed and whether one was set.
func (c *AdaptConfig) GetSeed() (uint64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return *c.Seed, true
}

// GetHistogramBins returns the histogram_bins value or the default.
func (c *AdaptConfig) GetHistogramBins() int {
	if c.HistogramBins == nil {
		return 256
	}
	return *c.HistogramBins
}

// Solver builds an ot.Solver from the defaults overlaid with the set fields.
func (c *AdaptConfig) Solver() *ot.Solver {
	s := ot.DefaultSolver()
	if c.LinearReg != nil {
		s.Linear.Reg = *c.LinearReg
	}
	if c.GaussianMu != nil {
		s.Gaussian.Mu = *c.GaussianMu
	}
	if c.GaussianEta != nil {
		s.Gaussian.Eta = *c.GaussianEta
	}
	if c.GaussianSigma != nil {
		s.Gaussian.Sigma = *c.GaussianSigma
	}
	if c.GaussianMaxIter != nil {
		s.Gaussian.MaxIter = *c.GaussianMaxIter
	}
	if c.SinkhornReg != nil {
		s.Sinkhorn.Reg = *c.SinkhornReg
	}
	if c.SinkhornMaxIter != nil {
		s.Sinkhorn.MaxIter = *c.SinkhornMaxIter
	}
	return s
}
