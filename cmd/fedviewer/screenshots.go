package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	png "image/png"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/bands"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/fedplot"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

// ScreenshotOptions configures a headless render of every chart into
// an output directory. Used by CI and documentation builds.
type ScreenshotOptions struct {
	File    string
	Styles  string
	Bands   string
	OutDir  string
	Bias    float64
	GroupBy string
	OptName string
}

// RunScreenshotsMode renders the free-energy diagrams (every plot mode
// plus the site scatter), the peroxide branch, and, when a band file
// is given, the band diagram. No window is opened.
func RunScreenshotsMode(opts ScreenshotOptions) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	rows, err := dataset.Load(opts.File, dataset.LoadOptions{})
	if err != nil {
		return err
	}
	var cfg fedplot.StyleConfig
	if opts.Styles != "" {
		if cfg, err = fedplot.LoadStyleConfig(opts.Styles); err != nil {
			return err
		}
	}
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = defaultPalette
	}
	groupBy := groupColumns(opts.GroupBy)

	base := fedplot.CollectionOptions{
		GroupBy:     groupBy,
		Bias:        opts.Bias,
		OptName:     opts.OptName,
		Colors:      colors,
		Rules:       cfg.Rules,
		IdealSeries: true,
	}

	lowest := func(name string, mode fedplot.PlotMode) error {
		o := base
		o.Mode = mode
		series, l, err := fedplot.LowestEnergyFED(rows, o)
		if err != nil {
			return err
		}
		l = cfg.Layout.Apply(l)
		return writeFigure(filepath.Join(opts.OutDir, name), series, l)
	}
	if err := lowest("fed_lowest_energy.png", fedplot.ModeAll); err != nil {
		return err
	}
	if err := lowest("fed_states_only.png", fedplot.ModeStatesOnly); err != nil {
		return err
	}
	if err := lowest("fed_full_lines.png", fedplot.ModeFullLines); err != nil {
		return err
	}

	// site scatter keeps each binding site as its own diagram
	asCols := groupBy
	if !hasCol(asCols, dataset.ColSite) {
		asCols = append(append([]string(nil), groupBy...), dataset.ColSite)
	}
	o := base
	o.GroupBy = asCols
	series, l, err := fedplot.AllStatesFED(rows, o)
	if err != nil {
		return err
	}
	l = cfg.Layout.Apply(l)
	if err := writeFigure(filepath.Join(opts.OutDir, "fed_all_states.png"), series, l); err != nil {
		return err
	}

	diagrams, err := orr.LowestEnergyDiagrams(rows, groupBy, "all")
	if err != nil {
		return err
	}
	if ps := buildPeroxideSeries(diagrams, colors, cfg.Rules); len(ps) > 0 {
		if err := writeFigure(filepath.Join(opts.OutDir, "peroxide.png"), ps, fedplot.PeroxideLayout("")); err != nil {
			return err
		}
	}

	if opts.Bands != "" {
		bs, err := bands.Load(opts.Bands)
		if err != nil {
			return err
		}
		if err := writeFigure(filepath.Join(opts.OutDir, "bands.png"), bs.Series(), bs.Layout("")); err != nil {
			return err
		}
	}
	fmt.Printf("[viewer] screenshots written to %s\n", opts.OutDir)
	return nil
}

// writeFigure renders at the layout's own size and writes the PNG.
func writeFigure(path string, series []fedplot.Series, l fedplot.Layout) error {
	img := renderFigure(series, l, l.Width, l.Height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
