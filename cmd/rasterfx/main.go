// Command rasterfx generates or loads an image and runs it through the
// rasterfx effects: dithering, scaling and pixelation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/rasterfx"
)

type config struct {
	in       string
	noise    string
	layers   int
	gray     bool
	seed     int64
	simplex  bool
	dither   string
	factor   int
	scale    float64
	pixelate int
	interp   string
	out      string
	frames   string
	workers  int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "input image (.png or .rfx)")
	flag.StringVar(&cfg.noise, "noise", "256x256", "generate a WxH noise field when -in is empty")
	flag.IntVar(&cfg.layers, "layers", 0, "octave layers (0 = as many as fit)")
	flag.BoolVar(&cfg.gray, "gray", false, "grayscale noise")
	flag.Int64Var(&cfg.seed, "seed", 1, "noise seed")
	flag.BoolVar(&cfg.simplex, "simplex", false, "use OpenSimplex layers instead of stretched random pixels")
	flag.StringVar(&cfg.dither, "dither", "", "dither algorithm: basic, floyd or bayer")
	flag.IntVar(&cfg.factor, "factor", 0, "dither factor (0 = algorithm default)")
	flag.Float64Var(&cfg.scale, "scale", 1, "scale factor")
	flag.IntVar(&cfg.pixelate, "pixelate", 0, "pixelation block size (0 = off)")
	flag.StringVar(&cfg.interp, "interp", "bilinear", "resampler: nearest, bilinear, bilinear-exact or bicubic")
	flag.StringVar(&cfg.out, "out", "rasterfx.png", "output file (.png or .rfx)")
	flag.StringVar(&cfg.frames, "frames", "", "directory for per-layer noise frames")
	flag.IntVar(&cfg.workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	rasterfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pm, err := run(cfg)
	if err != nil {
		log.Fatalf("rasterfx: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("Saved %s (%dx%d, %d pixels)\n", cfg.out, pm.Width(), pm.Height(), pm.Width()*pm.Height())
}

func run(cfg config) (*rasterfx.Pixmap, error) {
	interp, err := rasterfx.ParseInterpolation(cfg.interp)
	if err != nil {
		return nil, err
	}
	opts := []rasterfx.Option{
		rasterfx.WithWorkers(cfg.workers),
		rasterfx.WithInterpolation(interp),
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return nil, err
	}

	pm, err := source(cfg, opts)
	if err != nil {
		return nil, err
	}

	rasterfx.Logger().Debug("running pipeline", "steps", pipeline.String())
	pm, err = pipeline.Run(pm, opts...)
	if err != nil {
		return nil, err
	}

	if err := save(pm, cfg.out); err != nil {
		return nil, err
	}
	rasterfx.Logger().Debug("saved", textureAttrs(pm)...)
	return pm, nil
}

// textureAttrs describes pm as a GPU host would upload it.
func textureAttrs(pm *rasterfx.Pixmap) []any {
	ext := pm.Extent()
	return []any{
		"format", pm.TextureFormat(),
		"width", ext.Width,
		"height", ext.Height,
		"layers", ext.DepthOrArrayLayers,
		"bytes", len(pm.Data()),
	}
}

func buildPipeline(cfg config) (*rasterfx.Pipeline, error) {
	p := rasterfx.NewPipeline()
	if cfg.dither != "" {
		alg, err := rasterfx.ParseDitherAlgorithm(cfg.dither)
		if err != nil {
			return nil, err
		}
		do := rasterfx.NewDitherOptions(alg)
		if cfg.factor != 0 {
			do.Factor = cfg.factor
		}
		if err := do.Validate(); err != nil {
			return nil, err
		}
		p.Then(rasterfx.DitherStep{Options: do})
	}
	if cfg.scale != 1 {
		p.Then(rasterfx.ScaleStep{Factor: cfg.scale})
	}
	if cfg.pixelate != 0 {
		p.Then(rasterfx.PixelateStep{Detail: cfg.pixelate})
	}
	return p, nil
}

// source loads -in, or generates a noise field of the -noise size.
func source(cfg config, opts []rasterfx.Option) (*rasterfx.Pixmap, error) {
	if cfg.in != "" {
		return load(cfg.in)
	}

	var w, h int
	if _, err := fmt.Sscanf(cfg.noise, "%dx%d", &w, &h); err != nil {
		return nil, fmt.Errorf("invalid -noise %q, want WxH: %w", cfg.noise, err)
	}
	layers := cfg.layers
	if layers == 0 {
		layers = rasterfx.MaxOctaveLayers(w, h)
	}

	if cfg.simplex {
		if cfg.frames != "" {
			return nil, errors.New("-frames is only supported for octave noise")
		}
		return rasterfx.GenerateSimplex(w, h, layers, cfg.gray, cfg.seed, opts...)
	}

	var frameErr error
	if cfg.frames != "" {
		if err := os.MkdirAll(cfg.frames, 0o750); err != nil {
			return nil, fmt.Errorf("create frames directory: %w", err)
		}
		opts = append(opts, rasterfx.WithLayerObserver(func(layer, scale int, pm *rasterfx.Pixmap) {
			path := filepath.Join(cfg.frames, fmt.Sprintf("layer-%02d.png", layer))
			if err := pm.SavePNG(path); err != nil {
				frameErr = errors.Join(frameErr, err)
				return
			}
			rasterfx.Logger().Debug("wrote frame", "layer", layer, "scale", scale, "path", path)
		}))
	}

	pm, err := rasterfx.GenerateOctaves(w, h, layers, cfg.gray, rasterfx.NewLCG(cfg.seed), opts...)
	if err != nil {
		return nil, err
	}
	return pm, frameErr
}

func isRaw(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".rfx")
}

func load(path string) (*rasterfx.Pixmap, error) {
	if !isRaw(path) {
		return rasterfx.LoadPNG(path)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return rasterfx.DecodeRaw(f)
}

func save(pm *rasterfx.Pixmap, path string) error {
	if !isRaw(path) {
		return pm.SavePNG(path)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := pm.EncodeRaw(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
