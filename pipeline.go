package rasterfx

import (
	"fmt"
	"strings"
)

// Step is one stage of a Pipeline. Apply may mutate pm in place and return
// it, or return a new pixmap when the size changes.
type Step interface {
	Apply(pm *Pixmap, opts ...Option) (*Pixmap, error)
	String() string
}

// DitherStep applies Dither.
type DitherStep struct {
	Options DitherOptions
}

// Apply implements Step.
func (s DitherStep) Apply(pm *Pixmap, opts ...Option) (*Pixmap, error) {
	return pm, Dither(pm, s.Options, opts...)
}

func (s DitherStep) String() string {
	return fmt.Sprintf("dither(%s, %d)", s.Options.Algorithm, s.Options.Factor)
}

// ScaleStep applies Scale.
type ScaleStep struct {
	Factor float64
}

// Apply implements Step.
func (s ScaleStep) Apply(pm *Pixmap, opts ...Option) (*Pixmap, error) {
	return Scale(pm, s.Factor, opts...)
}

func (s ScaleStep) String() string {
	return fmt.Sprintf("scale(%g)", s.Factor)
}

// PixelateStep applies Pixelate.
type PixelateStep struct {
	Detail int
}

// Apply implements Step.
func (s PixelateStep) Apply(pm *Pixmap, opts ...Option) (*Pixmap, error) {
	return pm, Pixelate(pm, s.Detail, opts...)
}

func (s PixelateStep) String() string {
	return fmt.Sprintf("pixelate(%d)", s.Detail)
}

// Pipeline chains steps in order, e.g. dither, then scale, then pixelate.
//
// Example:
//
//	p := rasterfx.NewPipeline(
//		rasterfx.DitherStep{Options: rasterfx.NewDitherOptions(rasterfx.DitherFloydSteinberg)},
//		rasterfx.ScaleStep{Factor: 4},
//		rasterfx.PixelateStep{Detail: 4},
//	)
//	out, err := p.Run(pm, rasterfx.WithWorkers(0))
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline from steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Then appends a step and returns the pipeline.
func (p *Pipeline) Then(s Step) *Pipeline {
	p.steps = append(p.steps, s)
	return p
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run applies each step in order and returns the final pixmap. On error the
// step index and name are included; steps before it have already run.
func (p *Pipeline) Run(pm *Pixmap, opts ...Option) (*Pixmap, error) {
	if pm == nil {
		return nil, ErrNilPixmap
	}
	cur := pm
	for i, s := range p.steps {
		next, err := s.Apply(cur, opts...)
		if err != nil {
			return nil, fmt.Errorf("rasterfx: step %d %s: %w", i, s, err)
		}
		Logger().Debug("pipeline step", "index", i, "step", s.String(),
			"width", next.Width(), "height", next.Height())
		cur = next
	}
	return cur, nil
}

func (p *Pipeline) String() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.String()
	}
	return strings.Join(names, " -> ")
}
