package postfx

import (
	"errors"
	"fmt"
)

type chainStage struct {
	desc  StageDescriptor
	stage Stage
}

// Chain runs the scene render followed by every enabled effect stage, ping-ponging between two
// offscreen targets, and presents the result through the output stage.
type Chain struct {
	stages  []chainStage
	output  Stage
	targets TargetFactory
	buffers [2]Target
	width   int
	height  int
}

// NewChain validates the descriptors, builds a stage for each of them (disabled ones too, so
// they can be enabled later) and allocates the ping-pong targets.
//
// Parameters:
//   - descriptors: the ordered stage list, render first
//   - build: creates the Stage for each descriptor
//   - targets: allocates the offscreen buffers
//   - width, height: the initial output size, clamped to at least 1
//
// Returns:
//   - *Chain: the chain, with every stage already sized
//   - error: an error wrapping ErrInvalidStages, or a build or allocation error
func NewChain(descriptors []StageDescriptor, build StageBuilder, targets TargetFactory, width, height int) (*Chain, error) {
	if err := ValidateStages(descriptors); err != nil {
		return nil, err
	}
	width, height = max(width, 1), max(height, 1)

	c := &Chain{
		stages:  make([]chainStage, 0, len(descriptors)),
		targets: targets,
		width:   width,
		height:  height,
	}
	for _, d := range descriptors {
		s, err := build(d)
		if err != nil {
			return nil, fmt.Errorf("build %s stage: %w", d.Kind, err)
		}
		c.stages = append(c.stages, chainStage{desc: d, stage: s})
	}
	output, err := build(StageDescriptor{Kind: StageOutput, Enabled: true})
	if err != nil {
		return nil, fmt.Errorf("build output stage: %w", err)
	}
	c.output = output

	for i, label := range []string{"postfx ping", "postfx pong"} {
		t, err := targets.NewTarget(label, width, height)
		if err != nil {
			return nil, fmt.Errorf("allocate %s: %w", label, err)
		}
		c.buffers[i] = t
	}
	if err := c.resizeStages(); err != nil {
		return nil, err
	}
	return c, nil
}

// Render executes the chain for one frame. Stage 0 renders the scene into the first buffer,
// each enabled stage reads the previous output and writes the other buffer, and the output
// stage copies the last result to screen.
//
// Parameters:
//   - frame: timing of the current frame
//   - screen: the presentation target
//
// Returns:
//   - error: the first stage error, wrapped with the stage name; later stages are skipped
func (c *Chain) Render(frame Frame, screen Target) error {
	if screen == nil {
		return errors.New("render chain: no screen target")
	}

	current := 0
	if err := c.stages[0].stage.Render(frame, nil, c.buffers[current]); err != nil {
		return fmt.Errorf("%s: %w", c.stages[0].stage.Name(), err)
	}
	for _, s := range c.stages[1:] {
		if !s.desc.Enabled {
			continue
		}
		next := 1 - current
		if err := s.stage.Render(frame, c.buffers[current], c.buffers[next]); err != nil {
			return fmt.Errorf("%s: %w", s.stage.Name(), err)
		}
		current = next
	}
	if err := c.output.Render(frame, c.buffers[current], screen); err != nil {
		return fmt.Errorf("%s: %w", c.output.Name(), err)
	}
	return nil
}

// Resize resizes both buffers and every stage, enabled or not, before returning.
// Sizes below 1 clamp to 1.
//
// Parameters:
//   - width, height: the new output size in pixels
//
// Returns:
//   - error: all buffer and stage errors joined
func (c *Chain) Resize(width, height int) error {
	c.width, c.height = max(width, 1), max(height, 1)

	var errs []error
	for _, t := range c.buffers {
		if err := c.targets.ResizeTarget(t, c.width, c.height); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.resizeStages(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Chain) resizeStages() error {
	var errs []error
	for _, s := range c.stages {
		if err := s.stage.Resize(c.width, c.height); err != nil {
			errs = append(errs, fmt.Errorf("resize %s: %w", s.stage.Name(), err))
		}
	}
	if err := c.output.Resize(c.width, c.height); err != nil {
		errs = append(errs, fmt.Errorf("resize %s: %w", c.output.Name(), err))
	}
	return errors.Join(errs...)
}

// SetEnabled turns every effect stage of a kind on or off. The render stage cannot be disabled.
//
// Parameters:
//   - kind: the stage kind
//   - enabled: the new state
//
// Returns:
//   - bool: true if at least one stage matched
func (c *Chain) SetEnabled(kind StageKind, enabled bool) bool {
	if kind == StageRender {
		return false
	}
	found := false
	for i := range c.stages {
		if c.stages[i].desc.Kind == kind {
			c.stages[i].desc.Enabled = enabled
			found = true
		}
	}
	return found
}

// Stages returns the current stage descriptors in chain order.
func (c *Chain) Stages() []StageDescriptor {
	out := make([]StageDescriptor, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.desc
	}
	return out
}

// Size returns the output size the chain is allocated for.
func (c *Chain) Size() (int, int) {
	return c.width, c.height
}

// Release frees stage resources and the offscreen buffers when they support it.
func (c *Chain) Release() {
	type releaser interface{ Release() }
	for _, s := range c.stages {
		if r, ok := s.stage.(releaser); ok {
			r.Release()
		}
	}
	if r, ok := c.output.(releaser); ok {
		r.Release()
	}
	for _, t := range c.buffers {
		if r, ok := t.(releaser); ok {
			r.Release()
		}
	}
}
