package postfx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
)

// ErrInvalidStages is returned when a stage list cannot form a chain.
var ErrInvalidStages = errors.New("invalid post-processing stages")

// StageKind identifies a post-processing stage.
type StageKind int

const (
	// StageRender draws the scene into the first offscreen target.
	StageRender StageKind = iota
	// StageRGBShift offsets the red and blue channels in opposite directions.
	StageRGBShift
	// StageGammaCorrection encodes linear colour with the sRGB transfer function.
	StageGammaCorrection
	// StageBloom adds a blurred copy of the bright areas.
	StageBloom
	// StageFilmGrain adds animated noise.
	StageFilmGrain
	// StageOutput copies the final target to the screen. The chain appends it itself,
	// it is never part of a descriptor list.
	StageOutput
)

var stageKindNames = map[StageKind]string{
	StageRender:          "render",
	StageRGBShift:        "rgb_shift",
	StageGammaCorrection: "gamma",
	StageBloom:           "bloom",
	StageFilmGrain:       "film_grain",
	StageOutput:          "output",
}

func (k StageKind) String() string {
	if name, ok := stageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StageKind(%d)", int(k))
}

// ParseStageKind maps a configuration name such as "bloom" back to its StageKind.
//
// Parameters:
//   - name: the stage name, case-insensitive
//
// Returns:
//   - StageKind: the kind
//   - error: an error wrapping ErrInvalidStages for an unknown name
func ParseStageKind(name string) (StageKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range stageKindNames {
		if n == name && k != StageOutput {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stage %q", ErrInvalidStages, name)
}

// StageParams carries the tunables of every stage kind. Each stage reads only its own fields.
type StageParams struct {
	// Amount is the RGB shift distance in uv units.
	Amount float32
	// Angle is the RGB shift direction in radians.
	Angle float32

	// Strength scales the bloom added back onto the image.
	Strength float32
	// Radius scales the bloom blur spread.
	Radius float32
	// Threshold is the luminance above which pixels bloom.
	Threshold float32

	// Intensity is the film grain strength.
	Intensity float32
	// Grayscale converts the grained image to luminance.
	Grayscale bool
}

// StageDescriptor describes one stage of a chain.
type StageDescriptor struct {
	Kind    StageKind
	Enabled bool
	Params  StageParams
}

// DefaultStages returns the synthwave chain: render, RGB shift, gamma, bloom and a disabled
// film grain.
func DefaultStages() []StageDescriptor {
	return []StageDescriptor{
		{Kind: StageRender, Enabled: true},
		{Kind: StageRGBShift, Enabled: true, Params: StageParams{Amount: 0.001}},
		{Kind: StageGammaCorrection, Enabled: true},
		{Kind: StageBloom, Enabled: true, Params: StageParams{Strength: 0.9, Radius: 0.5, Threshold: 0.85}},
		{Kind: StageFilmGrain, Enabled: false, Params: StageParams{Intensity: 0.35}},
	}
}

// ValidateStages checks that a stage list can form a chain: a single enabled render stage
// first, followed by known effect kinds.
//
// Parameters:
//   - stages: the descriptors to check
//
// Returns:
//   - error: an error wrapping ErrInvalidStages, nil when the list is valid
func ValidateStages(stages []StageDescriptor) error {
	if len(stages) == 0 {
		return fmt.Errorf("%w: empty stage list", ErrInvalidStages)
	}
	if stages[0].Kind != StageRender {
		return fmt.Errorf("%w: first stage is %s, want render", ErrInvalidStages, stages[0].Kind)
	}
	if !stages[0].Enabled {
		return fmt.Errorf("%w: render stage is disabled", ErrInvalidStages)
	}
	for i, s := range stages[1:] {
		switch s.Kind {
		case StageRGBShift, StageGammaCorrection, StageBloom, StageFilmGrain:
		case StageRender:
			return fmt.Errorf("%w: duplicate render stage at %d", ErrInvalidStages, i+1)
		default:
			return fmt.Errorf("%w: unsupported stage %s at %d", ErrInvalidStages, s.Kind, i+1)
		}
	}
	return nil
}

// Frame is the per-frame information handed to every stage.
type Frame struct {
	// Index counts rendered frames from 0.
	Index uint64
	// Elapsed is the time since the loop started, in seconds.
	Elapsed float64
	// Delta is the time since the previous frame, in seconds.
	Delta float64
}

// Target is a colour buffer a stage reads from or renders into.
type Target = renderer.RenderTarget

// TargetFactory allocates the chain's offscreen buffers. renderer.Renderer implements it.
type TargetFactory interface {
	NewTarget(label string, width, height int) (Target, error)
	ResizeTarget(t Target, width, height int) error
}

// Stage is one pass of the chain.
type Stage interface {
	// Name returns the stage name used in logs and errors.
	Name() string

	// Resize reallocates any stage-owned buffers for a new output size.
	//
	// Parameters:
	//   - width, height: the new size in pixels, at least 1
	//
	// Returns:
	//   - error: an error if a buffer cannot be allocated
	Resize(width, height int) error

	// Render reads input and writes output. The render stage receives a nil input.
	//
	// Parameters:
	//   - frame: timing of the current frame
	//   - input: the previous stage's output
	//   - output: the target to render into
	//
	// Returns:
	//   - error: an error if the pass cannot be encoded
	Render(frame Frame, input, output Target) error
}

// StageBuilder creates the Stage for a descriptor. The chain calls it once per descriptor
// and once more with StageOutput.
type StageBuilder func(desc StageDescriptor) (Stage, error)
