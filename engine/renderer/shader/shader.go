package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which programmable stage a shader entry point belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader is a parsed WGSL stage. It exposes everything the renderer needs to build a
// pipeline from the source alone: the entry point, the vertex buffer layouts and the
// bind group layouts declared with @group/@binding.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and labels.
	Key() string

	// Source retrieves the WGSL source code.
	Source() string

	// Type returns the stage this shader was parsed for.
	Type() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// VertexLayouts returns the vertex buffer layouts derived from the vertex input struct.
	// Fragment shaders and vertex shaders without buffer input return nil.
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the parsed layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor returns the descriptor for one group, or an empty descriptor.
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindingName returns the WGSL variable name declared at group/binding, or "".
	BindingName(group, binding int) string

	// Binding looks up the binding index of a variable name within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	Binding(group int, name string) (int, bool)
}

var _ Shader = &shader{}

// NewShader parses WGSL source for a single stage.
// A module holding both a @vertex and a @fragment function can be parsed twice, once per stage.
//
// Parameters:
//   - key: unique identifier used for caching and GPU labels
//   - shaderType: the stage to extract
//   - source: the WGSL source, usually embedded with go:embed
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the source has no entry point for the requested stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	entry := parseEntryPoint(source, shaderType)
	if entry == "" {
		return nil, fmt.Errorf("shader %q: no @%s entry point", key, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
	}
	layouts, names := parseBindGroupLayouts(source, visibility)

	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		entryPoint:                 entry,
		bindGroupLayoutDescriptors: layouts,
		bindingVarNames:            names,
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(source)
	}
	return s, nil
}

// MustShader is NewShader for embedded sources known to be valid. It panics on error.
func MustShader(key string, shaderType ShaderType, source string) Shader {
	s, err := NewShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindingName(group, binding int) string {
	if names, ok := s.bindingVarNames[group]; ok {
		return names[binding]
	}
	return ""
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for binding, n := range s.bindingVarNames[group] {
		if n == name {
			return binding, true
		}
	}
	return -1, false
}
