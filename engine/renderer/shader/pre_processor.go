// pre_processor.go implements the Oxy WGSL shader pre-processor. It replaces @oxy:
// annotations with injected struct sources or generated binding declarations, and
// pins pipeline-overridable constants to concrete values before compilation.
//
// The pre-processor keeps two registries:
//   - structRegistry: maps AnnotationArg keys to embedded WGSL struct sources and their
//     WGSL type names. Used by @oxy:include and by the type field of @oxy:group.
//   - addressSpaceRegistry: maps address space keys to WGSL var<> syntax strings.
package shader

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

var (
	// ErrUndeclaredConstant is returned when a constant is supplied for an override that the source does not declare.
	ErrUndeclaredConstant = errors.New("shader: constant has no override declaration")

	// ErrInvalidConstant is returned when a constant value cannot be represented by its declared WGSL type.
	ErrInvalidConstant = errors.New("shader: constant value does not fit its declared type")
)

// overridePattern matches `override NAME: T;` and `override NAME: T = default;`,
// optionally preceded by an @id(N) attribute.
var overridePattern = regexp.MustCompile(`^(\s*)(?:@id\(\s*\d+\s*\)\s*)?override\s+([A-Za-z_][A-Za-z0-9_]*)\s*:\s*([A-Za-z0-9_]+)\s*(?:=\s*[^;]+)?;\s*$`)

type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations.
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	constants            map[string]float64

	// declarations accumulates AnnotationTypeBindingGroup annotations during a Process call.
	declarations []Annotation
}

// PreProcessor turns annotated WGSL source into plain WGSL ready for compilation.
type PreProcessor interface {
	// Process pre-processes WGSL source. @oxy:include lines are replaced with the registered
	// struct source, @oxy:group lines with generated @group/@binding declarations, and every
	// override declaration whose name has a configured constant with a const declaration.
	//
	// The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: a malformed annotation, ErrUndeclaredConstant or ErrInvalidConstant
	Process(source string) (string, error)

	// Declarations returns the @oxy:group annotations collected during the most recent
	// call to Process, in source order.
	//
	// Returns:
	//   - []Annotation: the binding declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with the engine's struct types registered.
//
// Parameters:
//   - options: optional PreProcessorBuilderOption functions
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorBuilderOption) PreProcessor {
	p := &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:           {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgObject:           {Source: model.GPUObjectSource, Type: "ObjectUniform"},
			annotationArgVertex:           {Source: model.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgPointLight:       {Source: light.GPUPointLightSource, Type: "PointLight"},
			AnnotationArgDirectionalLight: {Source: light.GPUDirectionalLightSource, Type: "DirectionalLight"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			AnnotationArgUniform:     "var<uniform>",
			AnnotationArgStorageRead: "var<storage, read>",
		},
		constants: make(map[string]float64),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Preprocess pins the given override constants in source and expands its annotations.
//
// Parameters:
//   - source: the raw WGSL shader source code
//   - constants: override name to value
//
// Returns:
//   - string: the processed WGSL source
//   - error: see PreProcessor.Process
func Preprocess(source string, constants map[string]float64) (string, error) {
	return NewPreProcessor(WithConstants(constants)).Process(source)
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	seen := make(map[string]bool, len(p.constants))

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			replaced, name, err := p.pinOverride(line, i+1)
			if err != nil {
				return "", err
			}
			if name != "" {
				seen[name] = true
			}
			out = append(out, replaced)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			inner, isArray := unwrapArray(string(a.Args[2]))
			wgslType := p.structRegistry[AnnotationArg(inner)].Type
			if isArray {
				wgslType = fmt.Sprintf("array<%s>", wgslType)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		}
	}

	var missing []string
	for name := range p.constants {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrUndeclaredConstant, strings.Join(missing, ", "))
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// pinOverride rewrites an override declaration into a const declaration when a value is
// configured for it. Returns the line unchanged and an empty name otherwise.
func (p *preProcessor) pinOverride(line string, lineNum int) (string, string, error) {
	m := overridePattern.FindStringSubmatch(line)
	if m == nil {
		return line, "", nil
	}
	indent, name, typ := m[1], m[2], m[3]
	value, ok := p.constants[name]
	if !ok {
		return line, "", nil
	}

	switch typ {
	case "u32", "i32":
		if value != math.Trunc(value) || (typ == "u32" && value < 0) {
			return "", "", fmt.Errorf("line %d: %w: %s: %s = %v", lineNum, ErrInvalidConstant, name, typ, value)
		}
	}
	literal := strconv.FormatFloat(value, 'f', -1, 64)
	return fmt.Sprintf("%sconst %s: %s = %s(%s);", indent, name, typ, typ, literal), name, nil
}
