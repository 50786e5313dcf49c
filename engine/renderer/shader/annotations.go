// annotations.go defines the @oxy: annotation syntax recognised inside WGSL comment lines.
// Annotations inject the engine's canonical struct sources and generate @group/@binding
// declarations, so the shader and the Go GPU types cannot drift apart.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered WGSL struct source in place of the annotation.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include camera
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 1 0 storage_read point_lights array<point_light>
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation is a single parsed @oxy: annotation.
// Group and Binding are only set for AnnotationTypeBindingGroup.
type Annotation struct {
	Type    AnnotationType
	Args    []AnnotationArg
	Line    int
	Group   *int
	Binding *int
}

// AnnotationArg is a typed argument of an annotation: a struct type or an address space.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────

const (
	// AnnotationArgCamera identifies the CameraUniform struct.
	// Source: engine/camera/assets/camera_uniform.wgsl
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgObject identifies the ObjectUniform struct.
	// Source: engine/model/assets/object.wgsl
	AnnotationArgObject AnnotationArg = "object"

	// annotationArgVertex identifies the VertexInput struct.
	// Source: engine/model/assets/vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgPointLight identifies the PointLight struct.
	// Source: engine/light/assets/point_light.wgsl
	AnnotationArgPointLight AnnotationArg = "point_light"

	// AnnotationArgDirectionalLight identifies the DirectionalLight struct.
	// Source: engine/light/assets/directional_light.wgsl
	AnnotationArgDirectionalLight AnnotationArg = "directional_light"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	// AnnotationArgUniform maps to var<uniform>.
	AnnotationArgUniform AnnotationArg = "uniform"

	// AnnotationArgStorageRead maps to var<storage, read>.
	AnnotationArgStorageRead AnnotationArg = "storage_read"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgObject,
	annotationArgVertex,
	AnnotationArgPointLight,
	AnnotationArgDirectionalLight,
}

var validAddressSpaces = []AnnotationArg{
	AnnotationArgUniform,
	AnnotationArgStorageRead,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires five arguments (group, binding, address space, name, type)", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation: %w", lineNum, args[1], err)
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation: %w", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		typeArg, _ := unwrapArray(args[5])
		if !slices.Contains(validStructTypes, AnnotationArg(typeArg)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

// unwrapArray strips an array<...> wrapper from a type argument.
func unwrapArray(typeArg string) (string, bool) {
	inner, ok := strings.CutPrefix(typeArg, "array<")
	if !ok {
		return typeArg, false
	}
	return strings.TrimSuffix(inner, ">"), true
}
