package shader

// PreProcessorBuilderOption is a functional option for configuring a PreProcessor.
type PreProcessorBuilderOption func(*preProcessor)

// WithConstant pins a single override constant.
//
// Parameters:
//   - name: the override name as declared in WGSL
//   - value: the value substituted for it
//
// Returns:
//   - PreProcessorBuilderOption: a function that applies the constant
func WithConstant(name string, value float64) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		p.constants[name] = value
	}
}

// WithConstants pins every override constant in the map.
//
// Parameters:
//   - constants: override name to value
//
// Returns:
//   - PreProcessorBuilderOption: a function that applies the constants
func WithConstants(constants map[string]float64) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		for name, value := range constants {
			p.constants[name] = value
		}
	}
}
