package surface

// ManagerBuilderOption is a functional option used to configure a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithWindowSize sets the provider of the current framebuffer size. Recovery reconfigures
// use it instead of the last configured size when it reports a non-zero size.
//
// Parameters:
//   - size: returns the framebuffer width and height in pixels
//
// Returns:
//   - ManagerBuilderOption: a function that sets the size provider
func WithWindowSize(size func() (int, int)) ManagerBuilderOption {
	return func(m *manager) {
		m.windowSize = size
	}
}
