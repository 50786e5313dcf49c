package common

// Key identifies a physical keyboard key.
// Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeyW     Key = 87  // W key (ASCII)
	KeyA     Key = 65  // A key (ASCII)
	KeyS     Key = 83  // S key (ASCII)
	KeyD     Key = 68  // D key (ASCII)
	KeyQ     Key = 81  // Q key (ASCII)
	KeyE     Key = 69  // E key (ASCII)
	KeySpace Key = 32  // Spacebar (ASCII)
	KeyEsc   Key = 256 // Escape key (GLFW)

	KeyLeftShift  Key = 340 // Left Shift (GLFW)
	KeyRightShift Key = 344 // Right Shift (GLFW)
)
