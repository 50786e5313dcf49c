package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// KeyState reports whether a physical key is currently held.
// Keys that were never reported are treated as released.
type KeyState interface {
	// Pressed reports whether the key is held.
	//
	// Parameters:
	//   - key: the key to query
	//
	// Returns:
	//   - bool: true if the key is held
	Pressed(key common.Key) bool
}

// MouseAccumulator buffers raw mouse-motion deltas between scene updates.
type MouseAccumulator interface {
	// Push appends one raw motion delta.
	//
	// Parameters:
	//   - dx, dy: motion since the previous event, in device units
	Push(dx, dy float32)

	// Drain returns the sum of all buffered deltas and empties the buffer.
	// A drain with nothing buffered returns (0, 0).
	//
	// Returns:
	//   - dx, dy: summed motion
	Drain() (dx, dy float32)

	// Pending returns the number of buffered deltas.
	//
	// Returns:
	//   - int: buffered delta count
	Pending() int
}

// State collects keyboard and mouse input delivered by the window event pump.
// It satisfies both KeyState and MouseAccumulator.
type State struct {
	mu    *sync.Mutex
	keys  map[common.Key]bool
	mouse [][2]float32
}

var _ KeyState = &State{}
var _ MouseAccumulator = &State{}

// NewState creates an empty input State.
//
// Returns:
//   - *State: the input state
func NewState() *State {
	return &State{
		mu:    &sync.Mutex{},
		keys:  make(map[common.Key]bool),
		mouse: make([][2]float32, 0, 16),
	}
}

// SetKey records a key press or release.
//
// Parameters:
//   - key: the key that changed
//   - pressed: true on press, false on release
func (s *State) SetKey(key common.Key, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = pressed
}

func (s *State) Pressed(key common.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *State) Push(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouse = append(s.mouse, [2]float32{dx, dy})
}

func (s *State) Drain() (dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.mouse {
		dx += d[0]
		dy += d[1]
	}
	s.mouse = s.mouse[:0]
	return dx, dy
}

func (s *State) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mouse)
}

// Axis returns +1 when only positive is held, -1 when only negative is held, and 0 otherwise.
//
// Parameters:
//   - keys: the key state to read
//   - positive: key contributing +1
//   - negative: key contributing -1
//
// Returns:
//   - float32: the axis value
func Axis(keys KeyState, positive, negative common.Key) float32 {
	var v float32
	if keys.Pressed(positive) {
		v++
	}
	if keys.Pressed(negative) {
		v--
	}
	return v
}
