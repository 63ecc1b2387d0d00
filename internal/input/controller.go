// Package input implements the NES standard controller protocol: a
// parallel-load, serial-shift-out register addressed through $4016/$4017.
package input

import "log"

// Button identifies one of the eight buttons on a standard NES pad, as a
// bitmask matching the hardware's shift-out order (A first, Right last).
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Short aliases, handy at call sites that read a whole keymap off of them.
const (
	A      = ButtonA
	B      = ButtonB
	Select = ButtonSelect
	Start  = ButtonStart
	Up     = ButtonUp
	Down   = ButtonDown
	Left   = ButtonLeft
	Right  = ButtonRight
)

// Controller models a single NES controller port. Button presses land in
// buttons immediately; strobing the port latches that snapshot into latch,
// which Read then shifts out one bit per call.
type Controller struct {
	buttons uint8
	latch   uint8
	strobe  bool
	bitsOut uint8

	reads, writes uint64
	debug         bool
}

// New creates a controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or clears a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons replaces the full button state at once, in NES shift order:
// A, B, Select, Start, Up, Down, Left, Right.
func (c *Controller) SetButtons(pressed [8]bool) {
	var buttons uint8
	order := [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
	for i, down := range pressed {
		if down {
			buttons |= uint8(order[i])
		}
	}
	c.buttons = buttons
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to $4016. Bit 0 is the strobe line: while high, the
// shift register continuously reloads from the live button state; the
// falling edge freezes whatever was latched for the read sequence that
// follows.
func (c *Controller) Write(value uint8) {
	c.writes++
	wasStrobing := c.strobe
	c.strobe = value&1 != 0

	if c.strobe || wasStrobing {
		c.latch = c.buttons
		c.bitsOut = 0
	}

	if c.debug {
		log.Printf("[input] write $4016 value=%#02x strobe=%t latch=%#02x", value, c.strobe, c.latch)
	}
}

// Read handles a read from $4016/$4017, returning the next shifted-out
// button bit in bit 0. After the eighth bit it reads back 1, as a standard
// controller does past its 8-button sequence.
func (c *Controller) Read() uint8 {
	c.reads++

	if c.strobe {
		c.bitsOut = 0
		return c.latch & 1
	}

	if c.bitsOut >= 8 {
		c.bitsOut++
		return 1
	}

	bit := c.latch & 1
	c.latch >>= 1
	c.bitsOut++

	if c.debug && c.bitsOut == 8 {
		log.Printf("[input] read $4016/7: %d bits shifted, last=%#02x", c.bitsOut, bit)
	}
	return bit
}

// Reset clears all controller state, as happens on system power-on.
func (c *Controller) Reset() {
	*c = Controller{debug: c.debug}
}

// EnableDebug turns per-access tracing on or off.
func (c *Controller) EnableDebug(enable bool) {
	c.debug = enable
}

// GetBitPosition reports how many bits have been shifted out of the
// current latch; exposed for tests exercising the read sequence.
func (c *Controller) GetBitPosition() uint8 {
	return c.bitsOut
}

// InputState owns both controller ports and routes $4016/$4017 accesses to
// them.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates an InputState with two fresh controllers.
func NewInputState() *InputState {
	return &InputState{
		Controller1: New(),
		Controller2: New(),
	}
}

// Reset resets both controller ports.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// EnableDebug turns tracing on or off for both ports.
func (is *InputState) EnableDebug(enable bool) {
	is.Controller1.EnableDebug(enable)
	is.Controller2.EnableDebug(enable)
}

// SetButtons1 sets controller 1's full button state.
func (is *InputState) SetButtons1(buttons [8]bool) {
	is.Controller1.SetButtons(buttons)
}

// SetButtons2 sets controller 2's full button state.
func (is *InputState) SetButtons2(buttons [8]bool) {
	is.Controller2.SetButtons(buttons)
}

// Read dispatches a CPU read to the addressed controller port. $4017 sets
// bit 6 on return, the NES's documented open-bus quirk for that register.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write broadcasts a $4016 write (the only writable controller port) to
// both controllers; they strobe in lockstep.
func (is *InputState) Write(address uint16, value uint8) {
	if address != 0x4016 {
		return
	}
	is.Controller1.Write(value)
	is.Controller2.Write(value)
}
