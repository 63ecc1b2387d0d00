package input

import "testing"

func TestControllerShiftsOutButtonsInStandardOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	c.Write(1) // strobe high
	c.Write(0) // strobe low, latches current button state

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: Read() = %d, want %d", i, got, w)
		}
	}
}

func TestControllerReadsOnesAfterEighthBit(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)

	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("9th Read() = %d, want 1 past the 8-button sequence", got)
	}
}

func TestControllerStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1) // strobe stays high

	if got := c.Read(); got != 1 {
		t.Fatalf("Read() during strobe = %d, want 1 (button A pressed)", got)
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("second Read() during strobe = %d, want 1 (strobe keeps returning A)", got)
	}
}

func TestInputStateRoutesControllerPortsByAddress(t *testing.T) {
	is := NewInputState()
	is.SetButtons1([8]bool{true, false, false, false, false, false, false, false})

	is.Write(0x4016, 1)
	is.Write(0x4016, 0)

	if got := is.Read(0x4016); got != 1 {
		t.Fatalf("Read(0x4016) = %d, want 1", got)
	}
}
