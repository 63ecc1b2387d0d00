package cpu

import "testing"

// flatMemory is a 64 KiB flat address space satisfying MemoryInterface, used
// to drive the CPU in isolation from the rest of the bus.
type flatMemory struct {
	data [0x10000]uint8
}

func (m *flatMemory) Read(address uint16) uint8        { return m.data[address] }
func (m *flatMemory) Write(address uint16, value uint8) { m.data[address] = value }

func newTestCPU(resetVectorTarget uint16) (*CPU, *flatMemory) {
	mem := &flatMemory{}
	mem.data[resetVector] = uint8(resetVectorTarget)
	mem.data[resetVector+1] = uint8(resetVectorTarget >> 8)
	return New(mem), mem
}

func TestResetLoadsVectorAndInitialRegisters(t *testing.T) {
	c, _ := newTestCPU(0xC000)

	c.Reset()

	if c.PC != 0xC000 {
		t.Fatalf("PC = %#04x, want %#04x", c.PC, 0xC000)
	}
	if c.SP != 0xFD {
		t.Fatalf("SP = %#02x, want 0xFD", c.SP)
	}
	if !c.I {
		t.Fatal("I flag should be set after reset")
	}
	if c.cycles != 7 {
		t.Fatalf("reset consumed %d cycles, want 7", c.cycles)
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	c.Reset()

	mem.data[0x8000] = 0xA9 // LDA #imm
	mem.data[0x8001] = 0x00
	c.Step()

	if c.A != 0x00 {
		t.Fatalf("A = %#02x, want 0x00", c.A)
	}
	if !c.Z {
		t.Fatal("Z flag should be set after loading zero")
	}
	if c.N {
		t.Fatal("N flag should be clear after loading zero")
	}

	mem.data[0x8002] = 0xA9
	mem.data[0x8003] = 0x80
	c.Step()

	if c.A != 0x80 {
		t.Fatalf("A = %#02x, want 0x80", c.A)
	}
	if !c.N {
		t.Fatal("N flag should be set after loading a negative value")
	}
}

func TestStallDelaysExecutionWithoutAdvancingPC(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	c.Reset()
	pc := c.PC

	mem.data[0x8000] = 0xEA // NOP
	c.Stall(3)

	for i := 0; i < 3; i++ {
		if c.PC != pc {
			t.Fatalf("PC advanced during stall cycle %d", i)
		}
		c.Step()
	}

	c.Step()
	if c.PC == pc {
		t.Fatal("PC did not advance once the stall elapsed")
	}
}

func TestIRQIgnoredWhileInterruptDisableSet(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	c.Reset()
	mem.data[irqVector] = 0x00
	mem.data[irqVector+1] = 0x90

	mem.data[0x8000] = 0xEA // NOP
	c.SetIRQ(true)
	c.Step()

	if c.PC == 0x9000 {
		t.Fatal("IRQ should be masked while I flag is set")
	}
}

func TestNMIAlwaysServicedRegardlessOfIFlag(t *testing.T) {
	c, mem := newTestCPU(0x8000)
	c.Reset()
	mem.data[nmiVector] = 0x00
	mem.data[nmiVector+1] = 0x90

	mem.data[0x8000] = 0xEA // NOP
	c.I = true
	c.TriggerNMI()
	c.Step()

	if c.PC != 0x9000 {
		t.Fatalf("PC = %#04x after NMI, want 0x9000", c.PC)
	}
}
