package bus

import (
	"bytes"
	"testing"

	"gones/internal/cartridge"
)

// buildNROM builds a minimal 32 KiB NROM (mapper 0) iNES image whose reset
// vector points at a short program.
func buildNROM(program map[uint16]uint8, resetVector uint16) *bytes.Reader {
	header := []byte{'N', 'E', 'S', 0x1A, 2, 1, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 32768)
	prg[0x7FFC] = uint8(resetVector)
	prg[0x7FFD] = uint8(resetVector >> 8)
	for addr, value := range program {
		prg[addr-0x8000] = value
	}
	chr := make([]byte, 8192)

	buf := make([]byte, 0, len(header)+len(prg)+len(chr))
	buf = append(buf, header...)
	buf = append(buf, prg...)
	buf = append(buf, chr...)
	return bytes.NewReader(buf)
}

func newTestBus(t *testing.T, program map[uint16]uint8, resetVector uint16) *Bus {
	t.Helper()
	cart, err := cartridge.LoadFromReader(buildNROM(program, resetVector))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	b := New()
	b.LoadCartridge(cart)
	return b
}

func TestLoadCartridgeResetsCPUToResetVector(t *testing.T) {
	b := newTestBus(t, map[uint16]uint8{0xC000: 0xEA}, 0xC000)

	if b.CPU.PC != 0xC000 {
		t.Fatalf("PC = %#04x, want 0xC000", b.CPU.PC)
	}
}

func TestStepAdvancesCPUAndPPUInLockstep(t *testing.T) {
	b := newTestBus(t, map[uint16]uint8{0xC000: 0xEA, 0xC001: 0xEA}, 0xC000)

	startCycles := b.GetCycleCount()
	b.Step()
	cpuCyclesSpent := b.GetCycleCount() - startCycles
	if cpuCyclesSpent == 0 {
		t.Fatal("Step() did not advance the CPU cycle counter")
	}
	if b.ppuCycles != cpuCyclesSpent*3 {
		t.Fatalf("ppuCycles = %d, want %d (3x cpu cycles)", b.ppuCycles, cpuCyclesSpent*3)
	}
}

func TestTriggerOAMDMACopies256BytesFromSourcePage(t *testing.T) {
	b := newTestBus(t, map[uint16]uint8{0xC000: 0xEA}, 0xC000)

	for i := uint16(0); i < 256; i++ {
		b.Memory.Write(0x0200+i, uint8(i))
	}

	b.TriggerOAMDMA(0x02)

	for i := 0; i < 256; i++ {
		b.PPU.WriteRegister(0x2003, uint8(i))
		if got := b.PPU.ReadRegister(0x2004); got != uint8(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, uint8(i))
		}
	}

	if b.IsDMAInProgress() {
		t.Fatal("DMA should have completed synchronously")
	}
}

func TestTriggerOAMDMAStallsTheCPUForTheExpectedCycleCount(t *testing.T) {
	b := newTestBus(t, map[uint16]uint8{0xC000: 0xEA, 0xC001: 0xEA}, 0xC000)

	before := b.CPU.PC
	b.TriggerOAMDMA(0x02)

	// The stall is consumed one Step() at a time without advancing PC.
	stalledSteps := 0
	for i := 0; i < 600; i++ {
		if b.CPU.PC != before {
			break
		}
		b.Step()
		stalledSteps++
	}
	if stalledSteps < 513 {
		t.Fatalf("CPU resumed after only %d stalled steps, want at least 513", stalledSteps)
	}
}

func TestMapperIRQWithoutAnIRQSourceNeverAssertsCPUIRQLine(t *testing.T) {
	// CLI first, so an asserted IRQ line would be taken and vector through
	// the zeroed $FFFE/$FFFF to PC 0.
	b := newTestBus(t, map[uint16]uint8{0xC000: 0x58, 0xC001: 0x4C, 0xC002: 0x00, 0xC003: 0xC0}, 0xC000)

	for i := 0; i < 1000; i++ {
		b.Step()
	}

	if b.CPU.PC == 0 {
		t.Fatal("CPU should be executing the jump loop, not sitting at PC 0")
	}
}
