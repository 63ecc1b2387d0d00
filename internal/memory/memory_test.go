package memory

import (
	"testing"

	"gones/internal/cartridge"
)

type stubPPU struct {
	reads  []uint16
	writes map[uint16]uint8
}

func newStubPPU() *stubPPU { return &stubPPU{writes: map[uint16]uint8{}} }

func (p *stubPPU) ReadRegister(address uint16) uint8 {
	p.reads = append(p.reads, address)
	return 0x42
}

func (p *stubPPU) WriteRegister(address uint16, value uint8) {
	p.writes[address] = value
}

type stubAPU struct {
	writes map[uint16]uint8
}

func newStubAPU() *stubAPU { return &stubAPU{writes: map[uint16]uint8{}} }

func (a *stubAPU) WriteRegister(address uint16, value uint8) { a.writes[address] = value }
func (a *stubAPU) ReadStatus() uint8                         { return 0x1F }

func TestReadRAMIsMirroredEveryEightHundredBytes(t *testing.T) {
	mem := New(newStubPPU(), newStubAPU(), nil)

	mem.Write(0x0001, 0x55)

	for _, mirror := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := mem.Read(mirror); got != 0x55 {
			t.Errorf("Read(%#04x) = %#02x, want 0x55", mirror, got)
		}
	}
}

func TestPPURegistersAreMirroredAcrossTwoKilobytes(t *testing.T) {
	ppu := newStubPPU()
	mem := New(ppu, newStubAPU(), nil)

	mem.Read(0x2002)
	mem.Read(0x3FFA) // mirrors 0x2002 ($3FFA & 7 == 2)

	if len(ppu.reads) != 2 || ppu.reads[0] != 0x2002 || ppu.reads[1] != 0x2002 {
		t.Fatalf("ppu.reads = %v, want two reads of 0x2002", ppu.reads)
	}
}

func TestOAMDMACallbackIsInvokedInsteadOfSynchronousCopy(t *testing.T) {
	mem := New(newStubPPU(), newStubAPU(), nil)

	var gotPage uint8
	called := false
	mem.SetDMACallback(func(page uint8) {
		called = true
		gotPage = page
	})

	mem.Write(0x4014, 0x02)

	if !called {
		t.Fatal("DMA callback was not invoked")
	}
	if gotPage != 0x02 {
		t.Fatalf("DMA callback page = %#02x, want 0x02", gotPage)
	}
}

func TestPPUMemoryNametableMirroringFollowsLiveMirrorMode(t *testing.T) {
	cart := cartridge.NewMockCartridge()
	cart.SetMirroring(cartridge.MirrorVertical)
	pm := NewPPUMemory(cart)

	pm.Write(0x2000, 0xAB)

	// Vertical mirroring: nametable 0 and nametable 2 ($2800) share a bank.
	if got := pm.Read(0x2800); got != 0xAB {
		t.Fatalf("Read(0x2800) = %#02x, want 0xAB under vertical mirroring", got)
	}
	// Nametable 1 ($2400) must not alias nametable 0 under vertical mirroring.
	if got := pm.Read(0x2400); got == 0xAB {
		t.Fatal("nametable 1 should not alias nametable 0 under vertical mirroring")
	}

	cart.SetMirroring(cartridge.MirrorSingleScreen0)
	pm.Write(0x2000, 0xCD)
	if got := pm.Read(0x2C00); got != 0xCD {
		t.Fatalf("Read(0x2C00) = %#02x, want 0xCD under single-screen mirroring", got)
	}
}

func TestPaletteMirroringOfBackdropEntries(t *testing.T) {
	cart := cartridge.NewMockCartridge()
	pm := NewPPUMemory(cart)

	pm.Write(0x3F00, 0x20)

	if got := pm.Read(0x3F10); got != 0x20 {
		t.Fatalf("Read(0x3F10) = %#02x, want 0x20 (mirrors universal backdrop)", got)
	}
}
