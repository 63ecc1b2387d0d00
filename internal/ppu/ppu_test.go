package ppu

import (
	"testing"

	"gones/internal/cartridge"
	"gones/internal/memory"
)

func newTestPPU() *PPU {
	p := New()
	cart := cartridge.NewMockCartridge()
	p.SetMemory(memory.NewPPUMemory(cart))
	p.Reset()
	return p
}

func TestResetSetsVBlankFlagAndClearsSprite0Hit(t *testing.T) {
	p := newTestPPU()

	if !p.IsVBlank() {
		t.Fatal("PPUSTATUS should read VBlank set immediately after reset")
	}
	if p.sprite0Hit {
		t.Fatal("sprite 0 hit should be clear after reset")
	}
}

func TestWriteRegisterPPUCTRLIsReflectedByNMIEnabled(t *testing.T) {
	p := newTestPPU()

	p.WriteRegister(0x2000, 0x80)
	if !p.NMIEnabled() {
		t.Fatal("NMIEnabled() should be true after setting PPUCTRL bit 7")
	}

	p.WriteRegister(0x2000, 0x00)
	if p.NMIEnabled() {
		t.Fatal("NMIEnabled() should be false after clearing PPUCTRL bit 7")
	}
}

func TestNMIEnabledDoesNotMutatePPUSTATUS(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0x2000, 0x80)

	before := p.IsVBlank()
	p.NMIEnabled()
	after := p.IsVBlank()

	if before != after {
		t.Fatal("NMIEnabled() must not have read side effects on PPUSTATUS")
	}
}

func TestReadRegisterPPUSTATUSClearsVBlankAndWriteLatch(t *testing.T) {
	p := newTestPPU()
	p.writePPUScroll(0x10) // sets the write latch (w = true)

	status := p.ReadRegister(0x2002)
	if status&0x80 == 0 {
		t.Fatal("first read of PPUSTATUS should report VBlank set")
	}
	if p.w {
		t.Fatal("reading PPUSTATUS should clear the write latch")
	}
	if p.ppuStatus&0x80 != 0 {
		t.Fatal("reading PPUSTATUS should clear the VBlank flag")
	}
}

func TestEnableBackgroundDebugLoggingTogglesPaletteOverlay(t *testing.T) {
	p := newTestPPU()
	// These hooks switch the palette overlay drawn at the end of each frame
	// and widen it for any verbosity above 0.
	p.EnableBackgroundDebugLogging(true)
	p.SetBackgroundDebugVerbosity(2)
	if !p.debugOverlay || !p.debugOverlayWide {
		t.Fatalf("debugOverlay = %t, debugOverlayWide = %t, want both true", p.debugOverlay, p.debugOverlayWide)
	}
}
