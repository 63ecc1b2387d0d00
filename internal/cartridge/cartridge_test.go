package cartridge

import (
	"bytes"
	"testing"
)

func buildINES(prgBanks, chrBanks int, flags6, flags7 uint8) []byte {
	header := []byte{'N', 'E', 'S', 0x1A, byte(prgBanks), byte(chrBanks), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := make([]byte, 0, len(header)+prgBanks*16384+chrBanks*8192)
	buf = append(buf, header...)
	buf = append(buf, make([]byte, prgBanks*16384)...)
	buf = append(buf, make([]byte, chrBanks*8192)...)
	return buf
}

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	bad := []byte{'B', 'A', 'D', 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	bad = append(bad, make([]byte, 16384+8192)...)

	if _, err := LoadFromReader(bytes.NewReader(bad)); err == nil {
		t.Fatal("expected an error loading a file with an invalid iNES magic")
	}
}

func TestLoadFromReaderAllocatesCHRRAMWhenCHRSizeIsZero(t *testing.T) {
	rom := buildINES(1, 0, 0x00, 0x00)

	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if !cart.hasCHRRAM {
		t.Fatal("expected hasCHRRAM to be true when the header's CHR size is zero")
	}
	if len(cart.chrROM) != 8192 {
		t.Fatalf("chrROM len = %d, want 8192", len(cart.chrROM))
	}
}

func TestLoadFromReaderParsesMirroringAndMapperID(t *testing.T) {
	// Mapper 1 (MMC1), vertical mirroring, no battery, no four-screen.
	flags6 := uint8(0x11) // mapper low nibble = 1, vertical mirroring bit set
	flags7 := uint8(0x00)
	rom := buildINES(2, 1, flags6, flags7)

	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.mapperID != 1 {
		t.Fatalf("mapperID = %d, want 1", cart.mapperID)
	}
	if cart.mirror != MirrorVertical {
		t.Fatalf("parsed header mirroring = %v, want MirrorVertical", cart.mirror)
	}
}

func TestLoadFromReaderRejectsUnsupportedMapper(t *testing.T) {
	// Mapper ID 255 (low nibble 0xF, high nibble 0xF0) has no registered mapper.
	rom := buildINES(1, 1, 0xF0, 0xF0)

	_, err := LoadFromReader(bytes.NewReader(rom))
	if err == nil {
		t.Fatal("expected an error loading a ROM with an unsupported mapper ID")
	}
	if _, ok := err.(*ErrUnsupportedMapper); !ok {
		t.Fatalf("err = %T, want *ErrUnsupportedMapper", err)
	}
}

func TestMirrorModeCoefficients(t *testing.T) {
	cases := []struct {
		mode MirrorMode
		want [4]uint8
	}{
		{MirrorHorizontal, [4]uint8{0, 0, 1, 1}},
		{MirrorVertical, [4]uint8{0, 1, 0, 1}},
		{MirrorSingleScreen0, [4]uint8{0, 0, 0, 0}},
		{MirrorSingleScreen1, [4]uint8{1, 1, 1, 1}},
		{MirrorFourScreen, [4]uint8{0, 1, 2, 3}},
	}

	for _, c := range cases {
		if got := c.mode.Coefficients(); got != c.want {
			t.Errorf("MirrorMode(%d).Coefficients() = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestCartridgeIRQHooksAreNoOpsForMappersWithoutAnIRQSource(t *testing.T) {
	rom := buildINES(1, 1, 0x00, 0x00) // mapper 0 (NROM), no IRQ source

	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cart.IRQPending() {
		t.Fatal("NROM has no IRQ source; IRQPending() should be false")
	}
	// Must not panic even though mapper000 implements none of the optional
	// notification interfaces.
	cart.ClearIRQ()
	cart.NotifyScanline()
	cart.NotifyCPUTick(4)
}
