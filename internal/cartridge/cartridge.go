// Package cartridge implements iNES ROM loading and cartridge mapper logic.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Cartridge represents a loaded NES cartridge: its ROM banks, save RAM, and
// the mapper chip that decodes CPU/PPU bus addresses into bank offsets.
type Cartridge struct {
	prgROM []uint8
	chrROM []uint8

	mapperID uint8
	mapper   Mapper

	mirror MirrorMode

	hasBattery bool
	sram       [0x2000]uint8

	hasCHRRAM bool
}

// MirrorMode represents nametable mirroring mode.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// Coefficients returns the per-quadrant nametable bank selectors used by the
// canonical (2-bit table index * 1 KiB) mirroring formula.
func (m MirrorMode) Coefficients() [4]uint8 {
	switch m {
	case MirrorHorizontal:
		return [4]uint8{0, 0, 1, 1}
	case MirrorVertical:
		return [4]uint8{0, 1, 0, 1}
	case MirrorSingleScreen0:
		return [4]uint8{0, 0, 0, 0}
	case MirrorSingleScreen1:
		return [4]uint8{1, 1, 1, 1}
	case MirrorFourScreen:
		return [4]uint8{0, 1, 2, 3}
	default:
		return [4]uint8{0, 1, 0, 1}
	}
}

// Mapper is implemented by every supported cartridge chip. MirrorMode is
// queried live on every nametable access so mappers that bank-switch
// mirroring (AxROM, Sunsoft-4) take effect immediately.
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	MirrorMode() MirrorMode
}

// IRQSource is implemented by mappers with an onboard IRQ generator
// (MMC3, FME-7). Pending is level-held until ClearIRQ is called.
type IRQSource interface {
	IRQPending() bool
	ClearIRQ()
}

// ScanlineNotifiable is implemented by mappers whose IRQ counter is clocked
// once per visible scanline (MMC3, at PPU hblank).
type ScanlineNotifiable interface {
	NotifyScanline()
}

// CPUTickNotifiable is implemented by mappers whose IRQ counter is clocked
// by CPU cycles (FME-7), once per instruction with the cycle count just
// executed.
type CPUTickNotifiable interface {
	NotifyCPUTick(cycles uint8)
}

// iNESHeader is the 16-byte iNES file header.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// ErrUnsupportedMapper is returned when the ROM requests a mapper ID this
// module has no implementation for.
type ErrUnsupportedMapper struct{ ID uint8 }

func (e *ErrUnsupportedMapper) Error() string {
	return fmt.Sprintf("unsupported mapper: %d", e.ID)
}

// LoadFromFile loads a cartridge from an iNES file on disk.
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads a cartridge from an iNES-formatted stream.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	if string(header.Magic[:]) != "NES\x1A" {
		return nil, errors.New("invalid iNES file: bad magic")
	}
	if header.PRGROMSize == 0 {
		return nil, errors.New("invalid ROM: PRG ROM size cannot be zero")
	}
	if header.TVSystem1&0x01 != 0 {
		return nil, errors.New("unsupported ROM: PAL region")
	}

	cart := &Cartridge{
		mapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		hasBattery: (header.Flags6 & 0x02) != 0,
	}

	if (header.Flags6 & 0x08) != 0 {
		cart.mirror = MirrorFourScreen
	} else if (header.Flags6 & 0x01) != 0 {
		cart.mirror = MirrorVertical
	} else {
		cart.mirror = MirrorHorizontal
	}

	if (header.Flags6 & 0x04) != 0 {
		trainer := make([]uint8, 512)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, err
		}
	}

	prgSize := int(header.PRGROMSize) * 16384
	cart.prgROM = make([]uint8, prgSize)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, err
	}

	// Per the iNES header, a zero CHR ROM size means the board has CHR RAM.
	chrSize := int(header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.chrROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, err
		}
	} else {
		cart.chrROM = make([]uint8, 8192)
		cart.hasCHRRAM = true
	}

	mapper, err := createMapper(cart.mapperID, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	return cart, nil
}

func (c *Cartridge) ReadPRG(address uint16) uint8        { return c.mapper.ReadPRG(address) }
func (c *Cartridge) WritePRG(address uint16, value uint8) { c.mapper.WritePRG(address, value) }
func (c *Cartridge) ReadCHR(address uint16) uint8         { return c.mapper.ReadCHR(address) }
func (c *Cartridge) WriteCHR(address uint16, value uint8) { c.mapper.WriteCHR(address, value) }

// MirrorMode returns the live nametable mirroring mode, consulting the
// mapper so bank-switchable mirroring (AxROM, Sunsoft-4) is reflected
// immediately.
func (c *Cartridge) MirrorMode() MirrorMode { return c.mapper.MirrorMode() }

// HasBattery reports whether SRAM should be persisted across sessions.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// SRAM exposes the battery-backed save RAM for persistence.
func (c *Cartridge) SRAM() []uint8 { return c.sram[:] }

// IRQPending reports whether the mapper's onboard IRQ source is asserting.
func (c *Cartridge) IRQPending() bool {
	if src, ok := c.mapper.(IRQSource); ok {
		return src.IRQPending()
	}
	return false
}

// ClearIRQ acknowledges the mapper's IRQ line.
func (c *Cartridge) ClearIRQ() {
	if src, ok := c.mapper.(IRQSource); ok {
		src.ClearIRQ()
	}
}

// NotifyScanline tells a scanline-counted mapper IRQ source (MMC3) that the
// PPU has reached the hblank notification dot of a visible scanline.
func (c *Cartridge) NotifyScanline() {
	if n, ok := c.mapper.(ScanlineNotifiable); ok {
		n.NotifyScanline()
	}
}

// NotifyCPUTick tells a CPU-cycle-counted mapper IRQ source (FME-7) that an
// instruction just retired, consuming the given number of CPU cycles.
func (c *Cartridge) NotifyCPUTick(cycles uint8) {
	if n, ok := c.mapper.(CPUTickNotifiable); ok {
		n.NotifyCPUTick(cycles)
	}
}

// createMapper dispatches on the iNES mapper number. Unsupported IDs are a
// load error, not a silent NROM fallback, so the caller can exit(1) per the
// unusable-ROM contract.
func createMapper(id uint8, cart *Cartridge) (Mapper, error) {
	switch id {
	case 0:
		return NewMapper000(cart), nil
	case 1:
		return NewMapper001(cart), nil
	case 2:
		return NewMapper002(cart), nil
	case 3:
		return NewMapper003(cart), nil
	case 4:
		return NewMapper004(cart), nil
	case 7:
		return NewMapper007(cart), nil
	case 66:
		return NewMapper066(cart), nil
	case 68:
		return NewMapper068(cart), nil
	case 69:
		return NewMapper069(cart), nil
	default:
		return nil, &ErrUnsupportedMapper{ID: id}
	}
}

// MockCartridge implements a minimal CartridgeInterface for memory/bus unit
// tests that don't need a real mapper.
type MockCartridge struct {
	prgROM    [0x8000]uint8
	chrROM    [0x2000]uint8
	prgRAM    [0x2000]uint8
	chrRAM    [0x2000]uint8
	mirroring MirrorMode

	prgReads  []uint16
	prgWrites []uint16
	chrReads  []uint16
	chrWrites []uint16
}

func NewMockCartridge() *MockCartridge {
	return &MockCartridge{mirroring: MirrorHorizontal}
}

func (c *MockCartridge) ReadPRG(address uint16) uint8 {
	c.prgReads = append(c.prgReads, address)
	if address >= 0x8000 {
		index := address - 0x8000
		if index >= 0x4000 && len(c.prgROM) == 0x4000 {
			index %= 0x4000
		}
		return c.prgROM[index]
	}
	return 0
}

func (c *MockCartridge) WritePRG(address uint16, value uint8) {
	c.prgWrites = append(c.prgWrites, address)
	if address >= 0x6000 && address < 0x8000 {
		c.prgRAM[address-0x6000] = value
	}
}

func (c *MockCartridge) ReadCHR(address uint16) uint8 {
	c.chrReads = append(c.chrReads, address)
	if address < 0x2000 {
		return c.chrROM[address]
	}
	return 0
}

func (c *MockCartridge) WriteCHR(address uint16, value uint8) {
	c.chrWrites = append(c.chrWrites, address)
	if address < 0x2000 {
		c.chrRAM[address] = value
	}
}

func (c *MockCartridge) MirrorMode() MirrorMode { return c.mirroring }

func (c *MockCartridge) LoadPRG(data []uint8) { copy(c.prgROM[:], data) }
func (c *MockCartridge) LoadCHR(data []uint8) { copy(c.chrROM[:], data) }
func (c *MockCartridge) SetMirroring(mode MirrorMode) { c.mirroring = mode }
func (c *MockCartridge) GetMirroring() MirrorMode     { return c.mirroring }

func (c *MockCartridge) ClearLogs() {
	c.prgReads = c.prgReads[:0]
	c.prgWrites = c.prgWrites[:0]
	c.chrReads = c.chrReads[:0]
	c.chrWrites = c.chrWrites[:0]
}
