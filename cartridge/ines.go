// Package cartridge parses an iNES-format cartridge image into the PRG-ROM
// byte vector the bus installs. Everything beyond magic/header validation,
// trainer skipping, and PRG-ROM extraction (CHR-ROM, mapper selection,
// PlayChoice sections) is consumed for sizing only and otherwise unused by
// the CPU/bus core.
package cartridge

import (
	"fmt"
	"os"
)

const (
	headerSize     = 16
	trainerSize    = 512
	prgROMUnitSize = 16 * 1024
	chrROMUnitSize = 8 * 1024
)

// A Cartridge holds the PRG-ROM extracted from an iNES image, plus the
// header fields a caller may want for diagnostics.
type Cartridge struct {
	PRGROM       []byte
	CHRROMSize   int
	HasTrainer   bool
	PRGROMChunks int
	CHRROMChunks int
}

// Load reads and parses the iNES image at path.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}
	return Parse(data)
}

// Parse validates the iNES header in data and extracts the PRG-ROM vector.
func Parse(data []byte) (*Cartridge, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("cartridge: truncated image, only %d bytes", len(data))
	}
	header := data[:headerSize]
	if header[0] != 'N' || header[1] != 'E' || header[2] != 'S' || header[3] != 0x1A {
		return nil, fmt.Errorf("cartridge: bad magic %q", header[:4])
	}

	prgChunks := int(header[4])
	chrChunks := int(header[5])
	hasTrainer := header[6]&0x04 != 0

	prgROMSize := prgChunks * prgROMUnitSize
	offset := headerSize
	if hasTrainer {
		offset += trainerSize
	}
	if len(data) < offset+prgROMSize {
		return nil, fmt.Errorf("cartridge: truncated image, expected %d PRG-ROM bytes from offset %d, got %d total",
			prgROMSize, offset, len(data))
	}

	prgROM := make([]byte, prgROMSize)
	copy(prgROM, data[offset:offset+prgROMSize])

	return &Cartridge{
		PRGROM:       prgROM,
		CHRROMSize:   chrChunks * chrROMUnitSize,
		HasTrainer:   hasTrainer,
		PRGROMChunks: prgChunks,
		CHRROMChunks: chrChunks,
	}, nil
}
