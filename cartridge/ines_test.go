package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildImage(prgChunks, chrChunks int, trainer bool, fill byte) []byte {
	flags6 := byte(0)
	if trainer {
		flags6 |= 0x04
	}
	header := []byte{'N', 'E', 'S', 0x1A, byte(prgChunks), byte(chrChunks), flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append([]byte{}, header...)
	if trainer {
		data = append(data, make([]byte, trainerSize)...)
	}
	prg := make([]byte, prgChunks*prgROMUnitSize)
	for i := range prg {
		prg[i] = fill
	}
	data = append(data, prg...)
	data = append(data, make([]byte, chrChunks*chrROMUnitSize)...)
	return data
}

func TestParseValidImage(t *testing.T) {
	data := buildImage(1, 1, false, 0x42)
	c, err := Parse(data)
	assert.NoError(t, err)
	assert.Len(t, c.PRGROM, 0x4000)
	assert.Equal(t, byte(0x42), c.PRGROM[0])
	assert.Equal(t, byte(0x42), c.PRGROM[0x3FFF])
	assert.False(t, c.HasTrainer)
}

func TestParseWithTrainer(t *testing.T) {
	data := buildImage(2, 0, true, 0x7E)
	c, err := Parse(data)
	assert.NoError(t, err)
	assert.True(t, c.HasTrainer)
	assert.Len(t, c.PRGROM, 0x8000)
	assert.Equal(t, byte(0x7E), c.PRGROM[0])
}

func TestParseBadMagic(t *testing.T) {
	data := buildImage(1, 1, false, 0)
	data[0] = 'X'
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseTruncated(t *testing.T) {
	data := buildImage(1, 1, false, 0)
	_, err := Parse(data[:20])
	assert.Error(t, err)
}
