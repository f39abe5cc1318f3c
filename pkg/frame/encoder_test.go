package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(NewCRC32Table())

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "crc32", input: "crc32", want: CodecCRC32},
		{name: "alias crc", input: "crc", want: CodecCRC32},
		{name: "hamming", input: "hamming", want: CodecHamming},
		{name: "mayúsculas", input: " HAMMING ", want: CodecHamming},
		{name: "desconocido", input: "fletcher", wantErr: true},
		{name: "vacío", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := reg.Lookup(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}
	assert.Equal(t, []string{CodecCRC32, CodecHamming}, reg.Names())
}

func TestBuildFrame(t *testing.T) {
	reg := NewRegistry(NewCRC32Table())
	payload := MustParse("01000001")

	crcFrame, err := BuildFrame(reg, CodecCRC32, payload)
	require.NoError(t, err)
	assert.Len(t, crcFrame, 40)
	assert.Equal(t, payload, crcFrame[:8])

	hamFrame, err := BuildFrame(reg, CodecHamming, payload)
	require.NoError(t, err)
	assert.Len(t, hamFrame, 8+CalculateParityBits(8))

	_, err = BuildFrame(reg, "parity", payload)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = BuildFrame(reg, CodecHamming, BitFrame{})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestOverhead(t *testing.T) {
	assert.InDelta(t, 4.0, Overhead(8, 40), 1e-9)
	assert.InDelta(t, 0.5, Overhead(8, 12), 1e-9)
	assert.Zero(t, Overhead(0, 32))
}
