package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCRC32Table(t *testing.T) {
	table := NewCRC32Table()
	assert.Equal(t, uint32(0), table[0])
	assert.Equal(t, CRC32Polynomial, table[1])
	assert.Equal(t, table, NewCRC32Table(), "la tabla debe ser determinista")
}

func TestCRC32Codec_Checksum_KnownVector(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	// CRC-32/BZIP2 de "123456789"
	got := c.Checksum(FromBytes([]byte("123456789")))
	assert.Equal(t, uint32(0xFC891918), got)
}

func TestCRC32Codec_Checksum_LeftPadding(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	// "1" y "00000001" representan el mismo byte tras el relleno
	assert.Equal(t, c.Checksum(MustParse("00000001")), c.Checksum(MustParse("1")))
	assert.Equal(t, c.Checksum(MustParse("0000000101")), c.Checksum(MustParse("000000000000000101")))
}

func TestCRC32Codec_VerifySelfConsistency(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())

	frames := []string{
		"1",
		"0",
		"01000001",
		"1011001",
		"0100100001101001",
		"111111111111111111111111111111111111111",
	}
	for _, s := range frames {
		t.Run(s, func(t *testing.T) {
			data := MustParse(s)
			encoded, err := c.Encode(data)
			require.NoError(t, err)
			require.Len(t, encoded, len(data)+32)

			crc := encoded[len(data):]
			assert.True(t, c.Verify(data, crc))
			assert.Equal(t, FromUint32(c.Checksum(data.Concat(make(BitFrame, 32)))), crc)
		})
	}
}

func TestCRC32Codec_SingleBitFlipDetected(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	data := MustParse("01000001") // 'A'
	encoded, err := c.Encode(data)
	require.NoError(t, err)

	res := c.Decode(encoded)
	require.False(t, res.ErrorDetected)
	assert.Equal(t, "01000001", res.Payload.String())

	for pos := 1; pos <= len(data); pos++ {
		flipped, err := data.Flip(pos)
		require.NoError(t, err)
		if c.Verify(flipped, encoded[len(data):]) {
			t.Errorf("bit de datos %d invertido no fue detectado", pos)
		}
	}

	for pos := 1; pos <= len(encoded); pos++ {
		noisy, _ := encoded.Flip(pos)
		res := c.Decode(noisy)
		if !res.ErrorDetected || !res.Uncorrectable || res.ErrorCorrected {
			t.Errorf("posición %d: resultado inesperado %+v", pos, res)
		}
		if !errors.Is(res.Err, ErrDetectedUncorrectable) {
			t.Errorf("posición %d: error = %v, se esperaba ErrDetectedUncorrectable", pos, res.Err)
		}
	}
}

func TestCRC32Codec_MismatchKeepsData(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	data := MustParse("0100000101000010") // "AB"
	encoded, err := c.Encode(data)
	require.NoError(t, err)

	noisy, err := encoded.Flip(3)
	require.NoError(t, err)
	res := c.Decode(noisy)

	require.True(t, res.Uncorrectable)
	assert.ErrorIs(t, res.Err, ErrDetectedUncorrectable)
	assert.Equal(t, "0110000101000010", res.Payload.String())
	assert.Equal(t, res.Payload.String(), res.PayloadBits)

	// un error en el campo CRC deja los datos tal como se enviaron
	noisy, _ = encoded.Flip(encoded.Len())
	res = c.Decode(noisy)
	require.True(t, res.Uncorrectable)
	assert.True(t, data.Equal(res.Payload))
}

func TestCRC32Codec_FrameTooShort(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	res := c.Decode(MustParse("0100000101000010"))

	assert.True(t, res.ErrorDetected)
	assert.True(t, res.Uncorrectable)
	assert.False(t, res.ErrorCorrected)
	assert.Equal(t, "0100000101000010", res.Payload.String(), "la trama se conserva para diagnóstico")
	assert.ErrorIs(t, res.Err, ErrFrameTooShort)
}

func TestCRC32Codec_VerifyWrongLength(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	assert.False(t, c.Verify(MustParse("1010"), MustParse("1010")))
}

func TestCRC32Codec_EncodeEmpty(t *testing.T) {
	c := NewCRC32Codec(NewCRC32Table())
	_, err := c.Encode(BitFrame{})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func BenchmarkCRC32Codec_Decode(b *testing.B) {
	c := NewCRC32Codec(NewCRC32Table())
	data := FromBytes([]byte("Hello World! Hello World! Hello World!"))
	encoded, _ := c.Encode(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Decode(encoded)
	}
}
