package frame

// CRC32Polynomial es el polinomio IEEE 802.3 en forma normal (MSB primero).
const CRC32Polynomial uint32 = 0x04C11DB7

const crc32Bits = 32

// CRC32Table contiene los 256 restos precalculados. Es un valor: copiarlo o
// compartirlo entre goroutines es seguro porque nadie lo modifica.
type CRC32Table [256]uint32

// NewCRC32Table genera la tabla sin reflexión de bits.
func NewCRC32Table() CRC32Table {
	var table CRC32Table
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ CRC32Polynomial
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC32Codec detecta errores; no tiene capacidad de corrección.
type CRC32Codec struct {
	table CRC32Table
}

func NewCRC32Codec(table CRC32Table) CRC32Codec {
	return CRC32Codec{table: table}
}

func (CRC32Codec) Name() string { return CodecCRC32 }

// Checksum calcula el CRC-32 de f, rellenando con ceros a la izquierda
// hasta completar bytes.
func (c CRC32Codec) Checksum(f BitFrame) uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, b := range f.Bytes() {
		idx := byte(crc>>24) ^ b
		crc = (crc << 8) ^ c.table[idx]
	}
	return crc ^ 0xFFFFFFFF
}

// augmented es el CRC que viaja en la trama: se calcula sobre los datos
// seguidos de 32 ceros.
func (c CRC32Codec) augmented(data BitFrame) BitFrame {
	return FromUint32(c.Checksum(data.Concat(make(BitFrame, crc32Bits))))
}

// Encode devuelve data seguido de sus 32 bits de CRC.
func (c CRC32Codec) Encode(data BitFrame) (BitFrame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput()
	}
	return data.Concat(c.augmented(data)), nil
}

// Verify recalcula el CRC de data y lo compara bit a bit con receivedCRC.
func (c CRC32Codec) Verify(data, receivedCRC BitFrame) bool {
	if len(receivedCRC) != crc32Bits {
		return false
	}
	return c.augmented(data).Equal(receivedCRC)
}

// Decode separa datos y CRC. Con menos de 32 bits no hay detección posible.
func (c CRC32Codec) Decode(received BitFrame) CodecResult {
	if len(received) < crc32Bits {
		return rejected(received.Clone(), ErrFrameTooShortf(CodecCRC32, len(received), crc32Bits))
	}
	split := len(received) - crc32Bits
	data, crc := received[:split].Clone(), received[split:]
	if !c.Verify(data, crc) {
		return rejected(data, errCRCMismatch())
	}
	return clean(data)
}
