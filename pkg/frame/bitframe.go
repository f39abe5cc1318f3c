package frame

import (
	"fmt"
	"strings"
)

// BitFrame es una secuencia ordenada de bits. Cada elemento vale 0 o 1.
// La longitud es significativa: nunca se trunca ni se rellena en silencio.
type BitFrame []byte

// Parse convierte una cadena de caracteres '0'/'1' en un BitFrame.
// La cadena vacía o cualquier otro carácter es ErrMalformedInput.
func Parse(s string) (BitFrame, error) {
	if len(s) == 0 {
		return nil, ErrEmptyInput()
	}
	f := make(BitFrame, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			f[i] = 0
		case '1':
			f[i] = 1
		default:
			return nil, ErrInvalidCharacter(i, s[i])
		}
	}
	return f, nil
}

// MustParse es Parse para literales conocidos en tests y ejemplos.
func MustParse(s string) BitFrame {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromBits copia un slice de bits validando que solo contiene 0 o 1.
func FromBits(bits []byte) (BitFrame, error) {
	f := make(BitFrame, len(bits))
	for i, b := range bits {
		if b != 0 && b != 1 {
			return nil, ErrInvalidBit(i, b)
		}
		f[i] = b
	}
	return f, nil
}

// FromBytes expande cada byte en 8 bits, MSB primero.
func FromBytes(data []byte) BitFrame {
	f := make(BitFrame, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			f = append(f, (b>>i)&1)
		}
	}
	return f
}

// FromUint32 representa v como exactamente 32 bits, MSB primero.
func FromUint32(v uint32) BitFrame {
	f := make(BitFrame, 32)
	for i := 0; i < 32; i++ {
		f[i] = byte(v>>(31-i)) & 1
	}
	return f
}

func (f BitFrame) Len() int { return len(f) }

func (f BitFrame) String() string {
	var sb strings.Builder
	sb.Grow(len(f))
	for _, b := range f {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Clone devuelve una copia independiente del frame.
func (f BitFrame) Clone() BitFrame {
	if f == nil {
		return nil
	}
	out := make(BitFrame, len(f))
	copy(out, f)
	return out
}

// Flip devuelve una copia con el bit de la posición pos (base 1) invertido.
func (f BitFrame) Flip(pos int) (BitFrame, error) {
	if pos < 1 || pos > len(f) {
		return nil, fmt.Errorf("posición %d fuera de rango [1, %d]: %w", pos, len(f), ErrMalformedInput)
	}
	out := f.Clone()
	out[pos-1] ^= 1
	return out, nil
}

// Concat devuelve f seguido de other, sin compartir memoria con ninguno.
func (f BitFrame) Concat(other BitFrame) BitFrame {
	out := make(BitFrame, 0, len(f)+len(other))
	out = append(out, f...)
	return append(out, other...)
}

// PadLeftToByte antepone ceros hasta que la longitud sea múltiplo de 8.
func (f BitFrame) PadLeftToByte() BitFrame {
	pad := (8 - len(f)%8) % 8
	out := make(BitFrame, pad, pad+len(f))
	return append(out, f...)
}

// Bytes agrupa el frame (rellenado a la izquierda) en bytes MSB primero.
func (f BitFrame) Bytes() []byte {
	padded := f.PadLeftToByte()
	out := make([]byte, len(padded)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b |= padded[i*8+j] << (7 - j)
		}
		out[i] = b
	}
	return out
}

// Equal compara bit a bit.
func (f BitFrame) Equal(other BitFrame) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}
