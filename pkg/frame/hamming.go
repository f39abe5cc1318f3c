package frame

// Código de Hamming (n, m) de corrección de un solo bit. Las posiciones son
// base 1; las potencias de dos llevan paridad y el resto los datos en orden.

// CalculateParityBits devuelve el menor r tal que m + r + 1 <= 2^r.
func CalculateParityBits(m int) int {
	r := 1
	for m+r+1 > 1<<r {
		r++
	}
	return r
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// parityCount cuenta las potencias de dos en [1, n].
func parityCount(n int) int {
	r := 0
	for p := 1; p <= n; p <<= 1 {
		r++
	}
	return r
}

// ValidHammingLength indica si alguna trama de datos m >= 1 produce
// exactamente n bits al codificarse.
func ValidHammingLength(n int) bool {
	r := parityCount(n)
	m := n - r
	return m >= 1 && CalculateParityBits(m) == r
}

// parityOf hace XOR de las posiciones i del grupo p, excluyendo p.
// code está indexado desde 1 (code[0] no se usa).
func parityOf(code []byte, p int) byte {
	var v byte
	for i := 1; i < len(code); i++ {
		if i&p != 0 && i != p {
			v ^= code[i]
		}
	}
	return v
}

// extractData recoge las posiciones de datos en orden.
func extractData(code []byte) BitFrame {
	n := len(code) - 1
	out := make(BitFrame, 0, n-parityCount(n))
	for i := 1; i <= n; i++ {
		if !IsPowerOfTwo(i) {
			out = append(out, code[i])
		}
	}
	return out
}

// HammingCodec no guarda estado: el layout se recalcula en cada llamada.
type HammingCodec struct{}

func (HammingCodec) Name() string { return CodecHamming }

// Encode intercala los bits de paridad en las potencias de dos.
func (HammingCodec) Encode(data BitFrame) (BitFrame, error) {
	m := len(data)
	if m == 0 {
		return nil, ErrEmptyInput()
	}
	n := m + CalculateParityBits(m)

	code := make([]byte, n+1)
	j := 0
	for i := 1; i <= n; i++ {
		if IsPowerOfTwo(i) {
			continue
		}
		code[i] = data[j]
		j++
	}
	for p := 1; p <= n; p <<= 1 {
		code[p] = parityOf(code, p)
	}
	return BitFrame(code[1:]).Clone(), nil
}

// Syndrome suma las posiciones de paridad cuyo valor recalculado no coincide
// con el recibido. Con un solo bit alterado es la posición de ese bit.
func (HammingCodec) Syndrome(received BitFrame) int {
	code := make([]byte, len(received)+1)
	copy(code[1:], received)
	return syndrome(code)
}

func syndrome(code []byte) int {
	s := 0
	for p := 1; p < len(code); p <<= 1 {
		if parityOf(code, p) != code[p] {
			s += p
		}
	}
	return s
}

// Decode verifica y corrige como máximo un bit. Dos o más errores pueden
// producir un síndrome válido y una corrección equivocada: es una limitación
// del código y se conserva.
func (HammingCodec) Decode(received BitFrame) CodecResult {
	n := len(received)
	if n < 3 {
		return rejected(received.Clone(), ErrFrameTooShortf(CodecHamming, n, 3))
	}
	if !ValidHammingLength(n) {
		return rejected(received.Clone(), errInvalidHammingLength(n))
	}

	code := make([]byte, n+1)
	copy(code[1:], received)

	s := syndrome(code)
	switch {
	case s == 0:
		return clean(extractData(code))
	case s >= 1 && s <= n:
		code[s] ^= 1
		return corrected(extractData(code), s)
	default:
		return rejected(extractData(code), errSyndromeOutOfRange(s, n))
	}
}
