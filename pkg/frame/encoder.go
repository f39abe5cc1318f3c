package frame

import "fmt"

// BuildFrame recibe un payload (datos útiles) y devuelve la trama completa
// protegida con el algoritmo indicado: datos + CRC-32, o el código Hamming
// con la paridad intercalada.
func BuildFrame(reg *Registry, algorithm string, payload BitFrame) (BitFrame, error) {
	codec, err := reg.Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	out, err := codec.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("construyendo trama %s: %w", codec.Name(), err)
	}
	return out, nil
}

// Overhead es la proporción de bits agregados por el algoritmo.
func Overhead(payloadBits, frameBits int) float64 {
	if payloadBits == 0 {
		return 0
	}
	return float64(frameBits-payloadBits) / float64(payloadBits)
}
