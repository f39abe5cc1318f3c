package frame

import (
	"errors"
	"fmt"
)

// Taxonomía de errores de la capa de enlace. Comparar con errors.Is.
// Un error corregido (Hamming) no es un error: se reporta en CodecResult.
var (
	ErrMalformedInput        = errors.New("entrada malformada")
	ErrFrameTooShort         = errors.New("trama demasiado corta")
	ErrDetectedUncorrectable = errors.New("error detectado no corregible")
	ErrConfiguration         = errors.New("error de configuración")
)

func ErrEmptyInput() error {
	return fmt.Errorf("mensaje vacío: %w", ErrMalformedInput)
}

func ErrInvalidCharacter(pos int, c byte) error {
	return fmt.Errorf("carácter inválido '%c' en posición %d (solo 0 y 1): %w", c, pos, ErrMalformedInput)
}

func ErrInvalidBit(pos int, b byte) error {
	return fmt.Errorf("bit inválido en posición %d: %d (debe ser 0 o 1): %w", pos, b, ErrMalformedInput)
}

func ErrFrameTooShortf(codec string, got, min int) error {
	return fmt.Errorf("%s: %d bits recibidos, mínimo %d: %w", codec, got, min, ErrFrameTooShort)
}

func ErrUnknownCodec(name string) error {
	return fmt.Errorf("algoritmo desconocido %q (usar crc32 o hamming): %w", name, ErrConfiguration)
}

func errCRCMismatch() error {
	return fmt.Errorf("crc32: el CRC recibido no coincide con el calculado: %w", ErrDetectedUncorrectable)
}

func errInvalidHammingLength(n int) error {
	return fmt.Errorf("hamming: %d no es una longitud de trama válida: %w", n, ErrDetectedUncorrectable)
}

func errSyndromeOutOfRange(syndrome, n int) error {
	return fmt.Errorf("hamming: síndrome %d fuera de rango [1, %d]: %w", syndrome, n, ErrDetectedUncorrectable)
}
