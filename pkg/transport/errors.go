package transport

import (
	"errors"
	"fmt"
)

var (
	ErrBufferOverflow = errors.New("transport: el mensaje excede el tamaño máximo")
	ErrIncomplete     = errors.New("transport: el mensaje aún no terminó")
)

func ErrBufferOverflowf(got, max int) error {
	return fmt.Errorf("%d bits recibidos, máximo %d: %w", got, max, ErrBufferOverflow)
}
