package transport

import (
	"bytes"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

// DefaultMaxBits acota lo que una conexión puede acumular sin terminar.
const DefaultMaxBits = 1 << 20

// Signal es lo que la conexión informa al buffer después de cada lectura.
type Signal int

const (
	MoreData Signal = iota
	EndOfStream
)

// Buffer acumula los fragmentos de una conexión en orden de llegada hasta
// el fin de stream. No se comparte entre conexiones.
type Buffer struct {
	buf      bytes.Buffer
	maxBits  int
	complete bool
}

// NewBuffer crea un buffer; maxBits <= 0 desactiva el límite.
func NewBuffer(maxBits int) *Buffer {
	return &Buffer{maxBits: maxBits}
}

// maxTerminator es cuántos bytes CR/LF finales no cuentan contra maxBits.
const maxTerminator = 2

// Accumulate agrega chunk al final del mensaje. El CRLF final que Drain
// descarta no cuenta como bits.
func (b *Buffer) Accumulate(chunk []byte) error {
	if b.maxBits > 0 {
		n := b.buf.Len() + len(chunk) - b.terminator(chunk)
		if n > b.maxBits {
			return ErrBufferOverflowf(n, b.maxBits)
		}
	}
	b.buf.Write(chunk)
	return nil
}

// terminator cuenta los CR/LF al final de lo acumulado más chunk, hasta
// maxTerminator.
func (b *Buffer) terminator(chunk []byte) int {
	n := 0
	for _, part := range [][]byte{chunk, b.buf.Bytes()} {
		for i := len(part) - 1; i >= 0; i-- {
			if n == maxTerminator || (part[i] != '\r' && part[i] != '\n') {
				return n
			}
			n++
		}
	}
	return n
}

// IsComplete solo es verdadero después de recibir EndOfStream: la longitud
// del mensaje no se conoce de antemano.
func (b *Buffer) IsComplete(sig Signal) bool {
	if sig == EndOfStream {
		b.complete = true
	}
	return b.complete
}

func (b *Buffer) Len() int { return b.buf.Len() }

// Drain convierte el mensaje completo en un BitFrame y deja el buffer vacío.
// Se descarta un salto de línea final (clientes como nc lo agregan); cualquier
// otro carácter distinto de 0/1 es ErrMalformedInput.
func (b *Buffer) Drain() (frame.BitFrame, error) {
	if !b.complete {
		return nil, ErrIncomplete
	}
	raw := bytes.TrimRight(b.buf.Bytes(), "\r\n")
	f, err := frame.Parse(string(raw))
	b.Reset()
	return f, err
}

// Reset descarta lo acumulado.
func (b *Buffer) Reset() {
	b.buf.Reset()
	b.complete = false
}
