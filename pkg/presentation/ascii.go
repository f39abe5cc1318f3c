package presentation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

// MaxTextLength limita el texto que se acepta para transmitir.
const MaxTextLength = 65535

// PresentationLayer maneja la codificación/decodificación de mensajes
type PresentationLayer struct{}

// NewPresentationLayer crea una nueva instancia
func NewPresentationLayer() *PresentationLayer {
	return &PresentationLayer{}
}

// CodificarMensaje convierte texto ASCII a bits (8 por carácter, MSB primero)
func (p *PresentationLayer) CodificarMensaje(texto string) (frame.BitFrame, error) {
	if err := p.ValidarTexto(texto); err != nil {
		return nil, err
	}
	return frame.FromBytes([]byte(texto)), nil
}

// DecodificarMensaje convierte bits a texto. Si hayError es verdadero no se
// procesa nada y se devuelve la cadena vacía. Un grupo final de menos de 8
// bits se descarta porque no representa un carácter completo.
func (p *PresentationLayer) DecodificarMensaje(bits frame.BitFrame, hayError bool) string {
	if hayError {
		return ""
	}

	var sb strings.Builder
	for i := 0; i+8 <= len(bits); i += 8 {
		var charCode byte
		for j := 0; j < 8; j++ {
			charCode |= bits[i+j] << (7 - j)
		}
		sb.WriteRune(rune(charCode))
	}
	return sb.String()
}

// ValidarTexto verifica que el texto sea válido para transmisión
func (p *PresentationLayer) ValidarTexto(texto string) error {
	if texto == "" {
		return fmt.Errorf("el texto no puede estar vacío: %w", frame.ErrMalformedInput)
	}

	if len(texto) > MaxTextLength {
		return fmt.Errorf("el texto es demasiado largo: %d caracteres (máximo %d): %w",
			len(texto), MaxTextLength, frame.ErrMalformedInput)
	}

	if !utf8.ValidString(texto) {
		return fmt.Errorf("el texto contiene caracteres no válidos UTF-8: %w", frame.ErrMalformedInput)
	}

	for i, r := range texto {
		if r > 127 {
			return fmt.Errorf("carácter no-ASCII en posición %d: '%c': %w", i, r, frame.ErrMalformedInput)
		}
	}

	return nil
}
