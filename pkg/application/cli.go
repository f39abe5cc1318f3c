package application

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
)

// MessageConfig contiene la configuración del mensaje a enviar
type MessageConfig struct {
	Text      string  // Mensaje de texto a enviar
	Algorithm string  // "crc32" o "hamming"
	BER       float64 // Bit Error Rate (0.0 to 1.0)
	Flips     []int   // Posiciones (1-based) a invertir, además del BER
	Random    int     // Cantidad de bits adicionales a invertir al azar
}

// ApplicationLayer maneja la interacción con el usuario
type ApplicationLayer struct {
	scanner *bufio.Scanner

	mu  sync.Mutex
	out io.Writer
}

// NewApplicationLayer crea una instancia sobre stdin/stdout
func NewApplicationLayer() *ApplicationLayer {
	return NewApplicationLayerIO(os.Stdin, os.Stdout)
}

func NewApplicationLayerIO(in io.Reader, out io.Writer) *ApplicationLayer {
	return &ApplicationLayer{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (app *ApplicationLayer) printf(format string, args ...any) {
	fmt.Fprintf(app.out, format, args...)
}

func (app *ApplicationLayer) readLine() (string, bool) {
	if !app.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(app.scanner.Text()), true
}

// ElegirAlgoritmo interpreta una opción del menú o un nombre de codec.
// Devuelve false si la opción no es válida; en ese caso el algoritmo es crc32.
func ElegirAlgoritmo(choice string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", frame.CodecCRC32, "crc":
		return frame.CodecCRC32, true
	case "2", frame.CodecHamming:
		return frame.CodecHamming, true
	default:
		return frame.CodecCRC32, false
	}
}

// SolicitarAlgoritmo pregunta qué algoritmo usó el emisor. Una opción
// inválida (o el fin de la entrada) selecciona CRC-32.
func (app *ApplicationLayer) SolicitarAlgoritmo() string {
	app.printf("\nIndique el algoritmo utilizado por el emisor:\n")
	app.printf("1. CRC-32\n2. Hamming\n")
	app.printf("Seleccione (1 o 2): ")

	choice, _ := app.readLine()
	algo, ok := ElegirAlgoritmo(choice)
	if !ok {
		app.printf("Opción inválida. Usando CRC-32 por defecto.\n")
	}
	return algo
}

// SolicitarMensaje pide al usuario el texto, el algoritmo y el BER a aplicar.
func (app *ApplicationLayer) SolicitarMensaje() (*MessageConfig, error) {
	config := &MessageConfig{}

	app.printf("Ingrese el mensaje a transmitir: ")
	text, ok := app.readLine()
	if !ok {
		return nil, fmt.Errorf("error leyendo mensaje")
	}
	if text == "" {
		return nil, fmt.Errorf("el mensaje no puede estar vacío: %w", frame.ErrMalformedInput)
	}
	config.Text = text

	for {
		app.printf("Seleccione algoritmo (1=CRC-32, 2=Hamming): ")
		choice, ok := app.readLine()
		if !ok {
			return nil, fmt.Errorf("error leyendo algoritmo")
		}
		algo, valid := ElegirAlgoritmo(choice)
		if !valid {
			app.printf("Opción inválida. Ingrese 1 para CRC-32 o 2 para Hamming\n")
			continue
		}
		config.Algorithm = algo
		break
	}

	for {
		app.printf("Ingrese BER (0.0-1.0, ej: 0.01): ")
		berStr, ok := app.readLine()
		if !ok {
			return nil, fmt.Errorf("error leyendo BER")
		}
		if berStr == "" {
			break
		}
		ber, err := strconv.ParseFloat(berStr, 64)
		if err != nil {
			app.printf("BER inválido. Ingrese un número decimal (ej: 0.01)\n")
			continue
		}
		if ber < 0.0 || ber > 1.0 {
			app.printf("BER debe estar entre 0.0 y 1.0\n")
			continue
		}
		config.BER = ber
		break
	}

	return config, nil
}

// MostrarConfiguracion muestra la configuración seleccionada
func (app *ApplicationLayer) MostrarConfiguracion(config *MessageConfig) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.printf("\nConfiguración:\n")
	app.printf("   Mensaje: %q\n", config.Text)
	app.printf("   Algoritmo: %s\n", strings.ToUpper(config.Algorithm))
	app.printf("   BER: %.3f (%.1f%%)\n", config.BER, config.BER*100)
	if len(config.Flips) > 0 {
		app.printf("   Bits invertidos: %v\n", config.Flips)
	}
	if config.Random > 0 {
		app.printf("   Errores aleatorios: %d\n", config.Random)
	}
	app.printf("\n")
}

// MostrarMensaje presenta el resultado de un mensaje recibido. Un mensaje
// rechazado nunca muestra texto.
func (app *ApplicationLayer) MostrarMensaje(o *link.Outcome) {
	if o == nil {
		return
	}
	app.mu.Lock()
	defer app.mu.Unlock()

	app.printf("\n[%s] %s, %d bits\n", o.ID, o.Codec, o.ReceivedBits)
	if !o.Delivered() {
		app.printf("ERROR: %s\n", o.Annotation())
		app.printf("El mensaje puede estar corrupto.\n")
		return
	}
	if o.Result.ErrorCorrected {
		app.printf("%s\n", o.Annotation())
	}
	app.printf("Mensaje recibido correctamente:\n%s\n", o.Text)
}

// MostrarResultado muestra el resultado de la transmisión
func (app *ApplicationLayer) MostrarResultado(success bool, details string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if success {
		app.printf("Transmisión exitosa: %s\n", details)
	} else {
		app.printf("Error en transmisión: %s\n", details)
	}
}

// ValidarConfiguracion valida que la configuración sea válida
func (app *ApplicationLayer) ValidarConfiguracion(config *MessageConfig) error {
	if config == nil {
		return fmt.Errorf("configuración es nil: %w", frame.ErrConfiguration)
	}
	if config.Text == "" {
		return fmt.Errorf("el mensaje no puede estar vacío: %w", frame.ErrMalformedInput)
	}
	if config.Algorithm != frame.CodecCRC32 && config.Algorithm != frame.CodecHamming {
		return frame.ErrUnknownCodec(config.Algorithm)
	}
	if config.BER < 0.0 || config.BER > 1.0 {
		return fmt.Errorf("BER inválido: %.3f (debe estar entre 0.0 y 1.0): %w", config.BER, frame.ErrConfiguration)
	}
	if config.Random < 0 {
		return fmt.Errorf("cantidad de errores inválida: %d: %w", config.Random, frame.ErrConfiguration)
	}
	for _, p := range config.Flips {
		if p < 1 {
			return fmt.Errorf("posición de bit inválida: %d: %w", p, frame.ErrConfiguration)
		}
	}
	return nil
}
