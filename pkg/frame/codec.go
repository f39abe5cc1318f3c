package frame

import (
	"sort"
	"strings"
)

const (
	CodecCRC32   = "crc32"
	CodecHamming = "hamming"
)

// CodecResult es el registro canónico que produce cualquier codec al recibir.
// Uncorrectable implica ErrorDetected; ErrorCorrected implica ErrorDetected
// y no Uncorrectable. Con Uncorrectable, Payload lleva los datos recibidos
// sin corregir y solo sirve para diagnóstico.
type CodecResult struct {
	Payload           BitFrame `json:"-" yaml:"-"`
	PayloadBits       string   `json:"mensajeOriginal" yaml:"mensajeOriginal"`
	ErrorDetected     bool     `json:"errorDetectado" yaml:"errorDetectado"`
	ErrorCorrected    bool     `json:"errorCorregido" yaml:"errorCorregido"`
	CorrectedPosition int      `json:"posicionError,omitempty" yaml:"posicionError,omitempty"`
	Uncorrectable     bool     `json:"noCorregible" yaml:"noCorregible"`
	Err               error    `json:"-" yaml:"-"`
}

func clean(payload BitFrame) CodecResult {
	return CodecResult{Payload: payload, PayloadBits: payload.String()}
}

func corrected(payload BitFrame, pos int) CodecResult {
	return CodecResult{
		Payload:           payload,
		PayloadBits:       payload.String(),
		ErrorDetected:     true,
		ErrorCorrected:    true,
		CorrectedPosition: pos,
	}
}

func rejected(payload BitFrame, err error) CodecResult {
	return CodecResult{
		Payload:       payload,
		PayloadBits:   payload.String(),
		ErrorDetected: true,
		Uncorrectable: true,
		Err:           err,
	}
}

// Codec es la capacidad común de los algoritmos de la capa de enlace.
type Codec interface {
	Name() string
	Encode(data BitFrame) (BitFrame, error)
	Decode(received BitFrame) CodecResult
}

// Registry resuelve codecs por nombre. Es inmutable después de NewRegistry
// y puede compartirse entre conexiones concurrentes.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry registra CRC-32 (con la tabla dada) y Hamming.
func NewRegistry(table CRC32Table) *Registry {
	crc := NewCRC32Codec(table)
	ham := HammingCodec{}
	return &Registry{codecs: map[string]Codec{
		CodecCRC32:   crc,
		"crc":        crc,
		CodecHamming: ham,
	}}
}

// Lookup no adivina un valor por defecto: un nombre desconocido es ErrConfiguration.
func (r *Registry) Lookup(name string) (Codec, error) {
	c, ok := r.codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrUnknownCodec(name)
	}
	return c, nil
}

// Names lista los nombres canónicos registrados.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range r.codecs {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return names
}
