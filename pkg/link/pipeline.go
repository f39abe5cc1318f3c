// Package link compone la capa de enlace del receptor: verifica la integridad
// con el algoritmo elegido, corrige cuando es posible y entrega el payload a
// la capa de presentación. Cada etapa recibe un valor y produce el siguiente;
// el Pipeline no guarda estado entre mensajes.
package link

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/presentation"
)

// Observer recibe cada Outcome terminado (métricas, auditoría).
type Observer interface {
	ObserveOutcome(o *Outcome)
}

// Outcome es el registro completo del procesamiento de un mensaje.
type Outcome struct {
	ID           string
	Codec        string
	ReceivedBits int
	State        State
	Trace        []State
	Result       frame.CodecResult
	Text         string
	Err          error
	Duration     time.Duration

	started time.Time
}

func (o *Outcome) Delivered() bool { return o.State == Delivered }

// Annotation es el aviso visible para el usuario.
func (o *Outcome) Annotation() string {
	switch {
	case o.State == Rejected && o.Err != nil:
		return fmt.Sprintf("Mensaje descartado: %v", o.Err)
	case o.State == Rejected:
		return "Mensaje descartado: errores no corregibles"
	case o.Result.ErrorCorrected:
		return fmt.Sprintf("Error corregido en la posición %d", o.Result.CorrectedPosition)
	default:
		return "Mensaje recibido sin errores"
	}
}

func (o *Outcome) enter(s State) {
	if !canTransition(o.State, s) {
		panic(fmt.Sprintf("link: transición inválida %s → %s", o.State, s))
	}
	o.State = s
	o.Trace = append(o.Trace, s)
}

type outcomeJSON struct {
	ID           string            `json:"id"`
	Codec        string            `json:"algoritmo"`
	ReceivedBits int               `json:"bitsRecibidos"`
	State        State             `json:"estado"`
	Trace        []State           `json:"traza"`
	Result       frame.CodecResult `json:"resultado"`
	Text         string            `json:"mensaje"`
	Annotation   string            `json:"aviso"`
	Error        string            `json:"error,omitempty"`
	DurationUS   int64             `json:"duracionMicros"`
}

func (o *Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{
		ID:           o.ID,
		Codec:        o.Codec,
		ReceivedBits: o.ReceivedBits,
		State:        o.State,
		Trace:        o.Trace,
		Result:       o.Result,
		Text:         o.Text,
		Annotation:   o.Annotation(),
		DurationUS:   o.Duration.Microseconds(),
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// Pipeline es seguro para uso concurrente: todo lo que contiene es inmutable.
type Pipeline struct {
	registry     *frame.Registry
	presentation *presentation.PresentationLayer
	logger       *zap.Logger
	observer     Observer
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

func NewPipeline(reg *frame.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:     reg,
		presentation: presentation.NewPresentationLayer(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// VerifyIntegrity despacha al codec indicado. Solo devuelve error cuando el
// nombre del algoritmo es desconocido; los errores de la trama van en el
// CodecResult.
func (p *Pipeline) VerifyIntegrity(f frame.BitFrame, codecName string) (frame.CodecResult, error) {
	codec, err := p.registry.Lookup(codecName)
	if err != nil {
		return frame.CodecResult{}, err
	}
	return codec.Decode(f.Clone()), nil
}

// Correct devuelve el payload a usar y si puede entregarse. Con un error no
// corregible el payload se devuelve solo para diagnóstico.
func Correct(res frame.CodecResult) (frame.BitFrame, bool) {
	return res.Payload.Clone(), !res.Uncorrectable
}

// ProcessBits valida la cadena recibida antes de ejecutar cualquier codec.
func (p *Pipeline) ProcessBits(raw, codecName string) *Outcome {
	f, err := frame.Parse(raw)
	if err != nil {
		return p.Fail(codecName, len(raw), err)
	}
	return p.Process(f, codecName)
}

// Fail registra un mensaje rechazado antes de llegar a la capa de enlace
// (entrada malformada, buffer excedido).
func (p *Pipeline) Fail(codecName string, bits int, err error) *Outcome {
	o := p.begin(codecName, bits)
	o.Err = err
	o.enter(Rejected)
	return p.finish(o)
}

// Process ejecuta Receiving → Verifying → [Correcting] → Decoding → Delivered,
// o termina en Rejected. Un mensaje rechazado nunca llega a decodificarse.
func (p *Pipeline) Process(f frame.BitFrame, codecName string) *Outcome {
	o := p.begin(codecName, len(f))

	o.enter(Verifying)
	res, err := p.VerifyIntegrity(f, codecName)
	if err != nil {
		o.Err = err
		o.enter(Rejected)
		return p.finish(o)
	}
	o.Result = res

	if res.ErrorDetected {
		o.enter(Correcting)
		if _, ok := Correct(res); !ok {
			o.Err = res.Err
			o.Text = p.presentation.DecodificarMensaje(nil, true)
			o.enter(Rejected)
			return p.finish(o)
		}
	}

	o.enter(Decoding)
	payload, _ := Correct(res)
	o.Text = p.presentation.DecodificarMensaje(payload, false)
	o.enter(Delivered)
	return p.finish(o)
}

func (p *Pipeline) begin(codecName string, bits int) *Outcome {
	return &Outcome{
		ID:           uuid.NewString(),
		Codec:        codecName,
		ReceivedBits: bits,
		State:        Receiving,
		Trace:        []State{Receiving},
		started:      time.Now(),
	}
}

func (p *Pipeline) finish(o *Outcome) *Outcome {
	o.Duration = time.Since(o.started)

	fields := []zap.Field{
		zap.String("id", o.ID),
		zap.String("codec", o.Codec),
		zap.Int("bits", o.ReceivedBits),
		zap.Stringer("state", o.State),
		zap.Duration("duration", o.Duration),
	}
	switch {
	case o.State == Rejected:
		p.logger.Warn("mensaje descartado", append(fields, zap.Error(o.Err))...)
	case o.Result.ErrorCorrected:
		p.logger.Info("mensaje entregado con corrección",
			append(fields, zap.Int("corrected_position", o.Result.CorrectedPosition))...)
	default:
		p.logger.Info("mensaje entregado", fields...)
	}

	if p.observer != nil {
		p.observer.ObserveOutcome(o)
	}
	return o
}
