// Package benchmark compara CRC-32 y Hamming sobre un canal ruidoso:
// mensajes aleatorios de varias longitudes, varias tasas de error por bit y
// varias repeticiones por combinación.
package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/presentation"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "

type Config struct {
	Lengths     []int     `json:"longitudes" yaml:"longitudes"` // caracteres
	BERs        []float64 `json:"tasasError" yaml:"tasasError"`
	Repetitions int       `json:"repeticiones" yaml:"repeticiones"`
	Codecs      []string  `json:"algoritmos" yaml:"algoritmos"`
	Seed        int64     `json:"semilla" yaml:"semilla"`
}

func DefaultConfig() Config {
	return Config{
		Lengths:     []int{10, 20, 50, 100, 200},
		BERs:        []float64{0, 0.001, 0.01, 0.05, 0.1},
		Repetitions: 3,
		Codecs:      []string{frame.CodecCRC32, frame.CodecHamming},
		Seed:        1,
	}
}

func (c Config) Validate() error {
	if len(c.Lengths) == 0 || len(c.BERs) == 0 || len(c.Codecs) == 0 {
		return fmt.Errorf("se necesita al menos una longitud, una tasa y un algoritmo: %w", frame.ErrConfiguration)
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("repeticiones debe ser mayor a 0 (%d): %w", c.Repetitions, frame.ErrConfiguration)
	}
	for _, l := range c.Lengths {
		if l <= 0 || l > presentation.MaxTextLength {
			return fmt.Errorf("longitud %d fuera de rango [1, %d]: %w", l, presentation.MaxTextLength, frame.ErrConfiguration)
		}
	}
	for _, ber := range c.BERs {
		if err := noise.ValidarBER(ber); err != nil {
			return err
		}
	}
	return nil
}

// Trial es una transmisión simulada.
type Trial struct {
	Codec          string  `json:"algoritmo" yaml:"algoritmo"`
	Length         int     `json:"longitud" yaml:"longitud"`
	BER            float64 `json:"tasaError" yaml:"tasaError"`
	PayloadBits    int     `json:"longitudOriginalBits" yaml:"longitudOriginalBits"`
	FrameBits      int     `json:"longitudConIntegridadBits" yaml:"longitudConIntegridadBits"`
	Overhead       float64 `json:"overhead" yaml:"overhead"`
	FlippedBits    int     `json:"bitsCambiados" yaml:"bitsCambiados"`
	ErrorDetected  bool    `json:"errorDetectado" yaml:"errorDetectado"`
	ErrorCorrected bool    `json:"errorCorregido" yaml:"errorCorregido"`
	Delivered      bool    `json:"entregado" yaml:"entregado"`
	Recovered      bool    `json:"recuperado" yaml:"recuperado"` // entregado e idéntico al original
	EncodeMicros   float64 `json:"tiempoCodificacionUs" yaml:"tiempoCodificacionUs"`
	DecodeMicros   float64 `json:"tiempoVerificacionUs" yaml:"tiempoVerificacionUs"`
}

// Runner ejecuta las pruebas. No es seguro para uso concurrente: comparte
// el generador aleatorio entre pruebas para que una semilla reproduzca el
// reporte completo.
type Runner struct {
	cfg          Config
	registry     *frame.Registry
	pipeline     *link.Pipeline
	presentation *presentation.PresentationLayer
	noise        *noise.NoiseLayer
	rng          *rand.Rand
	logger       *zap.Logger
}

func NewRunner(reg *frame.Registry, cfg Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, c := range cfg.Codecs {
		if _, err := reg.Lookup(c); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:          cfg,
		registry:     reg,
		pipeline:     link.NewPipeline(reg),
		presentation: presentation.NewPresentationLayer(),
		noise:        noise.NewNoiseLayerWithSeed(cfg.Seed),
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		logger:       logger,
	}, nil
}

// Run recorre longitudes × tasas × repeticiones; cada mensaje se transmite
// una vez con cada algoritmo y el mismo patrón de ruido aleatorio.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	total := len(r.cfg.Lengths) * len(r.cfg.BERs) * r.cfg.Repetitions * len(r.cfg.Codecs)
	trials := make([]Trial, 0, total)
	start := time.Now()

	for _, length := range r.cfg.Lengths {
		for _, ber := range r.cfg.BERs {
			for rep := 0; rep < r.cfg.Repetitions; rep++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				text := r.randomText(length)
				for _, codec := range r.cfg.Codecs {
					t, err := r.trial(text, codec, ber)
					if err != nil {
						return nil, err
					}
					trials = append(trials, t)
				}
			}
			r.logger.Debug("benchmark",
				zap.Int("length", length),
				zap.Float64("ber", ber),
				zap.Int("done", len(trials)),
				zap.Int("total", total))
		}
	}

	r.logger.Info("benchmark terminado",
		zap.Int("trials", len(trials)),
		zap.Duration("elapsed", time.Since(start)))

	return &Report{
		GeneratedAt: time.Now().UTC(),
		Config:      r.cfg,
		Trials:      trials,
		Summaries:   Summarize(trials),
	}, nil
}

func (r *Runner) randomText(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rng.Intn(len(alphabet))]
	}
	return string(b)
}

func (r *Runner) trial(text, codec string, ber float64) (Trial, error) {
	payload, err := r.presentation.CodificarMensaje(text)
	if err != nil {
		return Trial{}, err
	}

	encStart := time.Now()
	encoded, err := frame.BuildFrame(r.registry, codec, payload)
	if err != nil {
		return Trial{}, err
	}
	encodeTime := time.Since(encStart)

	noisy, err := r.noise.AplicarRuido(encoded, ber)
	if err != nil {
		return Trial{}, err
	}

	o := r.pipeline.Process(noisy.NoisyBits, codec)

	return Trial{
		Codec:          codec,
		Length:         len(text),
		BER:            ber,
		PayloadBits:    payload.Len(),
		FrameBits:      encoded.Len(),
		Overhead:       frame.Overhead(payload.Len(), encoded.Len()),
		FlippedBits:    noisy.ErrorsInjected,
		ErrorDetected:  o.Result.ErrorDetected,
		ErrorCorrected: o.Delivered() && o.Result.ErrorCorrected,
		Delivered:      o.Delivered(),
		Recovered:      o.Delivered() && o.Text == text,
		EncodeMicros:   micros(encodeTime),
		DecodeMicros:   micros(o.Duration),
	}, nil
}

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// Summary agrega las pruebas de un algoritmo y una tasa de error.
type Summary struct {
	Codec  string  `json:"algoritmo" yaml:"algoritmo"`
	BER    float64 `json:"tasaError" yaml:"tasaError"`
	Trials int     `json:"pruebas" yaml:"pruebas"`

	WithErrors int `json:"conErrores" yaml:"conErrores"` // al menos un bit invertido
	Detected   int `json:"detectados" yaml:"detectados"`
	Corrected  int `json:"corregidos" yaml:"corregidos"`
	Delivered  int `json:"entregados" yaml:"entregados"`
	Recovered  int `json:"recuperados" yaml:"recuperados"`
	// Entregados con texto distinto al original: errores no detectados o
	// mal corregidos.
	Corrupted int `json:"corruptos" yaml:"corruptos"`

	MeanOverhead     float64 `json:"overheadPromedio" yaml:"overheadPromedio"`
	MeanEncodeMicros float64 `json:"codificacionPromedioUs" yaml:"codificacionPromedioUs"`
	MeanDecodeMicros float64 `json:"verificacionPromedioUs" yaml:"verificacionPromedioUs"`
}

func (s Summary) RecoveryRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Recovered) / float64(s.Trials)
}

// Summarize agrupa por (algoritmo, tasa) en orden estable.
func Summarize(trials []Trial) []Summary {
	type key struct {
		codec string
		ber   float64
	}
	acc := make(map[key]*Summary)
	for _, t := range trials {
		k := key{t.Codec, t.BER}
		s, ok := acc[k]
		if !ok {
			s = &Summary{Codec: t.Codec, BER: t.BER}
			acc[k] = s
		}
		s.Trials++
		if t.FlippedBits > 0 {
			s.WithErrors++
		}
		if t.ErrorDetected {
			s.Detected++
		}
		if t.ErrorCorrected {
			s.Corrected++
		}
		if t.Delivered {
			s.Delivered++
		}
		if t.Recovered {
			s.Recovered++
		}
		if t.Delivered && !t.Recovered {
			s.Corrupted++
		}
		s.MeanOverhead += t.Overhead
		s.MeanEncodeMicros += t.EncodeMicros
		s.MeanDecodeMicros += t.DecodeMicros
	}

	out := make([]Summary, 0, len(acc))
	for _, s := range acc {
		n := float64(s.Trials)
		s.MeanOverhead /= n
		s.MeanEncodeMicros /= n
		s.MeanDecodeMicros /= n
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Codec != out[j].Codec {
			return out[i].Codec < out[j].Codec
		}
		return out[i].BER < out[j].BER
	})
	return out
}
