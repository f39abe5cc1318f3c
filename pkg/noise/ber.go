package noise

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

// NoiseLayer maneja la inyección de errores en la transmisión
type NoiseLayer struct {
	rng *rand.Rand
}

// NewNoiseLayer crea una nueva instancia con semilla aleatoria
func NewNoiseLayer() *NoiseLayer {
	return NewNoiseLayerWithSeed(time.Now().UnixNano())
}

// NewNoiseLayerWithSeed crea una instancia con semilla específica (para tests reproducibles)
func NewNoiseLayerWithSeed(seed int64) *NoiseLayer {
	return &NoiseLayer{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ErrorResult contiene información sobre los errores inyectados
type ErrorResult struct {
	OriginalBits   frame.BitFrame // Bits originales
	NoisyBits      frame.BitFrame // Bits con ruido aplicado
	ErrorPositions []int          // Posiciones (base 1) donde se inyectaron errores
	TotalBits      int
	ErrorsInjected int
	ActualBER      float64
}

// AplicarRuido invierte cada bit con probabilidad ber
func (n *NoiseLayer) AplicarRuido(bits frame.BitFrame, ber float64) (*ErrorResult, error) {
	if err := ValidarBER(ber); err != nil {
		return nil, err
	}

	noisyBits := bits.Clone()
	var errorPositions []int
	for i := range noisyBits {
		if n.rng.Float64() < ber {
			noisyBits[i] ^= 1
			errorPositions = append(errorPositions, i+1)
		}
	}

	return newResult(bits, noisyBits, errorPositions), nil
}

// InvertirBits invierte exactamente las posiciones indicadas (base 1)
func InvertirBits(bits frame.BitFrame, positions ...int) (*ErrorResult, error) {
	noisyBits := bits.Clone()
	seen := make(map[int]bool, len(positions))
	var applied []int
	for _, pos := range positions {
		if pos < 1 || pos > len(bits) {
			return nil, fmt.Errorf("posición %d fuera de rango [1, %d]: %w", pos, len(bits), frame.ErrConfiguration)
		}
		if seen[pos] {
			continue
		}
		seen[pos] = true
		noisyBits[pos-1] ^= 1
		applied = append(applied, pos)
	}
	sort.Ints(applied)
	return newResult(bits, noisyBits, applied), nil
}

// InvertirAleatorios invierte k posiciones distintas elegidas al azar
func (n *NoiseLayer) InvertirAleatorios(bits frame.BitFrame, k int) (*ErrorResult, error) {
	if k < 0 || k > len(bits) {
		return nil, fmt.Errorf("cantidad de errores inválida: %d (trama de %d bits): %w", k, len(bits), frame.ErrConfiguration)
	}
	perm := n.rng.Perm(len(bits))[:k]
	for i := range perm {
		perm[i]++
	}
	return InvertirBits(bits, perm...)
}

func newResult(original, noisy frame.BitFrame, positions []int) *ErrorResult {
	actualBER := 0.0
	if len(original) > 0 {
		actualBER = float64(len(positions)) / float64(len(original))
	}
	return &ErrorResult{
		OriginalBits:   original.Clone(),
		NoisyBits:      noisy,
		ErrorPositions: positions,
		TotalBits:      len(original),
		ErrorsInjected: len(positions),
		ActualBER:      actualBER,
	}
}

// ValidarBER verifica que ber esté en [0, 1]
func ValidarBER(ber float64) error {
	if ber < 0.0 || ber > 1.0 || math.IsNaN(ber) {
		return fmt.Errorf("BER inválido: %.3f (debe estar entre 0.0 y 1.0): %w", ber, frame.ErrConfiguration)
	}
	return nil
}

// ChannelStats contiene estadísticas del canal ruidoso
type ChannelStats struct {
	TargetBER                    float64
	AverageBER                   float64
	BERStdDev                    float64
	Iterations                   int
	TotalBits                    int
	TotalErrors                  int
	AverageErrorsPerTransmission float64
	MaxErrors                    int
	MinErrors                    int
	ErrorDistribution            map[int]int // cantidad_errores -> frecuencia
}

// SimularCanalRuidoso aplica ruido varias veces sobre la misma trama
func (n *NoiseLayer) SimularCanalRuidoso(bits frame.BitFrame, ber float64, iteraciones int) (*ChannelStats, error) {
	if iteraciones <= 0 {
		return nil, fmt.Errorf("iteraciones debe ser mayor a 0: %d: %w", iteraciones, frame.ErrConfiguration)
	}

	stats := &ChannelStats{
		TargetBER:         ber,
		Iterations:        iteraciones,
		TotalBits:         len(bits) * iteraciones,
		ErrorDistribution: make(map[int]int),
	}

	berValues := make([]float64, 0, iteraciones)
	for i := 0; i < iteraciones; i++ {
		result, err := n.AplicarRuido(bits, ber)
		if err != nil {
			return nil, fmt.Errorf("error en iteración %d: %w", i, err)
		}

		stats.TotalErrors += result.ErrorsInjected
		berValues = append(berValues, result.ActualBER)
		stats.ErrorDistribution[result.ErrorsInjected]++

		if i == 0 || result.ErrorsInjected > stats.MaxErrors {
			stats.MaxErrors = result.ErrorsInjected
		}
		if i == 0 || result.ErrorsInjected < stats.MinErrors {
			stats.MinErrors = result.ErrorsInjected
		}
	}

	if stats.TotalBits > 0 {
		stats.AverageBER = float64(stats.TotalErrors) / float64(stats.TotalBits)
	}
	stats.AverageErrorsPerTransmission = float64(stats.TotalErrors) / float64(iteraciones)

	var variance float64
	for _, v := range berValues {
		diff := v - stats.AverageBER
		variance += diff * diff
	}
	stats.BERStdDev = math.Sqrt(variance / float64(len(berValues)))

	return stats, nil
}
