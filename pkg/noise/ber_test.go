package noise

import (
	"testing"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

func TestNoiseLayer_AplicarRuido(t *testing.T) {
	n := NewNoiseLayerWithSeed(12345) // Semilla fija para tests reproducibles

	tests := []struct {
		name    string
		bits    string
		ber     float64
		wantErr bool
	}{
		{name: "zero BER", bits: "01011010", ber: 0.0},
		{name: "low BER", bits: "01011010", ber: 0.01},
		{name: "high BER", bits: "0101", ber: 0.5},
		{name: "full BER", bits: "0101", ber: 1.0},
		{name: "invalid BER - negative", bits: "01", ber: -0.1, wantErr: true},
		{name: "invalid BER - too high", bits: "01", ber: 1.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := frame.MustParse(tt.bits)
			result, err := n.AplicarRuido(bits, tt.ber)
			if (err != nil) != tt.wantErr {
				t.Errorf("AplicarRuido() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if len(result.NoisyBits) != len(bits) {
				t.Errorf("NoisyBits length = %d, want %d", len(result.NoisyBits), len(bits))
			}
			if result.ErrorsInjected != len(result.ErrorPositions) {
				t.Errorf("ErrorsInjected = %d, but ErrorPositions length = %d",
					result.ErrorsInjected, len(result.ErrorPositions))
			}
			if tt.ber == 0.0 && result.ErrorsInjected != 0 {
				t.Errorf("With BER=0, expected 0 errors, got %d", result.ErrorsInjected)
			}
			if tt.ber == 1.0 && result.ErrorsInjected != len(bits) {
				t.Errorf("With BER=1, expected %d errors, got %d", len(bits), result.ErrorsInjected)
			}
			for _, pos := range result.ErrorPositions {
				if result.NoisyBits[pos-1] == bits[pos-1] {
					t.Errorf("posición %d reportada pero no invertida", pos)
				}
			}
			if !result.OriginalBits.Equal(bits) {
				t.Error("AplicarRuido no debe modificar la trama original")
			}
		})
	}
}

func TestInvertirBits(t *testing.T) {
	bits := frame.MustParse("0000")
	result, err := InvertirBits(bits, 4, 1, 4)
	if err != nil {
		t.Fatalf("InvertirBits() error inesperado: %v", err)
	}
	if result.NoisyBits.String() != "1001" {
		t.Errorf("NoisyBits = %s, want 1001", result.NoisyBits)
	}
	if result.ErrorsInjected != 2 {
		t.Errorf("ErrorsInjected = %d, want 2", result.ErrorsInjected)
	}
	if _, err := InvertirBits(bits, 5); err == nil {
		t.Error("posición fuera de rango debía fallar")
	}
}

func TestNoiseLayer_InvertirAleatorios(t *testing.T) {
	n := NewNoiseLayerWithSeed(1)
	bits := frame.MustParse("0000000000")
	result, err := n.InvertirAleatorios(bits, 3)
	if err != nil {
		t.Fatalf("InvertirAleatorios() error inesperado: %v", err)
	}
	if result.ErrorsInjected != 3 {
		t.Errorf("ErrorsInjected = %d, want 3", result.ErrorsInjected)
	}
	if _, err := n.InvertirAleatorios(bits, 11); err == nil {
		t.Error("k mayor que la trama debía fallar")
	}
}

func TestNoiseLayer_ConsistentSeed(t *testing.T) {
	seed := int64(12345)
	bits := frame.MustParse("0101101011001011")
	ber := 0.2

	n1 := NewNoiseLayerWithSeed(seed)
	n2 := NewNoiseLayerWithSeed(seed)

	result1, err1 := n1.AplicarRuido(bits, ber)
	if err1 != nil {
		t.Fatalf("First AplicarRuido failed: %v", err1)
	}
	result2, err2 := n2.AplicarRuido(bits, ber)
	if err2 != nil {
		t.Fatalf("Second AplicarRuido failed: %v", err2)
	}

	if !result1.NoisyBits.Equal(result2.NoisyBits) {
		t.Errorf("NoisyBits differ: %s vs %s", result1.NoisyBits, result2.NoisyBits)
	}
}

func TestNoiseLayer_SimularCanalRuidoso(t *testing.T) {
	n := NewNoiseLayerWithSeed(99)
	bits := frame.MustParse("0101010101010101")

	stats, err := n.SimularCanalRuidoso(bits, 0.0, 10)
	if err != nil {
		t.Fatalf("SimularCanalRuidoso() error inesperado: %v", err)
	}
	if stats.TotalErrors != 0 || stats.ErrorDistribution[0] != 10 {
		t.Errorf("con BER=0 no debe haber errores: %+v", stats)
	}
	if _, err := n.SimularCanalRuidoso(bits, 0.1, 0); err == nil {
		t.Error("iteraciones=0 debía fallar")
	}
}

// Benchmark para evaluar performance
func BenchmarkNoiseLayer_AplicarRuido(b *testing.B) {
	n := NewNoiseLayer()
	bits := make(frame.BitFrame, 1000)
	for i := range bits {
		bits[i] = byte(i % 2) // Patrón alternante
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := n.AplicarRuido(bits, 0.01); err != nil {
			b.Fatalf("AplicarRuido failed: %v", err)
		}
	}
}
