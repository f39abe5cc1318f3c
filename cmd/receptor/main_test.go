package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

func TestResolveCodec(t *testing.T) {
	reg := frame.NewRegistry(frame.NewCRC32Table())
	tests := []struct {
		name     string
		arg      string
		input    string
		want     string
		prompted bool
		fallback bool
	}{
		{name: "argumento hamming", arg: "hamming", want: frame.CodecHamming},
		{name: "alias en mayúsculas", arg: "CRC", want: frame.CodecCRC32},
		{name: "argumento inválido pregunta", arg: "paridad", input: "2\n", want: frame.CodecHamming, prompted: true},
		{name: "sin argumento pregunta", input: "1\n", want: frame.CodecCRC32, prompted: true},
		{name: "respuesta inválida", input: "x\n", want: frame.CodecCRC32, prompted: true, fallback: true},
		{name: "sin entrada", want: frame.CodecCRC32, prompted: true, fallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			app := application.NewApplicationLayerIO(strings.NewReader(tt.input), &out)

			got := resolveCodec(reg, app, tt.arg, zap.NewNop())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompted, strings.Contains(out.String(), "Seleccione (1 o 2)"))
			assert.Equal(t, tt.fallback, strings.Contains(out.String(), "Opción inválida"))
		})
	}
}

func runDecode(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"decode", "--log-level", "error"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	reg := frame.NewRegistry(frame.NewCRC32Table())
	ham, err := frame.BuildFrame(reg, frame.CodecHamming, frame.FromBytes([]byte("A")))
	require.NoError(t, err)
	noisy, _ := ham.Flip(5)

	t.Run("json", func(t *testing.T) {
		out, err := runDecode(t, "--codec", "hamming", "--json", noisy.String())
		require.NoError(t, err)

		var got struct {
			Estado    string `json:"estado"`
			Mensaje   string `json:"mensaje"`
			Resultado struct {
				ErrorCorregido bool `json:"errorCorregido"`
				PosicionError  int  `json:"posicionError"`
			} `json:"resultado"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got), out)
		assert.Equal(t, "delivered", got.Estado)
		assert.Equal(t, "A", got.Mensaje)
		assert.True(t, got.Resultado.ErrorCorregido)
		assert.Equal(t, 5, got.Resultado.PosicionError)
	})

	t.Run("texto", func(t *testing.T) {
		out, err := runDecode(t, "--codec", "hamming", "--json=false", noisy.String())
		require.NoError(t, err)
		assert.Contains(t, out, "Error corregido en la posición 5")
		assert.Contains(t, out, "Mensaje recibido correctamente:\nA")
	})

	t.Run("rechazado", func(t *testing.T) {
		out, err := runDecode(t, "--codec", "crc32", "--json=false", "0101")
		require.NoError(t, err)
		assert.Contains(t, out, "ERROR:")
		assert.NotContains(t, out, "Mensaje recibido correctamente")
	})

	t.Run("codec desconocido", func(t *testing.T) {
		_, err := runDecode(t, "--codec", "paridad", "0101")
		assert.ErrorIs(t, err, frame.ErrConfiguration)
	})
}
