package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/noise"
)

var (
	encodeBits   string
	encodeAlgo   string
	encodeBER    float64
	encodeTrials int
)

// encodeCmd muestra la trama que produce un algoritmo para una cadena de
// bits sin enviarla. Con --trials simula el canal ruidoso sobre ella.
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Muestra la trama CRC-32 o Hamming de una cadena binaria",
	Example: `  emisor encode --bits 1011001 --algorithm hamming
  emisor encode --bits 110101 --algorithm crc32 --ber 0.05 --trials 1000`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		payload, err := frame.Parse(strings.TrimSpace(encodeBits))
		if err != nil {
			return err
		}
		reg := frame.NewRegistry(frame.NewCRC32Table())
		codec, err := reg.Lookup(encodeAlgo)
		if err != nil {
			return err
		}
		encoded, err := codec.Encode(payload)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Bits de entrada: %s (longitud: %d)\n", payload, payload.Len())
		fmt.Fprintf(w, "Bits codificados: %s (longitud: %d)\n", encoded, encoded.Len())

		switch codec.(type) {
		case frame.CRC32Codec:
			crc := encoded[payload.Len():]
			fmt.Fprintf(w, "\nDesglose de la trama:\n")
			fmt.Fprintf(w, "  Datos: %s\n", payload)
			fmt.Fprintf(w, "  CRC-32: %s (hex %s)\n", crc, hex.EncodeToString(crc.Bytes()))
		case frame.HammingCodec:
			fmt.Fprintf(w, "\nBits de paridad (%d):\n", encoded.Len()-payload.Len())
			for p := 1; p <= encoded.Len(); p <<= 1 {
				fmt.Fprintf(w, "  p%d = %d\n", p, encoded[p-1])
			}
		}
		fmt.Fprintf(w, "Overhead: %.2f\n", frame.Overhead(payload.Len(), encoded.Len()))

		if encodeTrials == 0 {
			return nil
		}
		stats, err := noise.NewNoiseLayer().SimularCanalRuidoso(encoded, encodeBER, encodeTrials)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nCanal simulado (%d transmisiones, BER %.3f):\n", stats.Iterations, stats.TargetBER)
		fmt.Fprintf(w, "  BER promedio: %.4f (desv. %.4f)\n", stats.AverageBER, stats.BERStdDev)
		fmt.Fprintf(w, "  Errores por trama: %.2f (min %d, max %d)\n",
			stats.AverageErrorsPerTransmission, stats.MinErrors, stats.MaxErrors)
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVar(&encodeBits, "bits", "", "cadena binaria (ej: 110101)")
	encodeCmd.Flags().StringVarP(&encodeAlgo, "algorithm", "a", frame.CodecCRC32, "algoritmo: crc32 o hamming")
	encodeCmd.Flags().Float64Var(&encodeBER, "ber", 0, "BER para simular el canal sobre la trama")
	encodeCmd.Flags().IntVar(&encodeTrials, "trials", 0, "transmisiones simuladas (0 = sin simulación)")
	_ = encodeCmd.MarkFlagRequired("bits")
}
