package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
)

var (
	decodeCodec string
	decodeJSON  bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <bits>",
	Short: "Verifica, corrige y decodifica una sola trama",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		reg := frame.NewRegistry(frame.NewCRC32Table())
		if _, err := reg.Lookup(decodeCodec); err != nil {
			return err
		}

		p := link.NewPipeline(reg, link.WithLogger(logger))
		o := p.ProcessBits(strings.TrimSpace(args[0]), decodeCodec)

		if decodeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(o)
		}
		app := application.NewApplicationLayerIO(cmd.InOrStdin(), cmd.OutOrStdout())
		app.MostrarMensaje(o)
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeCodec, "codec", "c", frame.CodecCRC32, "algoritmo: crc32 o hamming")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "imprime el resultado completo en JSON")
}
