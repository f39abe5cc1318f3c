package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/benchmark"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/logging"
)

func main() {
	defaults := benchmark.DefaultConfig()
	var (
		cfg    = defaults
		output string
		format string
	)

	rootCmd := &cobra.Command{
		Use:           "bench",
		Short:         "Compara CRC-32 y Hamming con mensajes aleatorios sobre un canal ruidoso",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(viper.GetString("logging.level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			runner, err := benchmark.NewRunner(frame.NewRegistry(frame.NewCRC32Table()), cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			report, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			if err := report.PrintSummary(cmd.OutOrStdout()); err != nil {
				return err
			}
			switch {
			case output != "":
				if err := report.WriteFile(output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nReporte guardado en %s\n", output)
			case format != "":
				return report.Write(cmd.OutOrStdout(), format)
			}
			return nil
		},
	}

	f := rootCmd.Flags()
	f.IntSliceVar(&cfg.Lengths, "lengths", defaults.Lengths, "longitudes de mensaje en caracteres")
	f.Float64SliceVar(&cfg.BERs, "bers", defaults.BERs, "tasas de error por bit")
	f.IntVar(&cfg.Repetitions, "reps", defaults.Repetitions, "repeticiones por combinación")
	f.StringSliceVar(&cfg.Codecs, "codecs", defaults.Codecs, "algoritmos a comparar")
	f.Int64Var(&cfg.Seed, "seed", defaults.Seed, "semilla del generador")
	f.StringVarP(&output, "output", "o", "", "archivo del reporte (.yaml o .json)")
	f.StringVar(&format, "format", "", "imprime el reporte completo en stdout: yaml o json")
	f.String("log-level", "warn", "nivel de log")

	viper.SetEnvPrefix("bench")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("logging.level", f.Lookup("log-level"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
