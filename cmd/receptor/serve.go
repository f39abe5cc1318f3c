package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/api"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/config"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/metrics"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve [crc32|hamming]",
	Short: "Recibe tramas por TCP (y WebSocket/HTTP) y las muestra",
	Long: `Escucha conexiones TCP; cada conexión transporta un mensaje de texto 0/1
que termina cuando el emisor cierra su lado. Si no se indica el algoritmo
(argumento, --algorithm o RECEPTOR_ALGORITHM) se pregunta al iniciar.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	d := config.Default()
	f := serveCmd.Flags()
	f.String("tcp-addr", d.TCPAddr, "dirección TCP del receptor")
	f.String("http-addr", d.HTTPAddr, "dirección de la API, WebSocket y métricas (vacío = deshabilitado)")
	f.String("algorithm", "", "algoritmo del emisor: crc32 o hamming")
	f.Int("max-frame-bits", d.MaxFrameBits, "máximo de bits por mensaje (0 = sin límite)")
	f.Duration("idle-timeout", d.IdleTimeout, "descarta conexiones inactivas tras este tiempo (0 = sin límite)")

	_ = viper.BindPFlag("tcp_addr", f.Lookup("tcp-addr"))
	_ = viper.BindPFlag("http_addr", f.Lookup("http-addr"))
	_ = viper.BindPFlag("algorithm", f.Lookup("algorithm"))
	_ = viper.BindPFlag("max_frame_bits", f.Lookup("max-frame-bits"))
	_ = viper.BindPFlag("idle_timeout", f.Lookup("idle-timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := frame.NewRegistry(frame.NewCRC32Table())
	app := application.NewApplicationLayerIO(cmd.InOrStdin(), cmd.OutOrStdout())

	codec := cfg.Algorithm
	if len(args) == 1 {
		codec = args[0]
	}
	codec = resolveCodec(reg, app, codec, logger)
	fmt.Fprintf(cmd.OutOrStdout(), "Receptor configurado para usar el algoritmo: %s\n", codec)

	m := metrics.New()
	pipeline := link.NewPipeline(reg, link.WithLogger(logger), link.WithObserver(m))
	receptor := application.NewReceptor(pipeline, app, codec)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := transport.NewServer(receptor.HandleDelivery,
		transport.WithServerLogger(logger),
		transport.WithMaxBits(cfg.MaxFrameBits),
		transport.WithIdleTimeout(cfg.IdleTimeout),
	)
	ln, err := srv.Listen(cfg.TCPAddr)
	if err != nil {
		return err
	}

	errc := make(chan error, 2)
	running := 1
	go func() { errc <- srv.Serve(ctx, ln) }()

	if cfg.HTTPAddr != "" {
		httpLn, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			stop()
			<-errc
			return err
		}
		httpSrv := api.NewServer(api.ServerConfig{
			Pipeline:  pipeline,
			Registry:  reg,
			Metrics:   m,
			Logger:    logger,
			MaxBits:   cfg.MaxFrameBits,
			WSHandler: receptor.HandleDelivery,
		})
		running++
		go func() { errc <- httpSrv.Serve(ctx, httpLn) }()
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Esperando mensajes...")

	// El primer error detiene a los demás servidores.
	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	logger.Info("receptor detenido")
	return firstErr
}

// resolveCodec valida el algoritmo indicado o lo pregunta al usuario.
func resolveCodec(reg *frame.Registry, app *application.ApplicationLayer, name string, logger *zap.Logger) string {
	if name != "" {
		c, err := reg.Lookup(name)
		if err == nil {
			return c.Name()
		}
		logger.Warn("algoritmo inválido, se pregunta al usuario", zap.String("algorithm", name))
	}
	return app.SolicitarAlgoritmo()
}
