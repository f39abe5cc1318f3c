package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/application"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/logging"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/noise"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/presentation"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/wsclient"
)

// LayeredEmitter recorre las capas del emisor: aplicación, presentación,
// enlace, ruido y transmisión.
type LayeredEmitter struct {
	app          *application.ApplicationLayer
	presentation *presentation.PresentationLayer
	registry     *frame.Registry
	noise        *noise.NoiseLayer
	out          io.Writer
	logger       *zap.Logger

	tcpAddr string
	wsURL   string // si no está vacío se usa WebSocket en lugar de TCP
	timeout time.Duration
}

// TransmissionResult contiene el resultado de una transmisión
type TransmissionResult struct {
	Config         *application.MessageConfig
	TextBits       frame.BitFrame
	Frame          frame.BitFrame
	NoisyFrame     frame.BitFrame
	ErrorPositions []int
	ActualBER      float64
	Ack            string
	Reply          map[string]any // respuesta del receptor por WebSocket
	Success        bool
	Error          string
	TotalTime      time.Duration
}

// ProcessMessage procesa un mensaje a través de todas las capas
func (le *LayeredEmitter) ProcessMessage(ctx context.Context, config *application.MessageConfig) (*TransmissionResult, error) {
	start := time.Now()
	result := &TransmissionResult{Config: config}

	textBits, err := le.presentation.CodificarMensaje(config.Text)
	if err != nil {
		return nil, fmt.Errorf("error en presentación: %w", err)
	}
	result.TextBits = textBits

	encoded, err := frame.BuildFrame(le.registry, config.Algorithm, textBits)
	if err != nil {
		return nil, err
	}
	result.Frame = encoded

	noisy, err := le.noise.AplicarRuido(encoded, config.BER)
	if err != nil {
		return nil, err
	}
	if len(config.Flips) > 0 {
		manual, err := noise.InvertirBits(noisy.NoisyBits, config.Flips...)
		if err != nil {
			return nil, err
		}
		if noisy, err = mergeNoise(encoded, manual.NoisyBits); err != nil {
			return nil, err
		}
	}
	if config.Random > 0 {
		extra, err := le.noise.InvertirAleatorios(noisy.NoisyBits, config.Random)
		if err != nil {
			return nil, err
		}
		if noisy, err = mergeNoise(encoded, extra.NoisyBits); err != nil {
			return nil, err
		}
	}
	result.NoisyFrame = noisy.NoisyBits
	result.ErrorPositions = noisy.ErrorPositions
	result.ActualBER = noisy.ActualBER

	le.logger.Debug("trama lista",
		zap.String("codec", config.Algorithm),
		zap.Int("payload_bits", textBits.Len()),
		zap.Int("frame_bits", encoded.Len()),
		zap.Ints("flipped", noisy.ErrorPositions))

	if le.wsURL != "" {
		result.Reply, err = wsclient.SendFrame(le.wsURL, noisy.NoisyBits)
	} else {
		sendCtx, cancel := context.WithTimeout(ctx, le.timeout)
		result.Ack, err = transport.Send(sendCtx, le.tcpAddr, noisy.NoisyBits)
		cancel()
	}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Success = true
	}
	result.TotalTime = time.Since(start)
	return result, nil
}

// mergeNoise expresa el ruido acumulado respecto de la trama original. Una
// posición invertida dos veces vuelve a su valor.
func mergeNoise(original, noisy frame.BitFrame) (*noise.ErrorResult, error) {
	var positions []int
	for i := range original {
		if original[i] != noisy[i] {
			positions = append(positions, i+1)
		}
	}
	return noise.InvertirBits(original, positions...)
}

func (le *LayeredEmitter) mostrarResultado(r *TransmissionResult) {
	w := le.out
	fmt.Fprintln(w, "Resultado:")
	fmt.Fprintf(w, "   Mensaje original: %q\n", r.Config.Text)
	fmt.Fprintf(w, "   Bits de texto: %d\n", r.TextBits.Len())
	fmt.Fprintf(w, "   Trama (%s): %d bits, overhead %.2f\n",
		r.Config.Algorithm, r.Frame.Len(), frame.Overhead(r.TextBits.Len(), r.Frame.Len()))
	fmt.Fprintf(w, "   Trama enviada: %s\n", r.NoisyFrame)
	if len(r.ErrorPositions) > 0 {
		fmt.Fprintf(w, "   Bits invertidos: %v (BER real: %.4f)\n", r.ErrorPositions, r.ActualBER)
	} else {
		fmt.Fprintln(w, "   Sin errores inyectados")
	}
	fmt.Fprintf(w, "   Tiempo total: %v\n", r.TotalTime)

	switch {
	case !r.Success:
		le.app.MostrarResultado(false, r.Error)
	case r.Reply != nil:
		le.app.MostrarResultado(true, fmt.Sprintf("%v - %v", r.Reply["estado"], r.Reply["aviso"]))
		if msg, _ := r.Reply["mensaje"].(string); msg != "" {
			fmt.Fprintf(w, "Mensaje decodificado: %s\n", msg)
		}
	default:
		le.app.MostrarResultado(true, r.Ack)
	}
}

var (
	text      string
	algorithm string
	ber       float64
	flips     []int
	random    int
	seed      int64
)

var rootCmd = &cobra.Command{
	Use:          "emisor",
	Short:        "Codifica un mensaje, simula un canal ruidoso y lo envía al receptor",
	SilenceUsage: true,
	RunE:         runSend,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&text, "text", "t", "", "mensaje a transmitir (vacío = modo interactivo)")
	f.StringVarP(&algorithm, "algorithm", "a", frame.CodecCRC32, "algoritmo: crc32 o hamming")
	f.Float64Var(&ber, "ber", 0, "probabilidad de invertir cada bit (0.0 - 1.0)")
	f.IntSliceVar(&flips, "flip", nil, "posiciones (1-based) a invertir, repetible")
	f.IntVar(&random, "errors", 0, "cantidad de bits adicionales a invertir al azar")
	f.Int64Var(&seed, "seed", 0, "semilla del ruido (0 = aleatoria)")
	f.String("tcp-addr", "127.0.0.1:8888", "dirección TCP del receptor")
	f.String("ws-url", "", "URL WebSocket del receptor (ej: ws://127.0.0.1:8080/ws); reemplaza TCP")
	f.Duration("timeout", 5*time.Second, "tiempo máximo de envío")
	f.String("log-level", "warn", "nivel de log")

	_ = viper.BindPFlag("tcp_addr", f.Lookup("tcp-addr"))
	_ = viper.BindPFlag("ws_url", f.Lookup("ws-url"))
	_ = viper.BindPFlag("timeout", f.Lookup("timeout"))
	_ = viper.BindPFlag("logging.level", f.Lookup("log-level"))
	viper.SetEnvPrefix("emisor")
	viper.AutomaticEnv()

	rootCmd.AddCommand(encodeCmd)
}

func runSend(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	app := application.NewApplicationLayerIO(cmd.InOrStdin(), cmd.OutOrStdout())
	config := &application.MessageConfig{Text: text, Algorithm: algorithm, BER: ber, Flips: flips, Random: random}
	if text == "" {
		if config, err = app.SolicitarMensaje(); err != nil {
			return err
		}
		config.Flips, config.Random = flips, random
	} else if algo, ok := application.ElegirAlgoritmo(algorithm); ok {
		config.Algorithm = algo
	}
	if err := app.ValidarConfiguracion(config); err != nil {
		return err
	}
	app.MostrarConfiguracion(config)

	nl := noise.NewNoiseLayer()
	if seed != 0 {
		nl = noise.NewNoiseLayerWithSeed(seed)
	}
	le := &LayeredEmitter{
		app:          app,
		presentation: presentation.NewPresentationLayer(),
		registry:     frame.NewRegistry(frame.NewCRC32Table()),
		noise:        nl,
		out:          cmd.OutOrStdout(),
		logger:       logger,
		tcpAddr:      viper.GetString("tcp_addr"),
		wsURL:        viper.GetString("ws_url"),
		timeout:      viper.GetDuration("timeout"),
	}

	result, err := le.ProcessMessage(cmd.Context(), config)
	if err != nil {
		return err
	}
	le.mostrarResultado(result)
	if !result.Success {
		return fmt.Errorf("transmisión fallida: %s", result.Error)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
