// Package logging construye el *zap.Logger compartido por los binarios.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

// New devuelve un logger de consola hacia stderr con el nivel indicado
// ("debug", "info", "warn", "error"; vacío = info). stdout queda libre para
// la salida del usuario.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("nivel de log %q: %v: %w", level, err, frame.ErrConfiguration)
		}
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl)

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if lvl == zapcore.DebugLevel {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}
