package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Report struct {
	GeneratedAt time.Time `json:"generado" yaml:"generado"`
	Config      Config    `json:"configuracion" yaml:"configuracion"`
	Summaries   []Summary `json:"resumen" yaml:"resumen"`
	Trials      []Trial   `json:"pruebas" yaml:"pruebas"`
}

// FormatFromPath deduce el formato por la extensión (.json, o YAML en otro caso).
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("formato de reporte desconocido %q (usar yaml o json): %w", format, frame.ErrConfiguration)
	}
}

// WriteFile guarda el reporte con el formato que indica la extensión.
func (r *Report) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creando directorio del reporte: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creando reporte: %w", err)
	}
	if err := r.Write(f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PrintSummary escribe el resumen como tabla.
func (r *Report) PrintSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITMO\tBER\tPRUEBAS\tCON ERRORES\tDETECTADOS\tCORREGIDOS\tRECUPERADOS\tCORRUPTOS\tOVERHEAD\tVERIF (us)")
	for _, s := range r.Summaries {
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%d\t%d\t%d\t%d\t%d\t%.3f\t%.2f\n",
			s.Codec, s.BER, s.Trials, s.WithErrors, s.Detected, s.Corrected,
			s.Recovered, s.Corrupted, s.MeanOverhead, s.MeanDecodeMicros)
	}
	return tw.Flush()
}
