package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string   `json:"status"`
	Codecs []string `json:"codecs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    HealthResponse{Status: "ok", Codecs: s.registry.Names()},
	})
}

// handleDecode procesa el cuerpo como una trama completa de texto 0/1.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	c, err := s.registry.Lookup(chi.URLParam(r, "codec"))
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	// Nombre canónico: "CRC" y "crc" se registran como crc32.
	codec := c.Name()

	buf := transport.NewBuffer(s.maxBits)
	d := transport.Delivery{Remote: r.RemoteAddr}
	body := io.Reader(r.Body)
	if s.maxBits > 0 {
		// +3: el CRLF final, que no cuenta como bits, y un bit más para
		// detectar el desborde.
		body = io.LimitReader(r.Body, int64(s.maxBits)+3)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.Bits = len(data)
	if d.Err = buf.Accumulate(data); d.Err == nil && buf.IsComplete(transport.EndOfStream) {
		d.Frame, d.Err = buf.Drain()
	}

	var o *link.Outcome
	if d.Err != nil {
		o = s.pipeline.Fail(codec, d.Bits, d.Err)
	} else {
		o = s.pipeline.Process(d.Frame, codec)
	}
	sendJSON(w, statusFor(o), APIResponse{Success: o.Delivered(), Data: o, Error: errString(o.Err)})
}

func statusFor(o *link.Outcome) int {
	switch {
	case o.Delivered():
		return http.StatusOK
	case errors.Is(o.Err, transport.ErrBufferOverflow):
		return http.StatusRequestEntityTooLarge
	case errors.Is(o.Err, frame.ErrMalformedInput), errors.Is(o.Err, frame.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, APIResponse{Success: false, Error: message})
}
