package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
)

// Ack es la confirmación que recibe el emisor al cerrar su lado del stream.
const Ack = "Mensaje recibido"

const readChunk = 4096

// Delivery es un mensaje completo (o fallido) de una conexión.
type Delivery struct {
	ConnID string
	Remote string
	Frame  frame.BitFrame
	Bits   int
	Err    error
}

// FrameHandler procesa un mensaje completo. Se llama una vez por mensaje,
// desde la goroutine de su conexión.
type FrameHandler func(ctx context.Context, d Delivery) *link.Outcome

type ServerOption func(*Server)

func WithServerLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBits acota el buffer por conexión (0 = sin límite).
func WithMaxBits(n int) ServerOption {
	return func(s *Server) { s.maxBits = n }
}

// WithIdleTimeout descarta conexiones que no envían nada durante d (0 = sin límite).
func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.idleTimeout = d }
}

// Server acepta conexiones TCP concurrentes. Cada conexión tiene su propio
// Buffer y su mensaje se procesa de forma aislada.
type Server struct {
	handler     FrameHandler
	logger      *zap.Logger
	maxBits     int
	idleTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func NewServer(handler FrameHandler, opts ...ServerOption) *Server {
	s := &Server{
		handler: handler,
		logger:  zap.NewNop(),
		maxBits: DefaultMaxBits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return ln, nil
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return ""
}

// Serve acepta conexiones hasta que ctx se cancela o el listener se cierra.
// Espera a que terminen las conexiones en curso antes de volver.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger.Info("servidor escuchando", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := s.Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		err := s.ln.Close()
		s.ln = nil
		return err
	}
	return nil
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	d := Delivery{ConnID: uuid.NewString(), Remote: conn.RemoteAddr().String()}
	log := s.logger.With(zap.String("conn", d.ConnID), zap.String("remote", d.Remote))
	log.Debug("cliente conectado")

	// Al detener el servidor se interrumpe la lectura pendiente.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	buf := NewBuffer(s.maxBits)
	chunk := make([]byte, readChunk)
	for {
		if s.idleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}
		if ctx.Err() != nil {
			log.Warn("servidor detenido, mensaje descartado", zap.Int("bytes", buf.Len()))
			return
		}
		n, err := conn.Read(chunk)
		if n > 0 {
			if aerr := buf.Accumulate(chunk[:n]); aerr != nil {
				d.Bits, d.Err = buf.Len()+n, aerr
				s.deliver(ctx, conn, log, d)
				return
			}
			log.Debug("fragmento recibido", zap.Int("bytes", n))
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && buf.IsComplete(EndOfStream) {
			break
		}
		switch {
		case ctx.Err() != nil:
			log.Warn("servidor detenido, mensaje descartado", zap.Int("bytes", buf.Len()))
		case errors.Is(err, os.ErrDeadlineExceeded):
			log.Warn("conexión inactiva, mensaje descartado", zap.Int("bytes", buf.Len()))
		default:
			log.Warn("error de lectura, mensaje descartado", zap.Error(err))
		}
		return
	}

	d.Bits = buf.Len()
	d.Frame, d.Err = buf.Drain()
	s.deliver(ctx, conn, log, d)
}

func (s *Server) deliver(ctx context.Context, conn net.Conn, log *zap.Logger, d Delivery) {
	if _, err := io.WriteString(conn, Ack); err != nil {
		log.Debug("no se pudo confirmar al emisor", zap.Error(err))
	}
	if s.handler == nil {
		return
	}
	o := s.handler(ctx, d)
	if o != nil {
		log.Info("mensaje procesado", zap.String("id", o.ID), zap.Stringer("state", o.State))
	}
}

// Send envía una trama como texto 0/1, cierra el lado de escritura para
// señalar el fin del mensaje y devuelve la confirmación del receptor.
func Send(ctx context.Context, addr string, f frame.BitFrame) (string, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if _, err := io.WriteString(conn, f.String()); err != nil {
		return "", err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return "", err
		}
	}
	ack, err := io.ReadAll(conn)
	if err != nil {
		return "", err
	}
	return string(ack), nil
}
