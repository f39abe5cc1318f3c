package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler recibe tramas por WebSocket. Cada mensaje WebSocket es un
// mensaje completo: el fin del frame WebSocket es la señal de fin de stream.
// Responde a cada uno con el Outcome en JSON.
type WSHandler struct {
	handler  FrameHandler
	logger   *zap.Logger
	maxBits  int
	upgrader websocket.Upgrader
}

func NewWSHandler(handler FrameHandler, logger *zap.Logger, maxBits int) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		handler: handler,
		logger:  logger,
		maxBits: maxBits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readChunk,
			WriteBufferSize: readChunk,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade websocket fallido", zap.Error(err))
		return
	}
	defer conn.Close()
	if h.maxBits > 0 {
		conn.SetReadLimit(int64(h.maxBits))
	}

	connID := uuid.NewString()
	log := h.logger.With(zap.String("conn", connID), zap.String("remote", r.RemoteAddr))
	log.Debug("cliente websocket conectado")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("lectura websocket terminada", zap.Error(err))
			}
			return
		}

		buf := NewBuffer(h.maxBits)
		d := Delivery{ConnID: connID, Remote: r.RemoteAddr, Bits: len(data)}
		if d.Err = buf.Accumulate(data); d.Err == nil && buf.IsComplete(EndOfStream) {
			d.Frame, d.Err = buf.Drain()
		}

		o := h.handler(r.Context(), d)
		if o == nil {
			continue
		}
		if err := conn.WriteJSON(o); err != nil {
			log.Warn("no se pudo responder por websocket", zap.Error(err))
			return
		}
	}
}
