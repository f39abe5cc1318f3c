package wsclient

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

// Timeout para la escritura y la espera de la respuesta del receptor.
var Timeout = 5 * time.Second

// SendFrame se conecta al receptor WebSocket en url, envía la trama como
// texto 0/1 y devuelve la respuesta JSON del receptor.
func SendFrame(url string, f frame.BitFrame) (map[string]any, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(Timeout))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(f.String())); err != nil {
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(Timeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var reply map[string]any
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return reply, nil
}
