package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	readDeadline  = time.Minute
	writeDeadline = 20 * time.Second
)

// gorillaConn adapts a gorilla connection to the Conn interface.
type gorillaConn struct {
	socket *websocket.Conn
}

func newGorillaConn(conn *websocket.Conn) *gorillaConn {
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	return &gorillaConn{socket: conn}
}

func (gc *gorillaConn) Read() ([]byte, error) {
	_, p, err := gc.socket.ReadMessage()
	return p, err
}

func (gc *gorillaConn) Write(data []byte) error {
	gc.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
	return gc.socket.WriteMessage(websocket.TextMessage, data)
}

func (gc *gorillaConn) Ping() error {
	gc.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
	return gc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (gc *gorillaConn) Close() {
	gc.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
	gc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	gc.socket.Close()
}
