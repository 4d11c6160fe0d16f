package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait bounds a single frame write; a dashboard on localhost
	// either keeps up or gets dropped.
	writeWait = 5 * time.Second

	// pongWait is how long a subscriber may go silent before the
	// connection is considered dead.
	pongWait = 30 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// readLimit is tiny: subscribers never send payloads, only
	// control frames.
	readLimit = 512

	// sendBuffer absorbs short stalls; the fan-out loop drops the
	// subscriber once it fills.
	sendBuffer = 32
)

// subscriber is one websocket connection attached to a feed.
type subscriber struct {
	feed *Feed
	conn *websocket.Conn
	send chan []byte
}

// Subscribe attaches conn to the feed and pumps payloads to it.
// Blocks until the connection closes; call from the websocket handler.
func (f *Feed) Subscribe(conn *websocket.Conn) {
	sub := &subscriber{
		feed: f,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	f.register <- sub

	go sub.writePump()
	sub.readPump()
}

// readPump discards inbound frames; it exists to detect disconnection
// and to receive pong responses.
func (s *subscriber) readPump() {
	defer func() {
		s.feed.unregister <- s
		s.conn.Close()
	}()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump is the only goroutine writing to the connection. The wire
// type follows the feed: binary for frames, text for status JSON.
func (s *subscriber) writePump() {
	wsType := websocket.TextMessage
	if s.feed.binary {
		wsType = websocket.BinaryMessage
	}

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Feed dropped us; say goodbye properly.
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(wsType, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
