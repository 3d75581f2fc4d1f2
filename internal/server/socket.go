package server

import (
	"health-assistant/internal/record"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Socket actions sent by the page script.
const (
	socketChange = "change"
	socketSubmit = "submit"
)

// formMessage is one user action sent over the websocket.
type formMessage struct {
	Action string              `json:"action"`
	Record record.HealthRecord `json:"record"`
}

type socketError struct {
	Error string `json:"error"`
}

// formSocketHandler answers each message with a view. Messages are handled one
// at a time, so a connection never has two recommendation calls in flight.
func (s *Server) formSocketHandler(c echo.Context) error {
	logger := requestLogger(c)

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return nil // Upgrade already wrote the HTTP error
	}
	defer conn.Close()

	id := uuid.New().String()
	s.hub.Register(id, conn)
	defer s.hub.Unregister(id)

	ctx := c.Request().Context()
	for {
		var msg formMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Str("connection_id", id).Msg("WebSocket read failed")
			}
			return nil
		}

		var reply interface{}
		switch msg.Action {
		case socketChange:
			reply = s.assistant.Redraw(ctx, msg.Record)
		case socketSubmit:
			reply = s.assistant.Submit(ctx, msg.Record)
		default:
			reply = socketError{Error: "unknown action: " + msg.Action}
		}

		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Str("connection_id", id).Msg("WebSocket write failed")
			return nil
		}
	}
}
