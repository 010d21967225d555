package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/host"
	"github.com/goliatone/go-rowform/pkg/model"
)

// ClientMessage is sent by the browser runtime. Column and Value are only
// read for "change".
type ClientMessage struct {
	Type   string `json:"type"` // "change", "submit", "cancel", "ping"
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// ServerMessage is sent back after every client message.
type ServerMessage struct {
	Type    string            `json:"type"` // "values", "closed", "error", "pong"
	Values  model.FieldValues `json:"values,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

const (
	closedSubmitted = "submitted"
	closedCancelled = "cancelled"
)

// live upgrades to a websocket and applies streamed edits to the session.
func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Warn("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	logger := s.logger.WithField("session_id", session.ID)
	logger.Debug("live connection opened")

	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				logger.WithField("status", status).Debug("live connection closed")
			}
			return
		}

		switch msg.Type {
		case "change":
			s.handleChange(ctx, conn, session, msg)
		case "submit":
			s.handleEvent(ctx, conn, session, form.SubmitPressed{}, closedSubmitted)
		case "cancel":
			s.handleEvent(ctx, conn, session, form.CancelPressed{}, closedCancelled)
		case "ping":
			s.send(ctx, conn, ServerMessage{Type: "pong"})
		default:
			s.sendError(ctx, conn, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (s *Server) handleChange(ctx context.Context, conn *websocket.Conn, session *host.Session, msg ClientMessage) {
	event, err := changeEvent(session.Template(), msg.Column, msg.Value)
	if err == nil {
		err = session.Dispatch(event)
	}
	if err != nil {
		s.sendError(ctx, conn, errorCode(err), err.Error())
		return
	}
	s.send(ctx, conn, ServerMessage{Type: "values", Values: session.Values()})
}

func (s *Server) handleEvent(ctx context.Context, conn *websocket.Conn, session *host.Session, event form.Event, reason string) {
	if err := session.Dispatch(event); err != nil {
		s.sendError(ctx, conn, errorCode(err), err.Error())
		return
	}
	s.send(ctx, conn, ServerMessage{Type: "closed", Reason: reason})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		s.logger.WithError(err).Debug("live write")
	}
}

func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, code, message string) {
	s.send(ctx, conn, ServerMessage{Type: "error", Code: code, Message: message})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, form.ErrUnknownColumn):
		return "unknown_column"
	case errors.Is(err, form.ErrOptionNotFound):
		return "invalid_option"
	case errors.Is(err, errInvalidDate):
		return "invalid_date"
	case errors.Is(err, form.ErrKindMismatch):
		return "kind_mismatch"
	case errors.Is(err, host.ErrFormClosed):
		return "form_closed"
	default:
		return "dispatch_error"
	}
}
