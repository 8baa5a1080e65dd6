/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"chatserver/internal/auth"
	"chatserver/internal/service"
)

// Inbound and outbound event names of the realtime protocol.
const (
	EventJoinChat    = "joinChat"
	EventSendMessage = "sendMessage"
	EventNewMessage  = "newMessage"
	EventException   = "exception"
)

// Every frame on the socket is one event envelope.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the inbound sendMessage event body.
type SendMessagePayload struct {
	ChatID   string `json:"chatId"`
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

// ExceptionPayload reports a failed send to the originating connection only.
type ExceptionPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Stack   string `json:"stack"`
}

// Gateway upgrades connections, authenticates them out-of-band via the bearer
// token, and relays persisted messages to the rooms of the shared hub.
// Persistence always precedes broadcast: a client that receives a live
// message can trust it is already durable.
type Gateway struct {
	hub      *Hub
	messages service.MessageService
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewGateway(hub *Hub, messages service.MessageService, tokens *auth.TokenManager, allowedOrigin string, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		messages: messages,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// ServeWS handles the websocket upgrade on GET /ws?token=<bearer>.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims, err := g.tokens.Validate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := newClient(claims.UserID, conn)
	go client.writePump()
	go g.readPump(client)
}

// readPump decodes inbound event frames until the connection drops,
// then detaches the client from every room it joined.
func (g *Gateway) readPump(client *Client) {
	defer func() {
		g.hub.Disconnect(client)
		client.conn.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			g.emitException(client, "malformed event", err)
			continue
		}

		switch evt.Event {
		case EventJoinChat:
			var chatID string
			if err := json.Unmarshal(evt.Data, &chatID); err != nil {
				g.emitException(client, "malformed joinChat payload", err)
				continue
			}
			g.hub.Join(client, chatID)
		case EventSendMessage:
			var payload SendMessagePayload
			if err := json.Unmarshal(evt.Data, &payload); err != nil {
				g.emitException(client, "malformed sendMessage payload", err)
				continue
			}
			g.handleSend(client, payload)
		default:
			g.logger.Debug("ignoring unknown event", "event", evt.Event)
		}
	}
}

// handleSend persists the message and, only then, fans it out to the room.
// Any failure is reported to the sender alone; nothing is broadcast.
func (g *Gateway) handleSend(client *Client, payload SendMessagePayload) {
	message, err := g.messages.Append(payload.SenderID, payload.ChatID, payload.Content)
	if err != nil {
		g.logger.Error("send failed", "chat", payload.ChatID, "error", err)
		g.emitException(client, "Failed to send message", err)
		return
	}

	frame, err := encodeEvent(EventNewMessage, message)
	if err != nil {
		g.emitException(client, "Failed to send message", err)
		return
	}
	g.hub.Broadcast(payload.ChatID, frame)
}

// emitException delivers a failure notification to one client only,
// best effort. A client the hub has already dropped is skipped.
func (g *Gateway) emitException(client *Client, message string, cause error) {
	frame, err := encodeEvent(EventException, ExceptionPayload{
		Message: message,
		Error:   cause.Error(),
		Stack:   errorChain(cause),
	})
	if err != nil {
		return
	}
	client.trySend(frame)
}

// errorChain renders the cause and each wrapped error beneath it, one per line.
func errorChain(err error) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

func encodeEvent(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: name, Data: data})
}
