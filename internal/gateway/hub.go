/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package gateway

import (
	"context"
	"log/slog"
)

// subscription asks the hub to put a client into the room of one chat.
type subscription struct {
	client *Client
	chatID string
}

// broadcastMessage carries an already encoded frame for every live member of a chat's room.
type broadcastMessage struct {
	chatID string
	data   []byte
}

// Hub owns the room membership table: chat uuid -> set of connected clients.
// All mutation and reads of the table happen inside the Run loop, so there is
// no lock; handlers talk to the hub through its channels only. The hub is
// passed explicitly to whatever needs to broadcast, it is not a global.
type Hub struct {
	rooms map[string]map[*Client]bool // chat uuid -> clients currently joined

	register   chan subscription
	unregister chan *Client
	broadcast  chan broadcastMessage

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan subscription),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage),
		logger:     logger,
	}
}

// Run consumes the hub channels until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.register:
			if h.rooms[sub.chatID] == nil {
				h.rooms[sub.chatID] = make(map[*Client]bool)
			}
			// Joining twice has no additional effect.
			h.rooms[sub.chatID][sub.client] = true
			sub.client.rooms[sub.chatID] = struct{}{}
		case client := <-h.unregister:
			h.dropClient(client)
		case msg := <-h.broadcast:
			for client := range h.rooms[msg.chatID] {
				if !client.trySend(msg.data) {
					// A consumer that cannot keep up loses its connection
					// rather than stalling the whole room.
					h.logger.Warn("dropping slow client", "chat", msg.chatID)
					h.dropClient(client)
				}
			}
		}
	}
}

// Join adds the client to the broadcast group of the chat. Idempotent.
func (h *Hub) Join(client *Client, chatID string) {
	h.register <- subscription{client: client, chatID: chatID}
}

// Disconnect removes the client from every room it joined.
// No persisted state changes as a result.
func (h *Hub) Disconnect(client *Client) {
	h.unregister <- client
}

// Broadcast delivers data to every client currently in the chat's room,
// including the one that originated it.
func (h *Hub) Broadcast(chatID string, data []byte) {
	h.broadcast <- broadcastMessage{chatID: chatID, data: data}
}

// dropClient removes the client from all of its rooms and closes it.
// Must only be called from the Run loop.
func (h *Hub) dropClient(client *Client) {
	for chatID := range client.rooms {
		if clients, ok := h.rooms[chatID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, chatID)
			}
		}
	}
	client.rooms = make(map[string]struct{})
	client.close()
}
