/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chatserver/internal/service"
)

type sendMessageRequest struct {
	UserID  string `json:"userId" validate:"required"`
	ChatID  string `json:"chatId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// MessageHandler is used to handle the REST side of messaging:
// direct sends and the paginated history clients use to catch up.
type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send appends a message to a chat through the same path the realtime gateway uses
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var request sendMessageRequest
	if err := decodeJSON(r, &request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Append(request.UserID, request.ChatID, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// Page returns up to take messages of the chat, most recent first, skipping skip.
// The client reverses the order for display and stops paging on a short page.
func (h *MessageHandler) Page(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	take, _ := strconv.Atoi(r.URL.Query().Get("take"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	messages, err := h.messageService.Page(chatID, take, skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
