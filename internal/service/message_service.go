/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatserver/internal/apperr"
	"chatserver/internal/entity"
	"chatserver/internal/repository"
)

// DefaultPageSize is used when the caller does not ask for a specific page size.
const DefaultPageSize = 20

// Service used to append messages to chats and read their history back.
type MessageService interface {
	Append(senderUUID, chatUUID, content string) (*entity.Message, error)  // Persists a message and returns it hydrated with sender and chat
	Page(chatUUID string, limit, offset int) ([]*entity.Message, error)    // History page, most recent first; a short page signals the end
}

type messageService struct {
	messages repository.MessageRepository // Repository for messages
	chats    repository.ChatRepository    // Repository for chats, used to validate the target
	logger   *slog.Logger
}

func NewMessageService(messages repository.MessageRepository, chats repository.ChatRepository, logger *slog.Logger) MessageService {
	return &messageService{
		messages: messages,
		chats:    chats,
		logger:   logger,
	}
}

func (s *messageService) Append(senderUUID, chatUUID, content string) (*entity.Message, error) {
	if _, err := s.chats.GetByUUID(chatUUID); err != nil {
		return nil, fmt.Errorf("%w: chat not found", apperr.ErrNotFound)
	}

	message := &entity.Message{
		UUID:       uuid.New().String(),
		Content:    content,
		SenderUUID: senderUUID,
		ChatUUID:   chatUUID,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}

	s.logger.Debug("message appended", "chat", chatUUID, "message", message.UUID)
	return s.messages.GetByUUID(message.UUID)
}

func (s *messageService) Page(chatUUID string, limit, offset int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.Page(chatUUID, limit, offset)
}
