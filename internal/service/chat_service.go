/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"chatserver/internal/apperr"
	"chatserver/internal/entity"
	"chatserver/internal/repository"
)

// Service used to handle chats and the chat-user membership relation,
// both one-to-one pairings and group chats.
type ChatService interface {
	CreateOneToOne(userUUID, otherUUID string) (*entity.Chat, error)            // Returns the existing chat between the two users, or creates it
	CreateGroup(creatorUUID, name string, memberUUIDs []string) (*entity.Chat, error) // Creates a named group chat; the creator is always a member
	ListForUser(userUUID string) ([]*entity.Chat, error)                        // All chats the user is in, most recently active first

	Rename(chatUUID, name string) (*entity.Chat, error)       // Changes the name of an existing chat
	AddMember(chatUUID, userUUID string) (*entity.Chat, error)    // Adds a user to an existing chat
	RemoveMember(chatUUID, userUUID string) (*entity.Chat, error) // Removes a user from an existing chat. The chat stays, even when empty
	Delete(chatUUID string) error                             // Removes the chat with its messages and membership
}

type chatService struct {
	chats  repository.ChatRepository // Repository for chats
	users  repository.UserRepository // Repository for users
	logger *slog.Logger
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository, logger *slog.Logger) ChatService {
	return &chatService{
		chats:  chats,
		users:  users,
		logger: logger,
	}
}

// PairKey is the canonical identity of a one-to-one chat: the two member
// uuids joined in lexicographic order, so both sides compute the same key.
func PairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

func (s *chatService) CreateOneToOne(userUUID, otherUUID string) (*entity.Chat, error) {
	if userUUID == otherUUID {
		return nil, fmt.Errorf("%w: cannot open a chat with yourself", apperr.ErrInvalidArgument)
	}

	members, err := s.users.GetManyByUUID([]string{userUUID, otherUUID})
	if err != nil {
		return nil, err
	}
	if len(members) != 2 {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	pairKey := PairKey(userUUID, otherUUID)
	if existing, err := s.chats.GetByPairKey(pairKey); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	chat := &entity.Chat{
		UUID:      uuid.New().String(),
		IsGroup:   false,
		PairKey:   &pairKey,
		CreatedAt: now,
		UpdatedAt: now,
		Members:   members,
		Messages:  []*entity.Message{},
	}
	if err := s.chats.Create(chat); err != nil {
		// Losing the lookup-then-create race trips the unique index on the
		// pair key; the winner's chat is the one to hand back.
		if existing, lookupErr := s.chats.GetByPairKey(pairKey); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.logger.Info("one-to-one chat created", "chat", chat.UUID)
	return chat, nil
}

func (s *chatService) CreateGroup(creatorUUID, name string, memberUUIDs []string) (*entity.Chat, error) {
	uniqueUUIDs := lo.Uniq(append(memberUUIDs, creatorUUID))

	members, err := s.users.GetManyByUUID(uniqueUUIDs)
	if err != nil {
		return nil, err
	}
	if len(members) != len(uniqueUUIDs) {
		found := lo.Map(members, func(u *entity.User, _ int) string { return u.UUID })
		missing := lo.Without(uniqueUUIDs, found...)
		return nil, fmt.Errorf("%w: unknown users %s", apperr.ErrNotFound, strings.Join(missing, ", "))
	}
	if len(members) < 3 {
		return nil, fmt.Errorf("%w: group chat requires at least 3 users", apperr.ErrInvalidArgument)
	}

	now := time.Now()
	chat := &entity.Chat{
		UUID:      uuid.New().String(),
		Name:      name,
		IsGroup:   true,
		CreatedAt: now,
		UpdatedAt: now,
		Members:   members,
		Messages:  []*entity.Message{},
	}
	if err := s.chats.Create(chat); err != nil {
		return nil, err
	}

	s.logger.Info("group chat created", "chat", chat.UUID, "members", len(members))
	return chat, nil
}

func (s *chatService) ListForUser(userUUID string) ([]*entity.Chat, error) {
	return s.chats.ListForUser(userUUID)
}

func (s *chatService) Rename(chatUUID, name string) (*entity.Chat, error) {
	if _, err := s.chats.GetByUUID(chatUUID); err != nil {
		return nil, fmt.Errorf("%w: chat not found", apperr.ErrNotFound)
	}
	if err := s.chats.Rename(chatUUID, name); err != nil {
		return nil, err
	}
	return s.chats.GetHydrated(chatUUID)
}

func (s *chatService) AddMember(chatUUID, userUUID string) (*entity.Chat, error) {
	if _, err := s.chats.GetByUUID(chatUUID); err != nil {
		return nil, fmt.Errorf("%w: chat not found", apperr.ErrNotFound)
	}
	user, err := s.users.GetByUUID(userUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	if err := s.chats.AddMember(chatUUID, user); err != nil {
		return nil, err
	}
	return s.chats.GetHydrated(chatUUID)
}

func (s *chatService) RemoveMember(chatUUID, userUUID string) (*entity.Chat, error) {
	if _, err := s.chats.GetByUUID(chatUUID); err != nil {
		return nil, fmt.Errorf("%w: chat not found", apperr.ErrNotFound)
	}
	if err := s.chats.RemoveMember(chatUUID, userUUID); err != nil {
		return nil, err
	}
	return s.chats.GetHydrated(chatUUID)
}

func (s *chatService) Delete(chatUUID string) error {
	if _, err := s.chats.GetByUUID(chatUUID); err != nil {
		return fmt.Errorf("%w: chat not found", apperr.ErrNotFound)
	}
	if err := s.chats.Delete(chatUUID); err != nil {
		return err
	}
	s.logger.Info("chat deleted", "chat", chatUUID)
	return nil
}
