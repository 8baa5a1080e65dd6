/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"errors"

	"chatserver/internal/entity"

	"gorm.io/gorm"
)

// This repository is used to manipulate the chats and the chat-user membership relation.
type ChatRepository interface {
	Create(chat *entity.Chat) error // Inserts a chat together with its membership rows

	GetByUUID(uuid string) (*entity.Chat, error)       // Retrieves the chat with the given uuid, without associations
	GetHydrated(uuid string) (*entity.Chat, error)     // Retrieves the chat with its member list and its single most recent message
	GetByPairKey(pairKey string) (*entity.Chat, error) // Retrieves the one-to-one chat with the given pair key
	ListForUser(userUUID string) ([]*entity.Chat, error) // Retrieves all chats the user is a member of, hydrated, most recently active first

	Rename(uuid, name string) error                     // Changes the name of the chat
	AddMember(uuid string, user *entity.User) error     // Adds the user to the chat's member set
	RemoveMember(uuid, userUUID string) error           // Removes the user from the chat's member set
	Delete(uuid string) error                           // Removes the chat, its membership rows and its messages
}

// Implementation of the repository using a SQLite DB
type SQLiteChatRepository struct {
	db *gorm.DB
}

func NewSQLiteChatRepository(db *gorm.DB) ChatRepository {
	return &SQLiteChatRepository{db}
}

func (repo *SQLiteChatRepository) Create(chat *entity.Chat) error {
	// Members are existing users, only the membership rows must be written.
	return repo.db.Omit("Members.*").Create(chat).Error
}

func (repo *SQLiteChatRepository) GetByUUID(uuid string) (*entity.Chat, error) {
	var chat entity.Chat
	err := repo.db.Where("UUID = ?", uuid).First(&chat).Error
	return &chat, err
}

func (repo *SQLiteChatRepository) GetHydrated(uuid string) (*entity.Chat, error) {
	var chat entity.Chat
	if err := repo.db.Preload("Members").Where("UUID = ?", uuid).First(&chat).Error; err != nil {
		return nil, err
	}
	if err := repo.attachLatestMessage(&chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (repo *SQLiteChatRepository) GetByPairKey(pairKey string) (*entity.Chat, error) {
	var chat entity.Chat
	if err := repo.db.Preload("Members").Where("pair_key = ?", pairKey).First(&chat).Error; err != nil {
		return nil, err
	}
	if err := repo.attachLatestMessage(&chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (repo *SQLiteChatRepository) ListForUser(userUUID string) ([]*entity.Chat, error) {
	var chats []*entity.Chat
	err := repo.db.
		Joins("JOIN chat_members ON chat_members.chat_uuid = chats.uuid").
		Where("chat_members.user_uuid = ?", userUUID).
		Preload("Members").
		Order("chats.updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	for _, chat := range chats {
		if err := repo.attachLatestMessage(chat); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

func (repo *SQLiteChatRepository) Rename(uuid, name string) error {
	return repo.db.Model(&entity.Chat{}).Where("UUID = ?", uuid).Update("name", name).Error
}

func (repo *SQLiteChatRepository) AddMember(uuid string, user *entity.User) error {
	return repo.db.Model(&entity.Chat{UUID: uuid}).Association("Members").Append(user)
}

func (repo *SQLiteChatRepository) RemoveMember(uuid, userUUID string) error {
	return repo.db.Model(&entity.Chat{UUID: uuid}).Association("Members").Delete(&entity.User{UUID: userUUID})
}

func (repo *SQLiteChatRepository) Delete(uuid string) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM chat_members WHERE chat_uuid = ?", uuid).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_uuid = ?", uuid).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("UUID = ?", uuid).Delete(&entity.Chat{}).Error
	})
}

// The chat list carries only the most recent message of each chat, hydrated with its sender.
func (repo *SQLiteChatRepository) attachLatestMessage(chat *entity.Chat) error {
	var message entity.Message
	err := repo.db.Preload("Sender").
		Where("chat_uuid = ?", chat.UUID).
		Order("created_at DESC").
		First(&message).Error
	switch {
	case err == nil:
		chat.Messages = []*entity.Message{&message}
	case errors.Is(err, gorm.ErrRecordNotFound):
		chat.Messages = []*entity.Message{}
	default:
		return err
	}
	return nil
}
