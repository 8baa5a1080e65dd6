/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"chatserver/internal/entity"

	"gorm.io/gorm"
)

// This repository is used to manipulate the messages in the system.
// Messages are append-only; there is no update operation and deletion happens
// only through the chat repository when a whole chat is removed.
type MessageRepository interface {
	Create(message *entity.Message) error // Inserts a message and bumps the parent chat's updated_at in the same transaction

	GetByUUID(uuid string) (*entity.Message, error)                    // Retrieves a message hydrated with its sender and parent chat
	Page(chatUUID string, limit, offset int) ([]*entity.Message, error) // Retrieves up to limit messages of the chat, most recent first, skipping offset
}

// Implementation of the repository using a SQLite DB
type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender", "Chat").Create(message).Error; err != nil {
			return err
		}
		// The bump is what keeps the chat list ordered by recent activity.
		return tx.Model(&entity.Chat{}).
			Where("UUID = ?", message.ChatUUID).
			Update("updated_at", message.CreatedAt).Error
	})
}

func (repo *SQLiteMessageRepository) GetByUUID(uuid string) (*entity.Message, error) {
	var message entity.Message
	err := repo.db.Preload("Sender").Preload("Chat").Where("UUID = ?", uuid).First(&message).Error
	return &message, err
}

func (repo *SQLiteMessageRepository) Page(chatUUID string, limit, offset int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Preload("Sender").
		Where("chat_uuid = ?", chatUUID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}
