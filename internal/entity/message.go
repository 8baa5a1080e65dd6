/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Represents a message sent inside a chat, either one-to-one or group.
// Messages are immutable once created; they disappear only when their chat is deleted.
type Message struct {
	UUID       string    `gorm:"primaryKey" json:"id"`            // Unique identifier
	Content    string    `gorm:"not null" json:"content"`         // Actual content of the message
	SenderUUID string    `gorm:"not null;index" json:"senderId"`  // UUID of the user that sent the message
	ChatUUID   string    `gorm:"not null;index" json:"chatId"`    // UUID of the chat the message belongs to
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"` // Time of creation

	Sender *User `gorm:"foreignKey:SenderUUID" json:"sender,omitempty"` // Sender identity, preloaded for display
	Chat   *Chat `gorm:"foreignKey:ChatUUID" json:"chat,omitempty"`     // Parent chat, preloaded on append
}
