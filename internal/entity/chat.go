/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// A conversation between users. Either one-to-one (exactly two members,
// IsGroup false, PairKey set) or a group chat (IsGroup true, named).
// UpdatedAt is bumped on every message append and orders the chat list.
type Chat struct {
	UUID      string    `gorm:"primaryKey" json:"id"`              // Unique identifier
	Name      string    `json:"name"`                              // Name of the chat, empty for one-to-one chats
	IsGroup   bool      `gorm:"not null;default:false" json:"isGroup"` // Group chat flag
	PairKey   *string   `gorm:"uniqueIndex" json:"-"`              // "<minUUID>:<maxUUID>" of the two members, nil for groups. The unique index is what prevents duplicate one-to-one chats.
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`         // Time of creation
	UpdatedAt time.Time `gorm:"not null;index" json:"updatedAt"`   // Freshness signal: last membership change or message append

	Members  []*User    `gorm:"many2many:chat_members;" json:"users"`                               // Member set of the chat
	Messages []*Message `gorm:"foreignKey:ChatUUID;constraint:OnDelete:CASCADE" json:"messages"` // Messages of the chat; the chat list carries only the most recent one
}
