/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// A registered account. Immutable once created except for the profile fields.
type User struct {
	UUID      string    `gorm:"primaryKey" json:"id"`             // Unique identifier
	Email     string    `gorm:"not null;uniqueIndex" json:"email"` // Login identity, unique across the system
	Name      string    `gorm:"not null" json:"name"`             // Display name
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`        // Time of registration

	Secret UserSecret `gorm:"foreignKey:UserUUID;constraint:OnDelete:CASCADE" json:"-"` // Password hash, kept in its own table
	Chats  []*Chat    `gorm:"many2many:chat_members;" json:"-"`                         // Chats the user is a member of
}
