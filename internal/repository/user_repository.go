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

// This repository is used to manipulate the users in the system.
type UserRepository interface {
	Create(user *entity.User) error // Inserts a user, together with its secret record

	GetByUUID(uuid string) (*entity.User, error)             // Retrieves the user with the given uuid
	GetByEmail(email string) (*entity.User, error)           // Retrieves the user with the given email
	GetForLogin(email string) (*entity.User, error)          // Same as GetByEmail, but also returns the hashed password, hence, used for login
	GetManyByUUID(uuids []string) ([]*entity.User, error)    // Retrieves the users matching the given uuids
	GetAll() ([]*entity.User, error)                         // Retrieves all the users, WITHOUT their secret

	Update(user *entity.User) error // Persists changes to the profile fields of an existing user
	Delete(uuid string) error       // Removes the user and its secret
}

// Implementation of the repository using a SQLite DB
type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	return repo.db.Create(user).Error
}

func (repo *SQLiteUserRepository) GetByUUID(uuid string) (*entity.User, error) {
	var user entity.User
	err := repo.db.Where("UUID = ?", uuid).First(&user).Error
	return &user, err
}

func (repo *SQLiteUserRepository) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := repo.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (repo *SQLiteUserRepository) GetForLogin(email string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Preload("Secret").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetManyByUUID(uuids []string) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Where("UUID IN ?", uuids).Find(&users).Error
	return users, err
}

func (repo *SQLiteUserRepository) GetAll() ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Find(&users).Error
	return users, err
}

func (repo *SQLiteUserRepository) Update(user *entity.User) error {
	return repo.db.Model(&entity.User{UUID: user.UUID}).
		Updates(map[string]any{"email": user.Email, "name": user.Name}).Error
}

func (repo *SQLiteUserRepository) Delete(uuid string) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_uuid = ?", uuid).Delete(&entity.UserSecret{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM chat_members WHERE user_uuid = ?", uuid).Error; err != nil {
			return err
		}
		return tx.Where("UUID = ?", uuid).Delete(&entity.User{}).Error
	})
}
