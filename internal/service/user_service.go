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

	"gorm.io/gorm"

	"chatserver/internal/apperr"
	"chatserver/internal/entity"
	"chatserver/internal/repository"
)

// Service used to read and manage user accounts. Passwords are not
// reachable from here; they live behind the auth service only.
type UserService interface {
	List() ([]*entity.User, error)                          // Retrieves all users
	GetByUUID(uuid string) (*entity.User, error)            // Retrieves the user with the given uuid
	GetByEmail(email string) (*entity.User, error)          // Retrieves the user with the given email
	Update(uuid, name, email string) (*entity.User, error)  // Updates the profile fields that are non-empty
	Remove(uuid string) error                               // Deletes the user account
}

type userService struct {
	users  repository.UserRepository // Repository for users
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger,
	}
}

func (s *userService) List() ([]*entity.User, error) {
	return s.users.GetAll()
}

func (s *userService) GetByUUID(uuid string) (*entity.User, error) {
	user, err := s.users.GetByUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return user, nil
}

func (s *userService) GetByEmail(email string) (*entity.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return user, nil
}

func (s *userService) Update(uuid, name, email string) (*entity.User, error) {
	user, err := s.users.GetByUUID(uuid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	if email != "" && email != user.Email {
		_, err := s.users.GetByEmail(email)
		if err == nil {
			return nil, fmt.Errorf("%w: email already in use", apperr.ErrAlreadyExists)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user", user.UUID)
	return user, nil
}

func (s *userService) Remove(uuid string) error {
	if _, err := s.users.GetByUUID(uuid); err != nil {
		return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	if err := s.users.Delete(uuid); err != nil {
		return err
	}
	s.logger.Info("user removed", "user", uuid)
	return nil
}
