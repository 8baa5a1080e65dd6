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
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chatserver/internal/apperr"
	"chatserver/internal/auth"
	"chatserver/internal/entity"
	"chatserver/internal/repository"
)

// Service used for the user registration and login phases
type AuthService interface {
	Signup(email, password, name string) (*entity.User, string, error) // Creates a new user and returns it with a fresh bearer token
	Login(email, password string) (*entity.User, string, error)        // Authenticates a user via its credentials, returning it with a fresh bearer token
	Profile(userUUID string) (*entity.User, error)                     // Resolves the identity carried by a previously validated token
}

type authService struct {
	users  repository.UserRepository // Repository for users
	tokens *auth.TokenManager        // Issues and validates bearer tokens
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (a *authService) Signup(email, password, name string) (*entity.User, string, error) {
	_, err := a.users.GetByEmail(email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: this user already exists", apperr.ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		a.logger.Error("could not calculate hash", "error", err)
		return nil, "", err
	}

	id := uuid.New().String()
	user := &entity.User{
		UUID:      id,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),

		Secret: entity.UserSecret{
			UserUUID: id,
			Hash:     hash,
		},
	}
	if err := a.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := a.tokens.Generate(user.UUID, user.Email)
	if err != nil {
		return nil, "", err
	}

	a.logger.Info("user registered", "user", user.UUID)
	return user, token, nil
}

func (a *authService) Login(email, password string) (*entity.User, string, error) {
	// Unknown email and wrong password must be indistinguishable from outside.
	user, err := a.users.GetForLogin(email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	if !auth.ComparePassword(password, user.Secret.Hash) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	token, err := a.tokens.Generate(user.UUID, user.Email)
	if err != nil {
		return nil, "", err
	}

	a.logger.Info("user logged in", "user", user.UUID)
	return user, token, nil
}

func (a *authService) Profile(userUUID string) (*entity.User, error) {
	user, err := a.users.GetByUUID(userUUID)
	if err != nil {
		// The token was valid but the user is gone, the caller is no longer authenticated.
		return nil, fmt.Errorf("%w: user not found", apperr.ErrUnauthorized)
	}
	return user, nil
}
