/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatserver/internal/auth"
	"chatserver/internal/database"
	"chatserver/internal/entity"
	"chatserver/internal/repository"
)

// Everything needed to exercise the services against a real, throwaway database.
type testEnv struct {
	auth     AuthService
	users    UserService
	chats    ChatService
	messages MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	userRepo := repository.NewSQLiteUserRepository(db)
	chatRepo := repository.NewSQLiteChatRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)

	return &testEnv{
		auth:     NewAuthService(userRepo, tokens, logger),
		users:    NewUserService(userRepo, logger),
		chats:    NewChatService(chatRepo, userRepo, logger),
		messages: NewMessageService(messageRepo, chatRepo, logger),
	}
}

func (env *testEnv) signup(t *testing.T, name string) *entity.User {
	t.Helper()
	user, _, err := env.auth.Signup(name+"@example.com", "hunter22", name)
	require.NoError(t, err)
	return user
}
