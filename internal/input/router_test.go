/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatserver/internal/auth"
	"chatserver/internal/database"
	"chatserver/internal/entity"
	"chatserver/internal/gateway"
	"chatserver/internal/handler"
	"chatserver/internal/middleware"
	"chatserver/internal/repository"
	"chatserver/internal/service"
)

// A complete HTTP stack over a throwaway database, the way main wires it.
type routerEnv struct {
	server *httptest.Server
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)

	logger := testLogger()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	userRepo := repository.NewSQLiteUserRepository(db)
	chatRepo := repository.NewSQLiteChatRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)

	authService := service.NewAuthService(userRepo, tokens, logger)
	userService := service.NewUserService(userRepo, logger)
	chatService := service.NewChatService(chatRepo, userRepo, logger)
	messageService := service.NewMessageService(messageRepo, chatRepo, logger)

	hub := gateway.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := NewRouter(RouterDeps{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService),
		Chats:    handler.NewChatHandler(chatService),
		Messages: handler.NewMessageHandler(messageService),
		Gateway:  gateway.NewGateway(hub, messageService, tokens, "http://localhost:3000", logger),
		Tokens:   tokens,
	})

	server := httptest.NewServer(middleware.CORS("http://localhost:3000", router))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &routerEnv{server: server}
}

// do performs one JSON request against the test server.
func (env *routerEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, env.server.URL+path, reader)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(response.Body).Decode(&out))
	return out
}

type authBody struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (env *routerEnv) signup(t *testing.T, name string) authBody {
	t.Helper()
	response := env.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"email":    name + "@example.com",
		"password": "hunter22",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	return decodeBody[authBody](t, response)
}

func Test_Signup_Login_Profile_Routes(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	created := env.signup(t, "alice")
	req.NotEmpty(created.Token)
	req.Equal("alice", created.User.Name)

	// The same email cannot register twice.
	response := env.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"email": "alice@example.com", "password": "hunter22", "name": "alice",
	})
	req.Equal(http.StatusBadRequest, response.StatusCode)

	// A malformed body never reaches the service.
	response = env.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"email": "not-an-email", "password": "hunter22", "name": "x",
	})
	req.Equal(http.StatusBadRequest, response.StatusCode)

	response = env.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	req.Equal(http.StatusUnauthorized, response.StatusCode)

	response = env.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter22",
	})
	req.Equal(http.StatusOK, response.StatusCode)
	logged := decodeBody[authBody](t, response)

	response = env.do(t, "GET", "/api/auth/profile", logged.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	profile := decodeBody[entity.User](t, response)
	req.Equal(created.User.UUID, profile.UUID)
}

func Test_Guarded_Routes_Require_A_Token(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	for _, path := range []string{"/api/chats", "/api/users", "/api/auth/profile"} {
		response := env.do(t, "GET", path, "", nil)
		req.Equal(http.StatusUnauthorized, response.StatusCode, path)

		response = env.do(t, "GET", path, "not-a-token", nil)
		req.Equal(http.StatusUnauthorized, response.StatusCode, path)
	}
}

func Test_Chat_Routes(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	clara := env.signup(t, "clara")

	// Creating the same one-to-one chat twice yields the same chat.
	response := env.do(t, "POST", "/api/chats/one-to-one", alice.Token, map[string]string{
		"otherUserId": bob.User.UUID,
	})
	req.Equal(http.StatusCreated, response.StatusCode)
	first := decodeBody[entity.Chat](t, response)

	response = env.do(t, "POST", "/api/chats/one-to-one", bob.Token, map[string]string{
		"otherUserId": alice.User.UUID,
	})
	req.Equal(http.StatusCreated, response.StatusCode)
	second := decodeBody[entity.Chat](t, response)
	req.Equal(first.UUID, second.UUID)

	// A group needs at least three distinct members.
	response = env.do(t, "POST", "/api/chats/group", alice.Token, map[string]any{
		"creatorId": alice.User.UUID, "name": "tiny", "userIds": []string{bob.User.UUID},
	})
	req.Equal(http.StatusBadRequest, response.StatusCode)

	response = env.do(t, "POST", "/api/chats/group", alice.Token, map[string]any{
		"creatorId": alice.User.UUID, "name": "book club",
		"userIds": []string{bob.User.UUID, clara.User.UUID},
	})
	req.Equal(http.StatusCreated, response.StatusCode)
	group := decodeBody[entity.Chat](t, response)
	req.Len(group.Members, 3)

	response = env.do(t, "PATCH", "/api/chats/"+group.UUID+"/rename", alice.Token, map[string]string{
		"name": "film club",
	})
	req.Equal(http.StatusOK, response.StatusCode)
	req.Equal("film club", decodeBody[entity.Chat](t, response).Name)

	response = env.do(t, "PATCH", "/api/chats/"+group.UUID+"/remove-user", alice.Token, map[string]string{
		"userId": clara.User.UUID,
	})
	req.Equal(http.StatusOK, response.StatusCode)
	req.Len(decodeBody[entity.Chat](t, response).Members, 2)

	response = env.do(t, "PATCH", "/api/chats/"+group.UUID+"/add-user", alice.Token, map[string]string{
		"userId": clara.User.UUID,
	})
	req.Equal(http.StatusOK, response.StatusCode)
	req.Len(decodeBody[entity.Chat](t, response).Members, 3)

	// Unknown chats come back as 404.
	response = env.do(t, "PATCH", "/api/chats/no-such-chat/rename", alice.Token, map[string]string{
		"name": "whatever",
	})
	req.Equal(http.StatusNotFound, response.StatusCode)

	response = env.do(t, "DELETE", "/api/chats/"+group.UUID, alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)

	response = env.do(t, "DELETE", "/api/chats/"+group.UUID, alice.Token, nil)
	req.Equal(http.StatusNotFound, response.StatusCode)

	// The chat list reflects what is left.
	response = env.do(t, "GET", "/api/chats", alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	chats := decodeBody[[]entity.Chat](t, response)
	req.Len(chats, 1)
	req.Equal(first.UUID, chats[0].UUID)
}

func Test_Message_Routes(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	response := env.do(t, "POST", "/api/chats/one-to-one", alice.Token, map[string]string{
		"otherUserId": bob.User.UUID,
	})
	req.Equal(http.StatusCreated, response.StatusCode)
	chat := decodeBody[entity.Chat](t, response)

	for i := 0; i < 3; i++ {
		response = env.do(t, "POST", "/api/messages", alice.Token, map[string]string{
			"userId": alice.User.UUID, "chatId": chat.UUID,
			"content": fmt.Sprintf("message %d", i),
		})
		req.Equal(http.StatusCreated, response.StatusCode)
	}

	// Sending into a chat that does not exist fails without a write.
	response = env.do(t, "POST", "/api/messages", alice.Token, map[string]string{
		"userId": alice.User.UUID, "chatId": "no-such-chat", "content": "lost",
	})
	req.Equal(http.StatusNotFound, response.StatusCode)

	response = env.do(t, "GET", "/api/messages/"+chat.UUID+"?take=2&skip=0", alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	page := decodeBody[[]entity.Message](t, response)
	req.Len(page, 2)
	req.Equal("message 2", page[0].Content)

	response = env.do(t, "GET", "/api/messages/"+chat.UUID+"?take=2&skip=2", alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	page = decodeBody[[]entity.Message](t, response)
	req.Len(page, 1)
	req.Equal("message 0", page[0].Content)
}

func Test_User_Routes(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	response := env.do(t, "GET", "/api/users", alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	req.Len(decodeBody[[]entity.User](t, response), 2)

	response = env.do(t, "GET", "/api/users/"+bob.User.UUID, alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	req.Equal("bob", decodeBody[entity.User](t, response).Name)

	response = env.do(t, "GET", "/api/users/email/bob@example.com", alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)
	req.Equal(bob.User.UUID, decodeBody[entity.User](t, response).UUID)

	response = env.do(t, "PATCH", "/api/users/"+alice.User.UUID, alice.Token, map[string]string{
		"name": "Alice B.",
	})
	req.Equal(http.StatusOK, response.StatusCode)
	req.Equal("Alice B.", decodeBody[entity.User](t, response).Name)

	// Stealing another account's email is a conflict.
	response = env.do(t, "PATCH", "/api/users/"+alice.User.UUID, alice.Token, map[string]string{
		"email": "bob@example.com",
	})
	req.Equal(http.StatusBadRequest, response.StatusCode)

	response = env.do(t, "DELETE", "/api/users/"+bob.User.UUID, alice.Token, nil)
	req.Equal(http.StatusOK, response.StatusCode)

	response = env.do(t, "GET", "/api/users/"+bob.User.UUID, alice.Token, nil)
	req.Equal(http.StatusNotFound, response.StatusCode)
}

func Test_CORS_Preflight(t *testing.T) {
	req := require.New(t)
	env := newRouterEnv(t)

	request, err := http.NewRequest(http.MethodOptions, env.server.URL+"/api/chats", nil)
	req.NoError(err)
	request.Header.Set("Origin", "http://localhost:3000")

	response, err := http.DefaultClient.Do(request)
	req.NoError(err)
	defer response.Body.Close()

	req.Equal(http.StatusOK, response.StatusCode)
	req.Equal("http://localhost:3000", response.Header.Get("Access-Control-Allow-Origin"))
	req.Contains(response.Header.Get("Access-Control-Allow-Methods"), "PATCH")
}
