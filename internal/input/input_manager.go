/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package input

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"chatserver/internal/auth"
	"chatserver/internal/gateway"
	"chatserver/internal/handler"
	"chatserver/internal/middleware"
)

// Config of the HTTP front of the server.
type Config struct {
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	AllowedOrigin string
}

// RouterDeps collects everything the router needs to dispatch requests.
type RouterDeps struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Chats    *handler.ChatHandler
	Messages *handler.MessageHandler
	Gateway  *gateway.Gateway
	Tokens   *auth.TokenManager
}

// InputManager manages all HTTP input of the server: route wiring, the
// listener lifecycle and a pause switch for maintenance windows.
type InputManager struct {
	running atomic.Bool
	paused  atomic.Bool

	logger *slog.Logger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}
}

func NewInputManager(logger *slog.Logger) *InputManager {
	return &InputManager{
		logger:              logger,
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetPause(paused bool) {
	i.paused.Store(paused)
}

func (i *InputManager) IsPaused() bool {
	return i.paused.Load()
}

// PauseMiddleware rejects every request with 503 while the manager is paused.
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.IsPaused() {
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter wires every REST route and the websocket upgrade endpoint.
// All routes below /api except signup and login sit behind bearer auth.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	guard := func(h func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.Auth(deps.Tokens, h)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Authentication routes
	api.HandleFunc("/auth/signup", deps.Auth.Signup).Methods("POST")
	api.HandleFunc("/auth/login", deps.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/profile", guard(deps.Auth.Profile)).Methods("GET")

	// Chat directory routes
	api.HandleFunc("/chats", guard(deps.Chats.List)).Methods("GET")
	api.HandleFunc("/chats/one-to-one", guard(deps.Chats.CreateOneToOne)).Methods("POST")
	api.HandleFunc("/chats/group", guard(deps.Chats.CreateGroup)).Methods("POST")
	api.HandleFunc("/chats/{chatId}/rename", guard(deps.Chats.Rename)).Methods("PATCH")
	api.HandleFunc("/chats/{chatId}/add-user", guard(deps.Chats.AddUser)).Methods("PATCH")
	api.HandleFunc("/chats/{chatId}/remove-user", guard(deps.Chats.RemoveUser)).Methods("PATCH")
	api.HandleFunc("/chats/{chatId}", guard(deps.Chats.Delete)).Methods("DELETE")

	// Message routes
	api.HandleFunc("/messages", guard(deps.Messages.Send)).Methods("POST")
	api.HandleFunc("/messages/{chatId}", guard(deps.Messages.Page)).Methods("GET")

	// User directory routes. The email route must precede the id one.
	api.HandleFunc("/users", guard(deps.Users.List)).Methods("GET")
	api.HandleFunc("/users/email/{email}", guard(deps.Users.GetByEmail)).Methods("GET")
	api.HandleFunc("/users/{id}", guard(deps.Users.GetByID)).Methods("GET")
	api.HandleFunc("/users/{id}", guard(deps.Users.Update)).Methods("PATCH")
	api.HandleFunc("/users/{id}", guard(deps.Users.Delete)).Methods("DELETE")

	// Realtime gateway, authenticated via the token query parameter
	r.HandleFunc("/ws", deps.Gateway.ServeWS)

	return r
}

// Run serves HTTP until ctx is canceled or Stop is called, then shuts the
// listener down gracefully with a 10 second drain.
func (i *InputManager) Run(ctx context.Context, cfg Config, deps RouterDeps) error {
	router := NewRouter(deps)

	i.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        middleware.CORS(cfg.AllowedOrigin, i.PauseMiddleware(router)),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			i.logger.Info("received stop signal, shutting down")
		case <-i.stopFromOutsideChan:
			i.logger.Info("server was asked to stop, shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.logger.Error("error during shutdown", "error", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.running.Store(true)
	i.logger.Info("http server starting", "port", cfg.Port)

	err := i.server.ListenAndServe()
	i.running.Store(false)
	if err != http.ErrServerClosed {
		i.logger.Error("http server error", "error", err)
		return err
	}

	<-i.doneFromInsideChan
	return nil
}

func (i *InputManager) Stop() {
	close(i.stopFromOutsideChan)
	<-i.doneFromInsideChan
}
