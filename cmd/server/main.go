/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chatserver/internal/auth"
	"chatserver/internal/config"
	"chatserver/internal/database"
	"chatserver/internal/gateway"
	"chatserver/internal/handler"
	"chatserver/internal/input"
	"chatserver/internal/repository"
	"chatserver/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("database error", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewSQLiteUserRepository(db)
	chatRepo := repository.NewSQLiteChatRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, logger)
	userService := service.NewUserService(userRepo, logger)
	chatService := service.NewChatService(chatRepo, userRepo, logger)
	messageService := service.NewMessageService(messageRepo, chatRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realtime gateway
	hub := gateway.NewHub(logger)
	go hub.Run(ctx)
	gw := gateway.NewGateway(hub, messageService, tokens, cfg.AllowedOrigin, logger)

	manager := input.NewInputManager(logger)
	err = manager.Run(ctx, input.Config{
		Port:          cfg.Port,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		AllowedOrigin: cfg.AllowedOrigin,
	}, input.RouterDeps{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService),
		Chats:    handler.NewChatHandler(chatService),
		Messages: handler.NewMessageHandler(messageService),
		Gateway:  gw,
		Tokens:   tokens,
	})
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
