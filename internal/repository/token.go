package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pocketarcade/tictactoe-live/internal/pkg"
	"github.com/redis/go-redis/v9"
)

// tokenTTL bounds how long a reservation can outlive its game if the
// process dies before releasing it.
const tokenTTL = 24 * time.Hour

const maxReserveAttempts = 5

var ErrTokenExhausted = errors.New("could not reserve a unique game token")

type TokenRepository interface {
	Next(ctx context.Context) (string, error)
	Release(ctx context.Context, token string) error
}

type dbToken struct {
	client *redis.Client
}

// NewTokenRepository - redis-backed game token reservation. Tokens are
// claimed with SETNX so two processes can never hand out the same id;
// generation retries on collision.
func NewTokenRepository(client *redis.Client) TokenRepository {
	return &dbToken{
		client: client,
	}
}

func (that *dbToken) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		token := pkg.GenerateGameToken()
		if token == "" {
			continue
		}

		claimed, err := that.client.SetNX(ctx, tokenKey(token), 1, tokenTTL).Result()
		if err != nil {
			return "", fmt.Errorf("failed to reserve token: %w", err)
		}

		if claimed {
			return token, nil
		}
	}

	return "", ErrTokenExhausted
}

func (that *dbToken) Release(ctx context.Context, token string) error {
	if err := that.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to release token: %w", err)
	}

	return nil
}

func tokenKey(token string) string {
	return "game-token:" + token
}
