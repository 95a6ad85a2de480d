package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const credentialPrefix = "hoofix:credential:"

type storedCredential struct {
	Token   string    `json:"token"`
	Sealed  bool      `json:"sealed,omitempty"`
	SavedAt time.Time `json:"savedAt"`
}

// RedisStore keeps the credential in redis so it survives restarts of the
// companion server. Each slot name is an independent credential.
type RedisStore struct {
	client *redis.Client
	slot   string
	ttl    time.Duration
	sealer *Sealer
}

func NewRedisStore(client *redis.Client, slot string, ttl time.Duration) *RedisStore {
	if slot == "" {
		slot = "default"
	}
	return &RedisStore{client: client, slot: slot, ttl: ttl}
}

// WithSealer encrypts credentials written from now on.
func (s *RedisStore) WithSealer(sealer *Sealer) *RedisStore {
	s.sealer = sealer
	return s
}

func (s *RedisStore) key() string {
	return credentialPrefix + s.slot
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	data, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	var cred storedCredential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return "", fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	if cred.Token == "" {
		return "", ErrNoCredential
	}
	if !cred.Sealed {
		return cred.Token, nil
	}
	if s.sealer == nil {
		return "", ErrSealedCredential
	}
	return s.sealer.Open(cred.Token)
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("set credential: empty token")
	}
	cred := storedCredential{Token: token, SavedAt: time.Now()}
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return err
		}
		cred.Token, cred.Sealed = sealed, true
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}
