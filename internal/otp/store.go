// Package otp keeps password reset codes in Redis with a native expiry, so
// every API instance sees the same code for an email.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 10 * time.Minute

var ErrCodeNotFound = errors.New("no reset code for this email")

// Entry is the stored state for one email.
type Entry struct {
	Code     string    `json:"code"`
	Verified bool      `json:"verified"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Store manages reset codes keyed by email.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewStore returns a Store. A non-positive ttl uses DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, prefix: "otp:reset"}
}

func (s *Store) key(email string) string {
	return fmt.Sprintf("%s:%s", s.prefix, strings.ToLower(strings.TrimSpace(email)))
}

// Issue creates a fresh six digit code for email, replacing any earlier one.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(Entry{Code: code, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to encode reset code: %w", err)
	}

	if err := s.client.Set(ctx, s.key(email), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}
	return code, nil
}

// Get returns the live entry for email.
func (s *Store) Get(ctx context.Context, email string) (*Entry, error) {
	raw, err := s.client.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reset code: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode reset code: %w", err)
	}
	return &entry, nil
}

// MarkVerified flags the entry as verified without extending its expiry.
func (s *Store) MarkVerified(ctx context.Context, email string) error {
	entry, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	entry.Verified = true

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode reset code: %w", err)
	}

	if err := s.client.SetArgs(ctx, s.key(email), payload, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

// Delete removes the entry for email.
func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
