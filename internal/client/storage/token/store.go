// Package token persists the single session token of the client.
//
// At most one token is stored at a time, under common.TokenMetadataKey.
// Presence of a token says nothing about its validity on the server.
package token

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/scholarscout/internal/client/storage/metadata"
	"github.com/dmitrijs2005/scholarscout/internal/common"
	"github.com/dmitrijs2005/scholarscout/internal/dbx"
)

// Store reads and writes the session token. Token returns "" when none is stored.
type Store interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// SQLiteStore keeps the token in the metadata table of the client database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.TokenMetadataKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(v), nil
}

// SaveToken replaces any stored token with t.
func (s *SQLiteStore) SaveToken(ctx context.Context, t string) error {
	if t == "" {
		return common.ErrInvalidToken
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.TokenMetadataKey); err != nil {
			return err
		}
		return repo.Set(ctx, common.TokenMetadataKey, []byte(t))
	})
}

func (s *SQLiteStore) ClearToken(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, common.TokenMetadataKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in process memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{token: initial}
}

func (m *MemoryStore) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) SaveToken(_ context.Context, t string) error {
	if t == "" {
		return common.ErrInvalidToken
	}
	m.mu.Lock()
	m.token = t
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ClearToken(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
