package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bankadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bankadmin/internal/dbx"
)

// Persister is the storage collaborator of a Store. Load returns an empty
// token when nothing, or only half a session, was persisted.
type Persister interface {
	Load(ctx context.Context) (token string, user []byte, err error)
	Save(ctx context.Context, token string, user []byte) error
	Clear(ctx context.Context) error
}

const (
	tokenKey = "access_token"
	userKey  = "user"
)

// MetadataPersister keeps the session in the SQLite metadata table.
// Token and user are written and removed in a single transaction.
type MetadataPersister struct {
	db *sql.DB
}

func NewMetadataPersister(db *sql.DB) *MetadataPersister {
	return &MetadataPersister{db: db}
}

func (p *MetadataPersister) Load(ctx context.Context) (string, []byte, error) {
	repo := metadata.NewSQLiteRepository(p.db)

	token, found, err := repo.Get(ctx, tokenKey)
	if err != nil {
		return "", nil, fmt.Errorf("load session token: %w", err)
	}
	if !found || len(token) == 0 {
		return "", nil, nil
	}

	user, found, err := repo.Get(ctx, userKey)
	if err != nil {
		return "", nil, fmt.Errorf("load session user: %w", err)
	}
	if !found || len(user) == 0 {
		// A token without its user is not a session.
		if err := p.Clear(ctx); err != nil {
			return "", nil, fmt.Errorf("clear partial session: %w", err)
		}
		return "", nil, nil
	}

	return string(token), user, nil
}

func (p *MetadataPersister) Save(ctx context.Context, token string, user []byte) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, tokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, userKey, user)
	})
}

func (p *MetadataPersister) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, tokenKey, userKey)
	})
}
