package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/bootstrap"
	"github.com/target/attractions-admin/internal/ports"
)

// sessionStore is a session store that can enumerate its scopes.
type sessionStore interface {
	ports.SessionStore
	Scopes(ctx context.Context) ([]string, error)
}

type storeOpener func(cmdCtx *commandContext) (sessionStore, func() error, error)

var errMemoryStore = errors.New("SESSION_STORE=memory lives inside the server process; nothing to inspect")

// openConfiguredStore connects to the store named by SESSION_STORE.
// The returned closer releases the underlying connection.
func openConfiguredStore(cmdCtx *commandContext) (sessionStore, func() error, error) {
	cfg := cmdCtx.Config
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: cmdCtx.Logger}
	storeCfg := bootstrap.SessionStoreConfig{Session: cfg.Session}
	var closer func() error

	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return nil, nil, errMemoryStore
	case config.SessionStorePostgres:
		db, err := bootstrap.ConnectDB(dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		storeCfg.DB, closer = db, db.Close
	default:
		client, err := bootstrap.ConnectRedis(dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		storeCfg.RedisClient, closer = client, client.Close
	}

	store, err := bootstrap.BuildSessionStore(storeCfg)
	if err != nil {
		return nil, nil, errors.Join(err, closer())
	}
	lister, ok := store.(sessionStore)
	if !ok {
		return nil, nil, errors.Join(fmt.Errorf("session store %q cannot list scopes", cfg.Session.Store), closer())
	}
	return lister, closer, nil
}

// withStore opens the store, runs fn, and closes the store afterwards.
func withStore(cmdCtx *commandContext, fn func(sessionStore) error) (err error) {
	open := cmdCtx.openStore
	if open == nil {
		open = openConfiguredStore
	}
	store, closer, err := open(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closer == nil {
			return
		}
		if closeErr := closer(); closeErr != nil {
			cmdCtx.Logger.Warn("session store close failed", "error", closeErr)
		}
	}()
	return fn(store)
}
