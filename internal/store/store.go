// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

// Package store persists users, events, connections, and feedback in
// BadgerDB as JSON documents under typed key prefixes. It is the
// engine's DataSource and the API layer's write path.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/eventmesh/eventmesh/internal/config"
	"github.com/eventmesh/eventmesh/internal/logging"
	"github.com/eventmesh/eventmesh/internal/metrics"
)

// Key prefixes. Connection keys are "conn:<fromID>:<toID>" so one
// prefix scan finds everything a user initiated.
const (
	userKeyPrefix     = "user:"
	eventKeyPrefix    = "event:"
	connKeyPrefix     = "conn:"
	feedbackKeyPrefix = "feedback:"
)

// ErrNotFound marks a missing document. Callers distinguish it from
// storage failures with errors.Is.
var ErrNotFound = errors.New("not found")

// Store wraps a Badger database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at cfg.Path, or an ephemeral
// in-memory database when cfg.InMemory is set.
func Open(cfg config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs Badger value-log garbage collection until there is
// nothing left to collect. No-op for in-memory databases.
func (s *Store) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			return
		}
	}
}

// put marshals doc and writes it under key.
func (s *Store) put(key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get reads key into out. Returns ErrNotFound for missing keys.
func (s *Store) get(key string, out interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return err
}

// delete removes key. Missing keys are not an error.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// scanPrefix invokes fn with every value under prefix. fn receives a
// copy it may retain.
func (s *Store) scanPrefix(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(val); err != nil {
				return err
			}
		}
		return nil
	})
}

// timed wraps an operation with store metrics.
func timed(operation, kind string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStoreOp(operation, kind, time.Since(start), err)
	return err
}

// ctxErr surfaces context cancellation before starting a Badger
// transaction; Badger itself does not take a context.
func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(f, v...)
}

func (badgerLogger) Warningf(f string, v ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(f, v...)
}

func (badgerLogger) Infof(f string, v ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(f, v...)
}

func (badgerLogger) Debugf(f string, v ...interface{}) {
	logging.Trace().Str("component", "badger").Msgf(f, v...)
}
