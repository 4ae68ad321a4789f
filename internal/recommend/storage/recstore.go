// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/synth"
)

// ErrNotFound is returned when no precomputed list exists for a domain or user.
var ErrNotFound = errors.New("precomputed recommendations not found")

// Key prefix for precomputed lists: recs/{domain}/{user}
const recsKeyPrefix = "recs/"

// RecommendationStore keeps precomputed lists in BadgerDB for serving.
type RecommendationStore struct {
	db *badger.DB
}

// OpenRecommendationStore opens (or creates) the store at path.
// An empty path opens an in-memory store.
func OpenRecommendationStore(path string) (*RecommendationStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for recommendations: %w", err)
	}
	return &RecommendationStore{db: db}, nil
}

// Close closes the underlying database.
func (s *RecommendationStore) Close() error {
	return s.db.Close()
}

func domainPrefix(domain synth.Domain) []byte {
	return []byte(recsKeyPrefix + string(domain) + "/")
}

func recsKey(domain synth.Domain, user int) []byte {
	return append(domainPrefix(domain), strconv.Itoa(user)...)
}

// ReplaceDomain drops every stored list for domain and writes recs in its
// place. Readers may briefly see the domain empty while this runs.
func (s *RecommendationStore) ReplaceDomain(ctx context.Context, domain synth.Domain, recs recommend.Precomputed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropPrefix(domainPrefix(domain)); err != nil {
		return fmt.Errorf("drop %s recommendations: %w", domain, err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for user, list := range recs {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal user %d: %w", user, err)
		}
		if err := wb.Set(recsKey(domain, user), data); err != nil {
			return fmt.Errorf("set user %d: %w", user, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush %s recommendations: %w", domain, err)
	}
	return nil
}

// Get returns the stored list for one user.
func (s *RecommendationStore) Get(ctx context.Context, domain synth.Domain, user int) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var list []recommend.Recommendation
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recsKey(domain, user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s user %d", ErrNotFound, domain, user)
		}
		if err != nil {
			return fmt.Errorf("get %s user %d: %w", domain, user, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &list)
		})
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CountUsers returns how many users have a stored list for domain.
func (s *RecommendationStore) CountUsers(ctx context.Context, domain synth.Domain) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := domainPrefix(domain)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count %s recommendations: %w", domain, err)
	}
	return count, nil
}
