package badger

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// QueryLogRepository implements storage.QueryLogRepository for BadgerDB.
type QueryLogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QueryLogRepository = (*QueryLogRepository)(nil)

// NewQueryLogRepository creates a new QueryLogRepository.
func NewQueryLogRepository(backend *Backend) (*QueryLogRepository, error) {
	idSeq, err := backend.GetSequence(queryLogIDSeq)
	if err != nil {
		return nil, err
	}

	return &QueryLogRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QueryLogRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *QueryLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddQueryLog records an executed search.
func (r *QueryLogRepository) AddQueryLog(ctx context.Context, entry *core.QueryLog) (*core.QueryLog, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if entry.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			entry.Id = core.ID(nextID)
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		}

		key := makeQueryLogKey(entry.Id)
		if err := tx.Set(key, storage.MarshalQueryLog(entry)); err != nil {
			return err
		}
		dateKey := makeQueryLogDateKey(entry.CreatedAt, entry.Id)
		if err := tx.Set(dateKey, storage.MarshalID(entry.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return entry, err
}

// RecentQueryLogs retrieves the N most recent log entries, newest first.
func (r *QueryLogRepository) RecentQueryLogs(ctx context.Context, limit int) ([]*core.QueryLog, error) {
	var results []*core.QueryLog
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialQueryLogDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(queryLogDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			entry, err := r.readQueryLog(tx, makeQueryLogKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// matchScanLimit bounds how far back MatchingQueries looks.
const matchScanLimit = 500

// MatchingQueries returns distinct past query strings containing the
// given fragment, most recent first.
func (r *QueryLogRepository) MatchingQueries(ctx context.Context, fragment string, limit int) ([]string, error) {
	recent, err := r.RecentQueryLogs(ctx, matchScanLimit)
	if err != nil {
		return nil, err
	}

	fragment = strings.ToLower(strings.TrimSpace(fragment))
	seen := make(map[string]bool)
	var results []string
	for _, entry := range recent {
		if len(results) >= limit {
			break
		}
		query := strings.TrimSpace(entry.OriginalQuery)
		lowered := strings.ToLower(query)
		if seen[lowered] {
			continue
		}
		if fragment != "" && !strings.Contains(lowered, fragment) {
			continue
		}
		seen[lowered] = true
		results = append(results, query)
	}
	return results, nil
}

// CountQueryLogs returns the total number of log entries.
func (r *QueryLogRepository) CountQueryLogs(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queryLogPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readQueryLog reads a log entry from the transaction.
func (r *QueryLogRepository) readQueryLog(tx *badger.Txn, key []byte) (*core.QueryLog, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.QueryLog
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalQueryLog(val)
		return unmarshalErr
	})
	return entry, err
}
