package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// PostRepository implements storage.PostRepository for BadgerDB.
type PostRepository struct {
	backend *Backend
}

var _ storage.PostRepository = (*PostRepository)(nil)

// NewPostRepository creates a new PostRepository.
func NewPostRepository(backend *Backend) (*PostRepository, error) {
	return &PostRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *PostRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PostRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPosts adds one or more posts to storage.
// IDs are content-derived from the platform post ID, so re-adding the
// same post is detected as a duplicate rather than stored twice.
func (r *PostRepository) AddPosts(ctx context.Context, posts ...*core.Post) ([]*core.Post, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, post := range posts {
			if post.Id == 0 {
				post.Id = core.IDFromContent(post.PostID)
			}

			key := makePostKey(post.Id)
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if post.InsertedAt.IsZero() {
				// Truncate to the serialized precision so the post handed
				// back to the caller equals the stored record.
				post.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
			}
			post.UpdatedAt = post.InsertedAt

			// Store primary record
			value := storage.MarshalPost(post)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Platform post ID lookup
			if err := tx.Set(makePostPlatformKey(post.PostID), storage.MarshalID(post.Id)); err != nil {
				return err
			}

			// Date and author indices
			if err := tx.Set(makePostDateKey(post.PostedAt, post.Id), storage.MarshalID(post.Id)); err != nil {
				return err
			}
			if err := tx.Set(makePostAuthorKey(post.AuthorUsername, post.PostedAt, post.Id), storage.MarshalID(post.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return posts, err
}

// UpdatePosts updates existing posts.
func (r *PostRepository) UpdatePosts(ctx context.Context, posts ...*core.Post) ([]*core.Post, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, post := range posts {
			key := makePostKey(post.Id)

			// Read old record to detect index changes
			old, err := r.readPost(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			post.InsertedAt = old.InsertedAt
			post.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

			value := storage.MarshalPost(post)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Reindex when the posted time or author changed
			if !old.PostedAt.Equal(post.PostedAt) || old.AuthorUsername != post.AuthorUsername {
				if err := tx.Delete(makePostDateKey(old.PostedAt, old.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makePostAuthorKey(old.AuthorUsername, old.PostedAt, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makePostDateKey(post.PostedAt, post.Id), storage.MarshalID(post.Id)); err != nil {
					return err
				}
				if err := tx.Set(makePostAuthorKey(post.AuthorUsername, post.PostedAt, post.Id), storage.MarshalID(post.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return posts, err
}

// DeletePosts removes posts by their IDs.
func (r *PostRepository) DeletePosts(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePostKey(id)

			// Read record to get metadata for index cleanup
			post, err := r.readPost(tx, key)
			if err != nil {
				return err
			}
			if post == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makePostDateKey(post.PostedAt, post.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makePostAuthorKey(post.AuthorUsername, post.PostedAt, post.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makePostPlatformKey(post.PostID)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPost retrieves a single post by ID.
func (r *PostRepository) GetPost(ctx context.Context, id core.ID) (*core.Post, error) {
	var result *core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePostKey(id)
		var err error
		result, err = r.readPost(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPostByPostID retrieves a single post by its platform post ID.
func (r *PostRepository) GetPostByPostID(ctx context.Context, postID string) (*core.Post, error) {
	var result *core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePostPlatformKey(postID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readPost(tx, makePostKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPosts retrieves multiple posts by their IDs.
func (r *PostRepository) GetPosts(ctx context.Context, ids ...core.ID) ([]*core.Post, error) {
	var result []*core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			post, err := r.readPost(tx, makePostKey(id))
			if err != nil {
				return err
			}
			if post != nil {
				result = append(result, post)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListPosts iterates over every stored post in key order.
func (r *PostRepository) ListPosts(ctx context.Context, fn func(post *core.Post) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(postRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var post *core.Post
			err := iter.Item().Value(func(val []byte) error {
				var err error
				post, err = storage.UnmarshalPost(val)
				return err
			})
			if err != nil {
				return err
			}
			if post == nil {
				continue
			}
			if err := fn(post); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// GetPostsByAuthor retrieves posts by the given username, most recent first.
func (r *PostRepository) GetPostsByAuthor(ctx context.Context, username string) ([]*core.Post, error) {
	var results []*core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialPostAuthorKey(username)

		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible entry for this author, then walk back
		startKey := append(slices.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
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

			post, err := r.readPost(tx, makePostKey(id))
			if err != nil {
				return err
			}
			if post != nil {
				results = append(results, post)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetPostsByDateRange retrieves posts within a time range.
func (r *PostRepository) GetPostsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Post, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialPostDateKey(start)
		endKey := makePartialPostDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
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

			post, err := r.readPost(tx, makePostKey(id))
			if err != nil {
				return err
			}
			if post != nil {
				results = append(results, post)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentPosts retrieves the N most recently posted posts.
func (r *PostRepository) GetRecentPosts(ctx context.Context, limit int) ([]*core.Post, error) {
	var results []*core.Post
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible date index key and walk backwards
		startKey := makePartialPostDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(postDatePrefix + ":")

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

			post, err := r.readPost(tx, makePostKey(id))
			if err != nil {
				return err
			}
			if post != nil {
				results = append(results, post)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// CountPosts returns the total number of stored posts.
func (r *PostRepository) CountPosts(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(postRecordPrefix + ":")
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

// CountAuthors returns the number of distinct post authors.
// Walks the author index and counts username runs; the index is sorted,
// so each author's entries are contiguous.
func (r *PostRepository) CountAuthors(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(postAuthorPrefix + ":")

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var last []byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Username runs from the prefix up to the NUL separator
			rest := key[len(prefix):]
			sep := bytes.IndexByte(rest, 0)
			if sep < 0 {
				continue
			}
			username := rest[:sep]
			if last == nil || !bytes.Equal(username, last) {
				count++
				last = slices.Clone(username)
			}
		}
		return nil
	}, false)
	return count, err
}

// readPost reads a post from the transaction.
func (r *PostRepository) readPost(tx *badger.Txn, key []byte) (*core.Post, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var post *core.Post
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		post, unmarshalErr = storage.UnmarshalPost(val)
		return unmarshalErr
	})
	return post, err
}
