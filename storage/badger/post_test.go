package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

func newTestPost(postID, author, content string, postedAt time.Time) *core.Post {
	return &core.Post{
		PostID:         postID,
		AuthorUsername: author,
		Content:        content,
		PostedAt:       postedAt,
	}
}

func setupPostRepo(t *testing.T) storage.PostRepository {
	t.Helper()
	postRepo, queryLogRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}
	t.Cleanup(func() {
		postRepo.Close()
		queryLogRepo.Close()
		backend.Close()
	})
	return postRepo
}

func TestAddAndGetPost(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := newTestPost("p1", "alice", "first post", time.Now().UTC().Add(-time.Hour))
	stored, err := repo.AddPosts(ctx, post)
	if err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored post, got %d", len(stored))
	}
	if stored[0].Id == 0 {
		t.Fatal("expected content-derived ID, got 0")
	}
	if stored[0].InsertedAt.IsZero() {
		t.Fatal("expected InsertedAt to be set")
	}

	got, err := repo.GetPost(ctx, stored[0].Id)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Content != "first post" {
		t.Fatalf("unexpected content: %q", got.Content)
	}
	if got.AuthorUsername != "alice" {
		t.Fatalf("unexpected author: %q", got.AuthorUsername)
	}
	if !got.InsertedAt.Equal(stored[0].InsertedAt) {
		t.Fatalf("stored InsertedAt %v does not match returned %v", got.InsertedAt, stored[0].InsertedAt)
	}
}

func TestGetPostNotFound(t *testing.T) {
	repo := setupPostRepo(t)

	_, err := repo.GetPost(context.Background(), 999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostByPostID(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := newTestPost("platform-42", "bob", "lookup me", time.Now().UTC().Add(-time.Hour))
	if _, err := repo.AddPosts(ctx, post); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	got, err := repo.GetPostByPostID(ctx, "platform-42")
	if err != nil {
		t.Fatalf("GetPostByPostID failed: %v", err)
	}
	if got.Id != post.Id {
		t.Fatalf("expected id %d, got %d", post.Id, got.Id)
	}

	if _, err := repo.GetPostByPostID(ctx, "no-such-post"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddDuplicatePost(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	posted := time.Now().UTC().Add(-time.Hour)
	if _, err := repo.AddPosts(ctx, newTestPost("p1", "alice", "original", posted)); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	_, err := repo.AddPosts(ctx, newTestPost("p1", "alice", "duplicate", posted))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	count, err := repo.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 post after duplicate add, got %d", count)
	}
}

func TestUpdatePost(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := newTestPost("p1", "alice", "before", time.Now().UTC().Add(-time.Hour))
	if _, err := repo.AddPosts(ctx, post); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}
	inserted := post.InsertedAt

	post.Content = "after"
	post.Likes = 50
	if _, err := repo.UpdatePosts(ctx, post); err != nil {
		t.Fatalf("UpdatePosts failed: %v", err)
	}

	got, err := repo.GetPost(ctx, post.Id)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Content != "after" {
		t.Fatalf("unexpected content: %q", got.Content)
	}
	if got.Likes != 50 {
		t.Fatalf("unexpected likes: %d", got.Likes)
	}
	if !got.InsertedAt.Equal(inserted) {
		t.Fatal("InsertedAt must survive updates")
	}
	if got.UpdatedAt.Before(got.InsertedAt) {
		t.Fatal("UpdatedAt should not precede InsertedAt")
	}
}

func TestUpdatePostReindexesAuthor(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := newTestPost("p1", "alice", "migrating accounts", time.Now().UTC().Add(-time.Hour))
	if _, err := repo.AddPosts(ctx, post); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	post.AuthorUsername = "alice_new"
	if _, err := repo.UpdatePosts(ctx, post); err != nil {
		t.Fatalf("UpdatePosts failed: %v", err)
	}

	oldPosts, err := repo.GetPostsByAuthor(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPostsByAuthor failed: %v", err)
	}
	if len(oldPosts) != 0 {
		t.Fatalf("expected no posts under old username, got %d", len(oldPosts))
	}

	newPosts, err := repo.GetPostsByAuthor(ctx, "alice_new")
	if err != nil {
		t.Fatalf("GetPostsByAuthor failed: %v", err)
	}
	if len(newPosts) != 1 {
		t.Fatalf("expected 1 post under new username, got %d", len(newPosts))
	}
}

func TestUpdateMissingPost(t *testing.T) {
	repo := setupPostRepo(t)

	missing := newTestPost("ghost", "nobody", "never stored", time.Now().UTC())
	missing.Id = 12345
	_, err := repo.UpdatePosts(context.Background(), missing)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	post := newTestPost("p1", "alice", "to be removed", time.Now().UTC().Add(-time.Hour))
	if _, err := repo.AddPosts(ctx, post); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	if err := repo.DeletePosts(ctx, post.Id); err != nil {
		t.Fatalf("DeletePosts failed: %v", err)
	}

	if _, err := repo.GetPost(ctx, post.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetPostByPostID(ctx, "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected platform lookup to fail after delete, got %v", err)
	}

	byAuthor, err := repo.GetPostsByAuthor(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPostsByAuthor failed: %v", err)
	}
	if len(byAuthor) != 0 {
		t.Fatalf("expected author index cleanup, got %d entries", len(byAuthor))
	}

	if err := repo.DeletePosts(ctx, post.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestGetPosts(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p1 := newTestPost("p1", "alice", "one", now.Add(-time.Hour))
	p2 := newTestPost("p2", "bob", "two", now.Add(-2*time.Hour))
	if _, err := repo.AddPosts(ctx, p1, p2); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	// Missing IDs are skipped, not errors
	posts, err := repo.GetPosts(ctx, p1.Id, 9999, p2.Id)
	if err != nil {
		t.Fatalf("GetPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
}

func TestListPosts(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, id := range []string{"p1", "p2", "p3"} {
		post := newTestPost(id, "alice", "post "+id, now.Add(-time.Duration(i)*time.Hour))
		if _, err := repo.AddPosts(ctx, post); err != nil {
			t.Fatalf("AddPosts failed: %v", err)
		}
	}

	seen := 0
	err := repo.ListPosts(ctx, func(post *core.Post) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if seen != 3 {
		t.Fatalf("expected 3 posts, got %d", seen)
	}

	// Errors from fn stop iteration and propagate
	sentinel := errors.New("stop")
	err = repo.ListPosts(ctx, func(post *core.Post) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}
}

func TestGetPostsByAuthor(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	older := newTestPost("p1", "alice", "older", now.Add(-3*time.Hour))
	newer := newTestPost("p2", "alice", "newer", now.Add(-1*time.Hour))
	other := newTestPost("p3", "bob", "unrelated", now.Add(-2*time.Hour))
	if _, err := repo.AddPosts(ctx, older, newer, other); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	posts, err := repo.GetPostsByAuthor(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPostsByAuthor failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Content != "newer" || posts[1].Content != "older" {
		t.Fatalf("expected most recent first, got %q then %q", posts[0].Content, posts[1].Content)
	}
}

func TestAuthorPrefixIsolation(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	// "al" must not pick up "alice" entries
	now := time.Now().UTC()
	if _, err := repo.AddPosts(ctx,
		newTestPost("p1", "al", "short name", now.Add(-time.Hour)),
		newTestPost("p2", "alice", "long name", now.Add(-2*time.Hour)),
	); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	posts, err := repo.GetPostsByAuthor(ctx, "al")
	if err != nil {
		t.Fatalf("GetPostsByAuthor failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post for author al, got %d", len(posts))
	}
	if posts[0].AuthorUsername != "al" {
		t.Fatalf("unexpected author: %q", posts[0].AuthorUsername)
	}
}

func TestGetPostsByDateRange(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	if _, err := repo.AddPosts(ctx,
		newTestPost("p1", "alice", "before range", base.Add(-48*time.Hour)),
		newTestPost("p2", "alice", "in range", base),
		newTestPost("p3", "alice", "also in range", base.Add(time.Hour)),
		newTestPost("p4", "alice", "after range", base.Add(72*time.Hour)),
	); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	posts, err := repo.GetPostsByDateRange(ctx, base.Add(-time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetPostsByDateRange failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts in range, got %d", len(posts))
	}
	if !posts[0].PostedAt.Before(posts[1].PostedAt) {
		t.Fatal("expected chronological order")
	}
}

func TestGetRecentPosts(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		post := newTestPost(
			"p"+string(rune('0'+i)), "alice",
			"post n", now.Add(-time.Duration(i)*time.Hour))
		if _, err := repo.AddPosts(ctx, post); err != nil {
			t.Fatalf("AddPosts failed: %v", err)
		}
	}

	posts, err := repo.GetRecentPosts(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecentPosts failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i-1].PostedAt.Before(posts[i].PostedAt) {
			t.Fatal("expected most recent first")
		}
	}
}

func TestCounts(t *testing.T) {
	repo := setupPostRepo(t)
	ctx := context.Background()

	count, err := repo.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 posts in fresh store, got %d", count)
	}

	now := time.Now().UTC()
	if _, err := repo.AddPosts(ctx,
		newTestPost("p1", "alice", "one", now.Add(-time.Hour)),
		newTestPost("p2", "alice", "two", now.Add(-2*time.Hour)),
		newTestPost("p3", "bob", "three", now.Add(-3*time.Hour)),
	); err != nil {
		t.Fatalf("AddPosts failed: %v", err)
	}

	count, err = repo.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 posts, got %d", count)
	}

	authors, err := repo.CountAuthors(ctx)
	if err != nil {
		t.Fatalf("CountAuthors failed: %v", err)
	}
	if authors != 2 {
		t.Fatalf("expected 2 distinct authors, got %d", authors)
	}
}
