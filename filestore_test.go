package folio

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return fs, dir
}

func writePostsFile(t *testing.T, dir, name string, posts []BlogPost) {
	t.Helper()
	data, err := json.Marshal(posts)
	if err != nil {
		t.Fatalf("marshal posts: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileStoreSeedsDefaultsWhenEmpty(t *testing.T) {
	fs, _ := setupFileStore(t)

	posts, err := fs.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) == 0 {
		t.Fatal("a fresh store should serve the built-in samples")
	}
}

func TestFileStoreCreateAndLookup(t *testing.T) {
	fs, dir := setupFileStore(t)

	post, err := fs.CreatePost(PostInput{
		Title:   "Crème Brûlée Recipe",
		Excerpt: "dessert",
		Content: "whisk eggs and sugar",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Slug != "creme-brulee-recipe" {
		t.Errorf("Slug = %q, want %q", post.Slug, "creme-brulee-recipe")
	}

	// New posts go to the front of the list.
	posts, err := fs.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if posts[0].ID != post.ID {
		t.Errorf("new post should be first, got %q", posts[0].Title)
	}

	got, err := fs.GetPostBySlug("creme-brulee-recipe")
	if err != nil {
		t.Fatalf("GetPostBySlug failed: %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("GetPostBySlug ID = %q, want %q", got.ID, post.ID)
	}

	// The write went to the canonical file.
	if _, err := os.Stat(filepath.Join(dir, canonicalPostsFile)); err != nil {
		t.Errorf("canonical file missing after create: %v", err)
	}
}

func TestFileStoreMigratesLegacyFiles(t *testing.T) {
	dir := t.TempDir()
	writePostsFile(t, dir, "blogPosts.json", []BlogPost{
		{ID: "a", Title: "From legacy one", Slug: "from-legacy-one"},
	})
	writePostsFile(t, dir, "blogs.json", []BlogPost{
		{ID: "b", Title: "From legacy two", Slug: "from-legacy-two"},
	})

	fs, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	posts, err := fs.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	ids := make(map[string]bool, len(posts))
	for _, p := range posts {
		ids[p.ID] = true
	}
	if !ids["a"] || !ids["b"] {
		t.Errorf("migrated posts missing, got %v", ids)
	}

	for _, name := range legacyPostsFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("legacy file %s should be removed after migration", name)
		}
	}
}

func TestFileStoreMigrationFirstWriterWins(t *testing.T) {
	dir := t.TempDir()
	writePostsFile(t, dir, canonicalPostsFile, []BlogPost{
		{ID: "dup", Title: "Canonical version", Slug: "canonical-version"},
	})
	writePostsFile(t, dir, "blogPosts.json", []BlogPost{
		{ID: "dup", Title: "Legacy version", Slug: "legacy-version"},
		{ID: "extra", Title: "Extra", Slug: "extra"},
	})

	fs, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	got, err := fs.GetPost("dup")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Canonical version" {
		t.Errorf("existing entry was overwritten by legacy data: %q", got.Title)
	}
	if _, err := fs.GetPost("extra"); err != nil {
		t.Errorf("non-conflicting legacy post not merged: %v", err)
	}
}

func TestFileStoreMigrationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePostsFile(t, dir, "blogPosts.json", []BlogPost{
		{ID: "a", Title: "Once", Slug: "once"},
	})

	fs1, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	first, err := fs1.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}

	// A second store over the same directory finds no legacy files and
	// changes nothing.
	fs2, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("second NewFileStore failed: %v", err)
	}
	second, err := fs2.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("post count changed across restarts: %d -> %d", len(first), len(second))
	}
}

func TestFileStoreCorruptCanonicalFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, canonicalPostsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	posts, err := fs.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) == 0 {
		t.Fatal("corrupt canonical file should fall back to the built-in samples")
	}
}

func TestFileStoreUpdate(t *testing.T) {
	fs, _ := setupFileStore(t)

	post, err := fs.CreatePost(PostInput{Title: "Before", Excerpt: "e", Content: "short words"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	newTitle := "After"
	updated, err := fs.UpdatePost(post.ID, PostPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated.Slug != "after" {
		t.Errorf("Slug = %q, want %q", updated.Slug, "after")
	}
	if updated.ReadTime != post.ReadTime {
		t.Errorf("ReadTime changed on title-only update")
	}

	if _, err := fs.UpdatePost("missing", PostPatch{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating a missing post should report ErrNotFound, got %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	fs, _ := setupFileStore(t)

	post, err := fs.CreatePost(PostInput{Title: "Goner", Excerpt: "e", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := fs.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := fs.GetPost(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("post still retrievable after delete")
	}
	if err := fs.DeletePost(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing post should report ErrNotFound, got %v", err)
	}
}

func TestFileStoreFeaturedFilter(t *testing.T) {
	fs, _ := setupFileStore(t)

	if _, err := fs.CreatePost(PostInput{Title: "Plain Entry", Excerpt: "e", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	featuredPost, err := fs.CreatePost(PostInput{Title: "Starred Entry", Excerpt: "e", Content: "c", Featured: true})
	if err != nil {
		t.Fatal(err)
	}

	featured, err := fs.ListPosts(true)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	for _, p := range featured {
		if !p.Featured {
			t.Errorf("non-featured post %q in featured listing", p.Title)
		}
	}
	found := false
	for _, p := range featured {
		if p.ID == featuredPost.ID {
			found = true
		}
	}
	if !found {
		t.Error("featured post missing from featured listing")
	}
}
