package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// canonicalPostsFile is the single authoritative file for the
// file-backed post list.
const canonicalPostsFile = "blog_posts.json"

// legacyPostsFiles are historical file names, retained only so their
// contents can be merged into the canonical file once and then removed.
var legacyPostsFiles = []string{"blogPosts.json", "blogs.json", "blog-content.json", "blog-posts.json"}

// FileStore persists the ordered post list as a JSON array in a single
// canonical file inside dir. It is the embedded-backend implementation
// of PostStore: fail-soft on reads (corrupt or missing data falls back
// to the built-in samples, with the problem logged), strict on the
// verification paths of update and delete.
type FileStore struct {
	mu  sync.Mutex
	dir string
	log *slog.Logger

	migrated bool
}

// NewFileStore creates a FileStore rooted at dir, ensures dir exists
// and migrates any legacy files into the canonical one.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs := &FileStore{dir: dir, log: logger}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.migrateLegacyFiles()
	return fs, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

// migrateLegacyFiles merges every parseable legacy file into the
// canonical list by identifier, preferring entries already present
// (first writer wins), then removes the legacy file whether or not it
// contributed anything. Running it again with no legacy data is a
// no-op. Caller holds the lock.
func (f *FileStore) migrateLegacyFiles() {
	if f.migrated {
		return
	}
	f.migrated = true

	hasLegacy := false
	for _, name := range legacyPostsFiles {
		if data, err := os.ReadFile(f.path(name)); err == nil && len(bytes.TrimSpace(data)) > 0 && string(bytes.TrimSpace(data)) != "[]" {
			hasLegacy = true
			break
		}
	}
	if !hasLegacy {
		return
	}
	f.log.Info("legacy post files found, migrating", "dir", f.dir)

	merged := f.readCanonical()
	seen := make(map[string]struct{}, len(merged))
	for _, p := range merged {
		seen[p.ID] = struct{}{}
	}

	for _, name := range legacyPostsFiles {
		path := f.path(name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var legacy []BlogPost
		if err := json.Unmarshal(data, &legacy); err != nil {
			f.log.Error("legacy post file is not parseable, dropping", "file", name, "error", err)
		} else {
			moved := 0
			for _, p := range legacy {
				if p.ID == "" {
					continue
				}
				if _, ok := seen[p.ID]; ok {
					continue
				}
				seen[p.ID] = struct{}{}
				merged = append(merged, p)
				moved++
			}
			if moved > 0 {
				f.log.Info("migrated posts from legacy file", "file", name, "count", moved)
			}
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.log.Warn("could not remove legacy post file", "file", name, "error", err)
		}
	}

	if len(merged) > 0 {
		f.saveAll(merged)
		f.log.Info("legacy migration complete", "total", len(merged))
	}
}

// readCanonical returns the canonical list, or nil when the file is
// missing or unreadable. Caller holds the lock.
func (f *FileStore) readCanonical() []BlogPost {
	data, err := os.ReadFile(f.path(canonicalPostsFile))
	if err != nil {
		return nil
	}
	var posts []BlogPost
	if err := json.Unmarshal(data, &posts); err != nil {
		f.log.Error("canonical post file is corrupt, discarding", "error", err)
		_ = os.Remove(f.path(canonicalPostsFile))
		return nil
	}
	return posts
}

// loadAll returns the canonical list, seeding the file with the
// built-in samples when it is missing or corrupt. It never fails toward
// the caller. Caller holds the lock.
func (f *FileStore) loadAll() []BlogPost {
	if _, err := os.Stat(f.path(canonicalPostsFile)); err == nil {
		if posts := f.readCanonical(); posts != nil {
			return posts
		}
	}
	posts := defaultPosts()
	f.saveAll(posts)
	return posts
}

// saveAll serializes posts under the canonical file and verifies the
// write by reading it back. A read-back mismatch is logged, not fatal.
// A failed write is retried exactly once after removing the file.
// Caller holds the lock.
func (f *FileStore) saveAll(posts []BlogPost) {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		f.log.Error("marshal posts failed", "error", err)
		return
	}
	path := f.path(canonicalPostsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.log.Error("write posts failed, clearing and retrying once", "error", err)
		_ = os.Remove(path)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			f.log.Error("retry write posts failed", "error", err)
			return
		}
	}
	readBack, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(readBack, data) {
		f.log.Warn("post write verification mismatch", "path", path, "error", err)
	}
}

// ListPosts returns the stored posts, newest first. The list order is
// maintained by CreatePost prepending.
func (f *FileStore) ListPosts(featuredOnly bool) ([]BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := f.loadAll()
	if !featuredOnly {
		return posts, nil
	}
	var featured []BlogPost
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// GetPost returns a post by identifier, or ErrNotFound.
func (f *FileStore) GetPost(id string) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.loadAll() {
		if p.ID == id {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// GetPostBySlug returns a post by slug, or ErrNotFound.
func (f *FileStore) GetPostBySlug(slug string) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findBySlug(slug)
}

func (f *FileStore) findBySlug(slug string) (BlogPost, error) {
	for _, p := range f.loadAll() {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// CreatePost validates the input, derives identifier, slug and read
// time, prepends the post (newest first) and persists. The post-write
// lookup by slug is diagnostic: a miss is logged, not returned.
func (f *FileStore) CreatePost(in PostInput) (BlogPost, error) {
	if strings.TrimSpace(in.Title) == "" {
		return BlogPost{}, errEmptyField("title")
	}
	if strings.TrimSpace(in.Excerpt) == "" {
		return BlogPost{}, errEmptyField("excerpt")
	}
	if strings.TrimSpace(in.Content) == "" {
		return BlogPost{}, errEmptyField("content")
	}
	slug := Slugify(in.Title)
	if slug == "" {
		return BlogPost{}, &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.findBySlug(slug); err == nil {
		return BlogPost{}, ErrSlugTaken
	}

	posts := f.loadAll()
	p := BlogPost{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Date:     today(),
		ReadTime: EstimateReadTime(in.Content),
		Tags:     FilterEmpty(in.Tags),
		Featured: in.Featured,
		Slug:     slug,
	}
	f.saveAll(append([]BlogPost{p}, posts...))

	if _, err := f.findBySlug(slug); err != nil {
		f.log.Warn("created post not retrievable by slug", "id", p.ID, "slug", slug)
	}
	return p, nil
}

// UpdatePost merges the patch into the stored post, re-validates, and
// persists. A title change regenerates the slug. The persisted record
// is re-read and deep-compared; a mismatch fails the update.
func (f *FileStore) UpdatePost(id string, patch PostPatch) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.loadAll()
	idx := -1
	for i, p := range posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		f.log.Info("update failed, post not found", "id", id)
		return BlogPost{}, ErrNotFound
	}

	updated := posts[idx]
	if patch.Title != nil {
		updated.Title = *patch.Title
		updated.Slug = Slugify(*patch.Title)
	}
	if patch.Excerpt != nil {
		updated.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
		updated.ReadTime = EstimateReadTime(*patch.Content)
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Tags != nil {
		updated.Tags = FilterEmpty(*patch.Tags)
	}
	if patch.Featured != nil {
		updated.Featured = *patch.Featured
	}

	if strings.TrimSpace(updated.Title) == "" {
		f.log.Error("update failed, title empty after merge", "id", id)
		return BlogPost{}, errEmptyField("title")
	}
	if strings.TrimSpace(updated.Content) == "" {
		f.log.Error("update failed, content empty after merge", "id", id)
		return BlogPost{}, errEmptyField("content")
	}
	if updated.Slug == "" {
		return BlogPost{}, &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}
	for i, p := range posts {
		if i != idx && p.Slug == updated.Slug {
			return BlogPost{}, ErrSlugTaken
		}
	}

	posts[idx] = updated
	f.saveAll(posts)

	var saved *BlogPost
	for _, p := range f.loadAll() {
		if p.ID == id {
			saved = &p
			break
		}
	}
	if saved == nil || !reflect.DeepEqual(*saved, updated) {
		f.log.Error("update verification failed", "id", id)
		return BlogPost{}, errors.New("folio: post was not saved correctly")
	}
	return updated, nil
}

// DeletePost removes a post by identifier and verifies its absence on
// re-read. ErrNotFound for an unknown identifier; an error when the
// record survives the write.
func (f *FileStore) DeletePost(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.loadAll()
	kept := posts[:0:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		f.log.Info("delete failed, post not found", "id", id)
		return ErrNotFound
	}
	f.saveAll(kept)

	for _, p := range f.loadAll() {
		if p.ID == id {
			f.log.Error("delete verification failed, post still present", "id", id)
			return errors.New("folio: post still exists after deletion")
		}
	}
	return nil
}
