package folio

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.CreatePost(PostInput{
		Title:   "Hello, World! 测试",
		Excerpt: "A short excerpt",
		Content: "Some body content here",
		Tags:    []string{"go", "web"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.ID == "" {
		t.Error("ID should be generated")
	}
	if post.Slug != "hello-world-测试" {
		t.Errorf("Slug = %q, want %q", post.Slug, "hello-world-测试")
	}
	if post.ReadTime != "1 分钟" {
		t.Errorf("ReadTime = %q, want %q", post.ReadTime, "1 分钟")
	}

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}

	bySlug, err := s.GetPostBySlug("hello-world-测试")
	if err != nil {
		t.Fatalf("GetPostBySlug failed: %v", err)
	}
	if bySlug.ID != post.ID {
		t.Errorf("GetPostBySlug returned ID %q, want %q", bySlug.ID, post.ID)
	}
}

func TestCreatePostValidation(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreatePost(PostInput{Title: "", Excerpt: "e", Content: "c"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// A title of pure punctuation produces an empty slug.
	_, err = s.CreatePost(PostInput{Title: "!!!", Excerpt: "e", Content: "c"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty slug, got %v", err)
	}
}

func TestCreatePostSlugConflict(t *testing.T) {
	s := setupTestStore(t)

	in := PostInput{Title: "Same Title", Excerpt: "e", Content: "c"}
	if _, err := s.CreatePost(in); err != nil {
		t.Fatalf("first CreatePost failed: %v", err)
	}
	_, err := s.CreatePost(in)
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetPost("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetPostBySlug("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPostBySlug: expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePostRegeneratesDerivedFields(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.CreatePost(PostInput{
		Title:   "Original Title",
		Excerpt: "e",
		Content: "short",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Title change regenerates the slug but leaves readTime alone.
	newTitle := "Brand New Title"
	updated, err := s.UpdatePost(post.ID, PostPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated.Slug != "brand-new-title" {
		t.Errorf("Slug = %q, want %q", updated.Slug, "brand-new-title")
	}
	if updated.ReadTime != post.ReadTime {
		t.Errorf("ReadTime changed on title update: %q -> %q", post.ReadTime, updated.ReadTime)
	}

	// Content change regenerates readTime but leaves the slug alone.
	longContent := ""
	for i := 0; i < 450; i++ {
		longContent += "word "
	}
	updated2, err := s.UpdatePost(post.ID, PostPatch{Content: &longContent})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated2.Slug != "brand-new-title" {
		t.Errorf("Slug changed on content update: %q", updated2.Slug)
	}
	if updated2.ReadTime != "3 分钟" {
		t.Errorf("ReadTime = %q, want %q", updated2.ReadTime, "3 分钟")
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.CreatePost(PostInput{Title: "To Delete", Excerpt: "e", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := s.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("post still retrievable after delete: %v", err)
	}
	if err := s.DeletePost(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing post should report ErrNotFound, got %v", err)
	}
}

func TestListPostsOrderAndFilter(t *testing.T) {
	s := setupTestStore(t)

	mustCreate := func(title, date string, featured bool) BlogPost {
		t.Helper()
		post, err := s.CreatePost(PostInput{
			Title: title, Excerpt: "e", Content: "c", Featured: featured,
		})
		if err != nil {
			t.Fatalf("CreatePost(%q) failed: %v", title, err)
		}
		newDate := date
		post, err = s.UpdatePost(post.ID, PostPatch{Date: &newDate})
		if err != nil {
			t.Fatalf("UpdatePost(%q) failed: %v", title, err)
		}
		return post
	}

	mustCreate("Older", "2024-01-01", false)
	mustCreate("Newer", "2024-02-01", true)

	all, err := s.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	if all[0].Title != "Newer" {
		t.Errorf("posts not sorted newest first: got %q first", all[0].Title)
	}

	featured, err := s.ListPosts(true)
	if err != nil {
		t.Fatalf("ListPosts(featured) failed: %v", err)
	}
	if len(featured) != 1 || featured[0].Title != "Newer" {
		t.Errorf("featured filter wrong: %v", featured)
	}
}

func TestProjectCRUD(t *testing.T) {
	s := setupTestStore(t)

	project, err := s.CreateProject(ProjectInput{
		Title:       "电商平台",
		Description: "A web shop",
		Tags:        []string{"react", "node"},
		Featured:    true,
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.Slug != "电商平台" {
		t.Errorf("Slug = %q, want %q", project.Slug, "电商平台")
	}
	if project.CreatedAt == "" || project.UpdatedAt == "" {
		t.Error("timestamps should be set on create")
	}

	got, err := s.GetProjectBySlug("电商平台")
	if err != nil {
		t.Fatalf("GetProjectBySlug failed: %v", err)
	}
	if got.ID != project.ID {
		t.Errorf("GetProjectBySlug ID = %q, want %q", got.ID, project.ID)
	}

	newDesc := "An updated web shop"
	updated, err := s.UpdateProject(project.ID, ProjectPatch{Description: &newDesc})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Description != newDesc {
		t.Errorf("Description = %q, want %q", updated.Description, newDesc)
	}
	if updated.Slug != project.Slug {
		t.Errorf("Slug changed on description update: %q", updated.Slug)
	}

	if err := s.DeleteProject(project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if err := s.DeleteProject(project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing project should report ErrNotFound, got %v", err)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateProject(ProjectInput{Title: "", Description: "d"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	posts, err := s.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) == 0 {
		t.Fatal("seed should insert sample posts into an empty store")
	}

	if err := s.Seed(); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	again, err := s.ListPosts(false)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(again) != len(posts) {
		t.Errorf("second seed changed post count: %d -> %d", len(posts), len(again))
	}
}

func TestContactMessages(t *testing.T) {
	s := setupTestStore(t)

	msg, err := s.SaveContactMessage("张三", "zhang@example.com", "你好")
	if err != nil {
		t.Fatalf("SaveContactMessage failed: %v", err)
	}
	if msg.ID == "" {
		t.Error("message ID should be generated")
	}

	msgs, err := s.ListContactMessages()
	if err != nil {
		t.Fatalf("ListContactMessages failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Email != "zhang@example.com" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}
