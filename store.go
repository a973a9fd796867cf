package folio

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding posts, projects and contact
// messages. Slug uniqueness for posts and projects is enforced here, at
// the storage layer, via UNIQUE constraints.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe
	// under WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    date TEXT NOT NULL,
    read_time TEXT NOT NULL,
    tags TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0,
    slug TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    github TEXT NOT NULL DEFAULT '',
    demo TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    slug TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contact_messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    received_at TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	// featured arrived after the first release; databases created since
	// already have it.
	if _, err := s.db.Exec(`ALTER TABLE posts ADD COLUMN featured INTEGER NOT NULL DEFAULT 0;`); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

// isSlugConflict reports whether err is a slug UNIQUE constraint
// violation. modernc.org/sqlite surfaces these as plain-text errors.
func isSlugConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, ".slug")
}

// --- Posts ---

const postColumns = `id, title, excerpt, content, date, read_time, tags, featured, slug`

func scanPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	var tags string
	var featured int
	err := row.Scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Date, &p.ReadTime, &tags, &featured, &p.Slug)
	if err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	p.Featured = featured == 1
	return p, nil
}

// ListPosts returns posts ordered by date descending, newest first.
// If featuredOnly is set, results are limited to featured posts.
func (s *Store) ListPosts(featuredOnly bool) ([]BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, rowid DESC`
	if featuredOnly {
		query = `SELECT ` + postColumns + ` FROM posts WHERE featured = 1 ORDER BY date DESC, rowid DESC`
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by identifier.
func (s *Store) GetPost(id string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostBySlug returns a single post by slug.
func (s *Store) GetPostBySlug(slug string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// CreatePost validates the input, derives identifier, slug and read
// time, and inserts the post dated today. A duplicate slug returns
// ErrSlugTaken.
func (s *Store) CreatePost(in PostInput) (BlogPost, error) {
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
	_, err := s.db.Exec(`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Excerpt, p.Content, p.Date, p.ReadTime, joinTags(p.Tags), boolInt(p.Featured), p.Slug)
	if isSlugConflict(err) {
		return BlogPost{}, ErrSlugTaken
	}
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// UpdatePost applies a partial update. A title change regenerates the
// slug; a content change regenerates the read time. Returns ErrNotFound
// for an unknown identifier.
func (s *Store) UpdatePost(id string, patch PostPatch) (BlogPost, error) {
	current, err := s.GetPost(id)
	if err != nil {
		return BlogPost{}, err
	}
	if patch.Title != nil {
		current.Title = *patch.Title
		current.Slug = Slugify(*patch.Title)
	}
	if patch.Excerpt != nil {
		current.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		current.Content = *patch.Content
		current.ReadTime = EstimateReadTime(*patch.Content)
	}
	if patch.Date != nil {
		current.Date = *patch.Date
	}
	if patch.Tags != nil {
		current.Tags = FilterEmpty(*patch.Tags)
	}
	if patch.Featured != nil {
		current.Featured = *patch.Featured
	}
	if strings.TrimSpace(current.Title) == "" {
		return BlogPost{}, errEmptyField("title")
	}
	if strings.TrimSpace(current.Content) == "" {
		return BlogPost{}, errEmptyField("content")
	}
	if current.Slug == "" {
		return BlogPost{}, &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}
	_, err = s.db.Exec(`UPDATE posts SET title = ?, excerpt = ?, content = ?, date = ?, read_time = ?, tags = ?, featured = ?, slug = ? WHERE id = ?`,
		current.Title, current.Excerpt, current.Content, current.Date, current.ReadTime, joinTags(current.Tags), boolInt(current.Featured), current.Slug, id)
	if isSlugConflict(err) {
		return BlogPost{}, ErrSlugTaken
	}
	if err != nil {
		return BlogPost{}, err
	}
	return current, nil
}

// DeletePost removes a post by identifier. Deleting an unknown
// identifier returns ErrNotFound, never silent success.
func (s *Store) DeletePost(id string) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Projects ---

const projectColumns = `id, title, description, image, tags, github, demo, featured, slug, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	var tags string
	var featured int
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &tags, &p.GitHub, &p.Demo, &featured, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Project{}, err
	}
	p.Tags = ParseTags(tags)
	p.Featured = featured == 1
	return p, nil
}

// ListProjects returns projects newest first by creation time.
func (s *Store) ListProjects(featuredOnly bool) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, rowid DESC`
	if featuredOnly {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE featured = 1 ORDER BY created_at DESC, rowid DESC`
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project by identifier.
func (s *Store) GetProject(id string) (Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetProjectBySlug returns a single project by slug.
func (s *Store) GetProjectBySlug(slug string) (Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug)
	return scanProject(row)
}

// CreateProject validates the input, derives identifier and slug, and
// inserts the project with creation timestamps.
func (s *Store) CreateProject(in ProjectInput) (Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Project{}, errEmptyField("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return Project{}, errEmptyField("description")
	}
	slug := Slugify(in.Title)
	if slug == "" {
		return Project{}, &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	p := Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Tags:        FilterEmpty(in.Tags),
		GitHub:      in.GitHub,
		Demo:        in.Demo,
		Featured:    in.Featured,
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.Exec(`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Image, joinTags(p.Tags), p.GitHub, p.Demo, boolInt(p.Featured), p.Slug, p.CreatedAt, p.UpdatedAt)
	if isSlugConflict(err) {
		return Project{}, ErrSlugTaken
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// UpdateProject applies a partial update; a title change regenerates
// the slug. The updated_at timestamp always advances.
func (s *Store) UpdateProject(id string, patch ProjectPatch) (Project, error) {
	current, err := s.GetProject(id)
	if err != nil {
		return Project{}, err
	}
	if patch.Title != nil {
		current.Title = *patch.Title
		current.Slug = Slugify(*patch.Title)
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Image != nil {
		current.Image = *patch.Image
	}
	if patch.Tags != nil {
		current.Tags = FilterEmpty(*patch.Tags)
	}
	if patch.GitHub != nil {
		current.GitHub = *patch.GitHub
	}
	if patch.Demo != nil {
		current.Demo = *patch.Demo
	}
	if patch.Featured != nil {
		current.Featured = *patch.Featured
	}
	if strings.TrimSpace(current.Title) == "" {
		return Project{}, errEmptyField("title")
	}
	if strings.TrimSpace(current.Description) == "" {
		return Project{}, errEmptyField("description")
	}
	if current.Slug == "" {
		return Project{}, &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}
	current.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`UPDATE projects SET title = ?, description = ?, image = ?, tags = ?, github = ?, demo = ?, featured = ?, slug = ?, updated_at = ? WHERE id = ?`,
		current.Title, current.Description, current.Image, joinTags(current.Tags), current.GitHub, current.Demo, boolInt(current.Featured), current.Slug, current.UpdatedAt, id)
	if isSlugConflict(err) {
		return Project{}, ErrSlugTaken
	}
	if err != nil {
		return Project{}, err
	}
	return current, nil
}

// DeleteProject removes a project by identifier; ErrNotFound for an
// unknown one.
func (s *Store) DeleteProject(id string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Contact messages ---

// SaveContactMessage stores a visitor message with a generated
// identifier and receipt timestamp.
func (s *Store) SaveContactMessage(name, email, message string) (ContactMessage, error) {
	m := ContactMessage{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Message:    message,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.Exec(`INSERT INTO contact_messages (id, name, email, message, received_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, m.ReceivedAt)
	if err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}

// ListContactMessages returns stored messages newest first.
func (s *Store) ListContactMessages() ([]ContactMessage, error) {
	rows, err := s.db.Query(`SELECT id, name, email, message, received_at FROM contact_messages ORDER BY received_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.ReceivedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
