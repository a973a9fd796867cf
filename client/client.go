// Package client provides a typed HTTP client for the folio content API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/folio"
)

// Client talks to a folio server. It keeps a cookie jar so an admin
// login carries over to subsequent mutating calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:3000".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("folio client: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("folio client: %d %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message, Detail: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login authenticates the admin session.
func (c *Client) Login(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, nil)
}

// Logout clears the admin session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

// ListPosts returns posts, optionally only featured ones.
func (c *Client) ListPosts(ctx context.Context, featuredOnly bool) ([]folio.BlogPost, error) {
	path := "/api/blog/posts"
	if featuredOnly {
		path += "?featured=true"
	}
	var posts []folio.BlogPost
	err := c.do(ctx, http.MethodGet, path, nil, &posts)
	return posts, err
}

// GetPost returns a single post by ID.
func (c *Client) GetPost(ctx context.Context, id string) (folio.BlogPost, error) {
	var post folio.BlogPost
	err := c.do(ctx, http.MethodGet, "/api/blog/posts/"+url.PathEscape(id), nil, &post)
	return post, err
}

// GetPostBySlug returns a single post by slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (folio.BlogPost, error) {
	var post folio.BlogPost
	err := c.do(ctx, http.MethodGet, "/api/blog/slug/"+url.PathEscape(slug), nil, &post)
	return post, err
}

// CreatePost creates a post and returns it with server-derived fields filled.
func (c *Client) CreatePost(ctx context.Context, in folio.PostInput) (folio.BlogPost, error) {
	var post folio.BlogPost
	err := c.do(ctx, http.MethodPost, "/api/blog/posts", in, &post)
	return post, err
}

// UpdatePost applies a partial update to a post.
func (c *Client) UpdatePost(ctx context.Context, id string, patch folio.PostPatch) (folio.BlogPost, error) {
	var post folio.BlogPost
	err := c.do(ctx, http.MethodPut, "/api/blog/posts/"+url.PathEscape(id), patch, &post)
	return post, err
}

// DeletePost removes a post by ID.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blog/posts/"+url.PathEscape(id), nil, nil)
}

// ListProjects returns projects, optionally only featured ones.
func (c *Client) ListProjects(ctx context.Context, featuredOnly bool) ([]folio.Project, error) {
	path := "/api/projects"
	if featuredOnly {
		path += "?featured=true"
	}
	var projects []folio.Project
	err := c.do(ctx, http.MethodGet, path, nil, &projects)
	return projects, err
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (folio.Project, error) {
	var project folio.Project
	err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &project)
	return project, err
}

// GetProjectBySlug returns a single project by slug.
func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (folio.Project, error) {
	var project folio.Project
	err := c.do(ctx, http.MethodGet, "/api/projects/slug/"+url.PathEscape(slug), nil, &project)
	return project, err
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, in folio.ProjectInput) (folio.Project, error) {
	var project folio.Project
	err := c.do(ctx, http.MethodPost, "/api/projects", in, &project)
	return project, err
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, patch folio.ProjectPatch) (folio.Project, error) {
	var project folio.Project
	err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), patch, &project)
	return project, err
}

// DeleteProject removes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

// SendContactMessage submits a visitor message.
func (c *Client) SendContactMessage(ctx context.Context, name, email, message string) error {
	return c.do(ctx, http.MethodPost, "/api/contact", map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	}, nil)
}
