package folio

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/markdown"
)

// apiError is the JSON error body every endpoint uses: a human message,
// plus the raw storage error for 500s.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// decodedSlug percent-decodes the slug path parameter so Chinese slugs
// round-trip through URLs.
func decodedSlug(c echo.Context) string {
	raw := c.Param("slug")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// --- Blog posts ---

func (a *App) handleListPosts(c echo.Context) error {
	featured := c.QueryParam("featured") == "true"
	posts, err := a.Cache.ListPosts(featured)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetPost(c echo.Context) error {
	post, err := a.Posts.GetPost(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Message: "未找到"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleGetPostBySlug(c echo.Context) error {
	post, err := a.Posts.GetPostBySlug(decodedSlug(c))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Message: "未找到"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleCreatePost(c echo.Context) error {
	var in PostInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Excerpt) == "" {
		return c.JSON(http.StatusBadRequest, apiError{Message: "标题、摘要与内容为必填"})
	}
	post, err := a.Posts.CreatePost(in)
	switch {
	case errors.Is(err, ErrSlugTaken):
		return c.JSON(http.StatusConflict, apiError{Message: "slug 已存在，请更换标题"})
	case isValidation(err):
		return c.JSON(http.StatusBadRequest, apiError{Message: "标题无法生成有效的 slug，请修改标题"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, apiError{Message: "创建失败", Error: err.Error()})
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, post)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	var patch PostPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	post, err := a.Posts.UpdatePost(c.Param("id"), patch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Message: "更新失败", Error: err.Error()})
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleDeletePost(c echo.Context) error {
	if err := a.Posts.DeletePost(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Message: "删除失败", Error: err.Error()})
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleListTags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, tags)
}

// --- Projects ---

func (a *App) handleListProjects(c echo.Context) error {
	featured := c.QueryParam("featured") == "true"
	projects, err := a.Store.ListProjects(featured)
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

func (a *App) handleGetProject(c echo.Context) error {
	project, err := a.Store.GetProject(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Message: "未找到"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (a *App) handleGetProjectBySlug(c echo.Context) error {
	project, err := a.Store.GetProjectBySlug(decodedSlug(c))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, apiError{Message: "未找到"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (a *App) handleCreateProject(c echo.Context) error {
	var in ProjectInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return c.JSON(http.StatusBadRequest, apiError{Message: "标题与描述为必填"})
	}
	project, err := a.Store.CreateProject(in)
	switch {
	case errors.Is(err, ErrSlugTaken):
		return c.JSON(http.StatusConflict, apiError{Message: "slug 已存在，请更换标题"})
	case isValidation(err):
		return c.JSON(http.StatusBadRequest, apiError{Message: "标题无法生成有效的 slug，请修改标题"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, apiError{Message: "创建失败", Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, project)
}

func (a *App) handleUpdateProject(c echo.Context) error {
	var patch ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	project, err := a.Store.UpdateProject(c.Param("id"), patch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Message: "更新失败", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, project)
}

func (a *App) handleDeleteProject(c echo.Context) error {
	if err := a.Store.DeleteProject(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Message: "删除失败", Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// --- Contact ---

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type contactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (a *App) handleContact(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, apiError{Message: "提交过于频繁，请稍后再试"})
	}
	var in contactInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Message) == "" {
		return c.JSON(http.StatusBadRequest, apiError{Message: "姓名与留言为必填"})
	}
	if !emailPattern.MatchString(in.Email) {
		return c.JSON(http.StatusBadRequest, apiError{Message: "邮箱格式无效"})
	}
	msg, err := a.Store.SaveContactMessage(in.Name, in.Email, in.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Message: "提交失败", Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

func (a *App) handleListContact(c echo.Context) error {
	msgs, err := a.Store.ListContactMessages()
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []ContactMessage{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// --- Site surface ---

// handlePostPage serves a post's rendered markdown content as HTML.
func (a *App) handlePostPage(c echo.Context) error {
	post, err := a.Cache.GetPostBySlug(decodedSlug(c))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, markdown.Render(post.Content))
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	c.Logger().Errorf("server error: %v", err)
	_ = c.JSON(http.StatusInternalServerError, apiError{Message: "服务器错误", Error: err.Error()})
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
