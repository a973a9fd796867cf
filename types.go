package folio

// BlogPost is the core content type served by the API and rendered on the site.
// Date is a YYYY-MM-DD string; ReadTime is a derived label such as "8 分钟".
type BlogPost struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
	Slug     string   `json:"slug"`
}

// PostInput carries the caller-supplied fields for creating a post.
// ID, slug, date and read time are derived by the store.
type PostInput struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
}

// PostPatch is a partial update. Nil fields are left untouched.
// A non-nil Title regenerates the slug; a non-nil Content regenerates
// the read time.
type PostPatch struct {
	Title    *string   `json:"title"`
	Excerpt  *string   `json:"excerpt"`
	Content  *string   `json:"content"`
	Date     *string   `json:"date"`
	Tags     *[]string `json:"tags"`
	Featured *bool     `json:"featured"`
}

// PostStore is the contract both persistence backends implement.
// The file-backed store and the SQLite store are independent; they are
// never synchronized with each other.
type PostStore interface {
	ListPosts(featuredOnly bool) ([]BlogPost, error)
	GetPost(id string) (BlogPost, error)
	GetPostBySlug(slug string) (BlogPost, error)
	CreatePost(in PostInput) (BlogPost, error)
	UpdatePost(id string, patch PostPatch) (BlogPost, error)
	DeletePost(id string) error
}

// Project is a portfolio entry. CreatedAt/UpdatedAt are RFC 3339 strings
// maintained by the SQLite store.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	GitHub      string   `json:"github,omitempty"`
	Demo        string   `json:"demo,omitempty"`
	Featured    bool     `json:"featured"`
	Slug        string   `json:"slug"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// ProjectInput carries the caller-supplied fields for creating a project.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	GitHub      string   `json:"github"`
	Demo        string   `json:"demo"`
	Featured    bool     `json:"featured"`
}

// ProjectPatch is a partial project update; nil fields are untouched.
// A non-nil Title regenerates the slug.
type ProjectPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
	GitHub      *string   `json:"github"`
	Demo        *string   `json:"demo"`
	Featured    *bool     `json:"featured"`
}

// ContactMessage is a visitor message stored by the contact endpoint.
type ContactMessage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	ReceivedAt string `json:"receivedAt"`
}
