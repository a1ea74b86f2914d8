package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file.
const (
	pageMain             = "main"
	pagePermalink        = "permalink"
	pageNewPost          = "newpost"
	pageDelete           = "delete"
	pageSuccessfulDelete = "successful_delete"
	pageComment          = "comment"
	pageSignup           = "signup-form"
	pageLogin            = "login-form"
	pageError            = "error"
	pageNotFound         = "error404"
)

var pageNames = []string{
	pageMain, pagePermalink, pageNewPost, pageDelete, pageSuccessfulDelete,
	pageComment, pageSignup, pageLogin, pageError, pageNotFound,
}

// view is the data every template receives. Fields unused by a page stay
// zero.
type view struct {
	User     *goBlog.User
	Posts    []*goBlog.Post
	Post     *goBlog.Post
	Comments []*goBlog.Comment
	PostID   int64
	Subject  string
	Content  string
	Comment  string
	Edit     bool
	Error    string
	Username string
	Email    string
	Errors   map[string]string
}

var templateFuncs = template.FuncMap{
	"nl2br": nl2br,
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"owns": func(u *goBlog.User, creator int64) bool {
		return u != nil && u.ID == creator
	},
}

// nl2br escapes s and turns line breaks into <br>.
func nl2br(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

// render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data view) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
