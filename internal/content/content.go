// Package content serves the static informational pages (about, terms, privacy, faq) from
// markdown files with YAML front matter.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"autohub.ng/autohub-web/internal/cache"
)

// ErrNotFound is returned for unknown slugs.
var ErrNotFound = errors.New("content: page not found")

// Slugs lists the pages served under their own top-level path.
var Slugs = []string{"about", "terms", "privacy", "faq"}

// Page is one rendered content page.
type Page struct {
	Slug        string        `json:"slug"`
	Lang        string        `json:"lang"`
	Title       string        `json:"title"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	HTML        template.HTML `json:"html"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	UpdatedAt   string `yaml:"updated_at"`
}

// Library reads pages from dir/<lang>/<slug>.md, falling back to the default language.
type Library struct {
	dir      string
	fallback string
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	pages    *cache.Cache[Page]
}

// NewLibrary builds a Library. Rendered pages are kept for ttl.
func NewLibrary(dir, fallback string, ttl time.Duration) *Library {
	if strings.TrimSpace(dir) == "" {
		dir = "content"
	}
	if fallback == "" {
		fallback = "en"
	}
	return &Library{
		dir:      dir,
		fallback: fallback,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.DefinitionList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: newPolicy(),
		pages:  cache.New[Page]("content_pages", nil, ttl),
	}
}

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4")
	policy.AllowAttrs("class").OnElements("p", "span", "table")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Page returns the page slug in lang.
func (l *Library) Page(ctx context.Context, slug, lang string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	if lang == "" {
		lang = l.fallback
	}
	return l.pages.Get(ctx, lang+"/"+slug, func(context.Context) (Page, error) {
		return l.load(slug, lang)
	})
}

func (l *Library) load(slug, lang string) (Page, error) {
	candidates := []string{lang}
	if lang != l.fallback {
		candidates = append(candidates, l.fallback)
	}
	for _, candidate := range candidates {
		page, err := l.read(slug, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return page, err
	}
	return Page{}, ErrNotFound
}

func (l *Library) read(slug, lang string) (Page, error) {
	file := filepath.Join(l.dir, lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	rendered, err := l.Render(body)
	if err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}
	page := Page{
		Slug:        slug,
		Lang:        lang,
		Title:       strings.TrimSpace(front.Title),
		Summary:     strings.TrimSpace(front.Summary),
		Description: strings.TrimSpace(front.Description),
		HTML:        rendered,
		UpdatedAt:   parseDate(front.UpdatedAt),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if page.Description == "" {
		page.Description = page.Summary
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime().UTC()
		}
	}
	return page, nil
}

// Render converts markdown to sanitised HTML.
func (l *Library) Render(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := l.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return template.HTML(l.policy.SanitizeBytes(buf.Bytes())), nil
}

// Sanitize strips unsafe markup from API supplied HTML such as car descriptions.
func (l *Library) Sanitize(raw string) template.HTML {
	return template.HTML(strings.TrimSpace(l.policy.Sanitize(strings.TrimSpace(raw))))
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}
