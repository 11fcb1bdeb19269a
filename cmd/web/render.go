package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/format"
	"autohub.ng/autohub-web/internal/i18n"
	"autohub.ng/autohub-web/internal/observability"
)

// templateSet holds one clone of the shared templates per page plus the shared set itself,
// which is used for fragments.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

// renderer parses templates/ once, or on every request in dev mode.
type renderer struct {
	dir    string
	dev    bool
	bundle *i18n.Bundle

	mu  sync.RWMutex
	set *templateSet
}

func newRenderer(dir string, dev bool, bundle *i18n.Bundle) (*renderer, error) {
	r := &renderer{dir: dir, dev: dev, bundle: bundle}
	set, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.set = set
	return r, nil
}

func (r *renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string, args ...any) string {
			if r.bundle == nil {
				return key
			}
			return r.bundle.T(lang, key, args...)
		},
		"naira":      format.Naira,
		"nairaShort": format.NairaShort,
		"mileage":    format.Mileage,
		"number":     format.Number,
		"percent":    format.Percent,
		"date":       format.Date,
		"dec":        func(v int64) decimal.Decimal { return decimal.NewFromInt(v) },
		"add":        func(a, b int) int { return a + b },
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
	}
}

// parse loads layouts, partials and fragments into a shared set, then clones it once per
// file under pages/ so every page can define its own "content" block.
func (r *renderer) parse() (*templateSet, error) {
	var shared, pages []string
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), "pages/") {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("no templates found under %s", r.dir)
	}
	root, err := template.New("_root").Funcs(r.funcs()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	set := &templateSet{shared: root, pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		clone, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return nil, err
		}
		set.pages[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}
	return set, nil
}

func (r *renderer) current() (*templateSet, error) {
	if r.dev {
		return r.parse()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set, nil
}

// renderPage executes the base layout with the named page's content.
func (r *renderer) renderPage(w http.ResponseWriter, req *http.Request, page string, status int, data any) {
	set, err := r.current()
	if err != nil {
		r.fail(w, req, "template parse error", err)
		return
	}
	t, ok := set.pages[page]
	if !ok {
		r.fail(w, req, "unknown page", fmt.Errorf("page %q", page))
		return
	}
	r.execute(w, req, t, "base", status, data)
}

// renderFragment executes a named fragment from the shared set.
func (r *renderer) renderFragment(w http.ResponseWriter, req *http.Request, name string, status int, data any) {
	set, err := r.current()
	if err != nil {
		r.fail(w, req, "template parse error", err)
		return
	}
	r.execute(w, req, set.shared, name, status, data)
}

func (r *renderer) execute(w http.ResponseWriter, req *http.Request, t *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		r.fail(w, req, "template exec error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (r *renderer) fail(w http.ResponseWriter, req *http.Request, msg string, err error) {
	observability.FromContext(req.Context()).Error(msg, zap.Error(err))
	if r.dev {
		http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
