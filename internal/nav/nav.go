// Package nav builds the header navigation and breadcrumbs.
package nav

import (
	"path"
	"strings"
)

// Item is a top-level navigation entry.
type Item struct {
	Path     string
	LabelKey string
}

// RenderedItem is the template view of an Item.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb is a breadcrumb entry. Label is used when LabelKey is empty.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation.
var Main = []Item{
	{Path: "/cars", LabelKey: "nav.cars"},
	{Path: "/loans", LabelKey: "nav.loans"},
	{Path: "/pre-order", LabelKey: "nav.preorder"},
	{Path: "/sell-swap", LabelKey: "nav.sellswap"},
	{Path: "/contact", LabelKey: "nav.contact"},
}

// Build marks the entry matching currentPath as active.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs derives crumbs from the path. A non-empty leaf replaces the label of the
// last segment, e.g. the car title on /cars/42.
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	clean := path.Clean(currentPath)
	if clean == "/" || clean == "." {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, seg := range parts {
		href += "/" + seg
		c := Crumb{Href: href, Label: titleFromSegment(seg), Active: i == len(parts)-1}
		if i == 0 {
			c.LabelKey = labelKeyFor(href)
		}
		if c.Active && leaf != "" {
			c.LabelKey = ""
			c.Label = leaf
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func labelKeyFor(top string) string {
	for _, it := range Main {
		if it.Path == top {
			return it.LabelKey
		}
	}
	return ""
}

func titleFromSegment(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
