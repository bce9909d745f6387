// Package category keeps the fixed default categories and the user's custom
// ones, which persist as a single id -> name document.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// StorageKey is the key custom categories live under.
const StorageKey = "customCategories"

// All is the pseudo-category that matches every task in a filter.
const All = "all"

const customIcon = "📁"

var (
	ErrEmptyName = errors.New("category name is empty")
	ErrExists    = errors.New("category already exists")
	ErrNotCustom = errors.New("only custom categories can be deleted")
	ErrNotFound  = errors.New("category not found")
	ErrCorrupt   = errors.New("stored categories are corrupt")
)

type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Category struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Icon   string `json:"icon" yaml:"icon"`
	Custom bool   `json:"custom" yaml:"custom"`
}

// Display is the icon followed by the name.
func (c Category) Display() string {
	return c.Icon + " " + c.Name
}

var defaults = []Category{
	{ID: "work", Name: "Work", Icon: "💼"},
	{ID: "personal", Name: "Personal", Icon: "👤"},
	{ID: "shopping", Name: "Shopping", Icon: "🛒"},
	{ID: "health", Name: "Health", Icon: "🏥"},
}

// Defaults returns the built-in categories in display order.
func Defaults() []Category {
	out := make([]Category, len(defaults))
	copy(out, defaults)
	return out
}

func lookupDefault(id string) (Category, bool) {
	for _, c := range defaults {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func reserved(id string) bool {
	if id == All {
		return true
	}
	_, ok := lookupDefault(id)
	return ok
}

// Slug derives a category id from a display name. Runs of Unicode
// whitespace become a single dash.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

type Registry struct {
	kv KV
}

func NewRegistry(kv KV) *Registry {
	return &Registry{kv: kv}
}

// Custom returns the stored id -> name map. A missing document is empty.
func (r *Registry) Custom() (map[string]string, error) {
	raw, ok, err := r.kv.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	if !ok || strings.TrimSpace(raw) == "" || raw == "null" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

func (r *Registry) saveCustom(custom map[string]string) error {
	data, err := json.Marshal(custom)
	if err != nil {
		return err
	}
	return r.kv.Set(StorageKey, string(data))
}

// All lists the defaults followed by custom categories ordered by id.
func (r *Registry) All() ([]Category, error) {
	custom, err := r.Custom()
	if err != nil {
		return nil, err
	}
	out := Defaults()
	ids := make([]string, 0, len(custom))
	for id := range custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, Category{ID: id, Name: custom[id], Icon: customIcon, Custom: true})
	}
	return out, nil
}

// Add creates a custom category. The lowercased name and the derived id must
// both be free across defaults, "all" and existing custom categories.
func (r *Registry) Add(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	custom, err := r.Custom()
	if err != nil {
		return Category{}, err
	}
	id := Slug(name)
	for _, candidate := range []string{strings.ToLower(name), id} {
		if _, taken := custom[candidate]; taken || reserved(candidate) {
			return Category{}, fmt.Errorf("%w: %s", ErrExists, name)
		}
	}
	custom[id] = name
	if err := r.saveCustom(custom); err != nil {
		return Category{}, err
	}
	slog.Debug("category added", "id", id, "name", name)
	return Category{ID: id, Name: name, Icon: customIcon, Custom: true}, nil
}

// Remove deletes a custom category. Tasks filed under it are not touched here.
func (r *Registry) Remove(id string) error {
	if reserved(id) {
		return fmt.Errorf("%w: %s", ErrNotCustom, id)
	}
	custom, err := r.Custom()
	if err != nil {
		return err
	}
	if _, ok := custom[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(custom, id)
	if err := r.saveCustom(custom); err != nil {
		return err
	}
	slog.Debug("category removed", "id", id)
	return nil
}

// Lookup resolves id to a category. Unknown ids come back as a custom-looking
// category named after the id, with ok=false.
func (r *Registry) Lookup(id string) (Category, bool) {
	custom, err := r.Custom()
	if err != nil {
		slog.Error("loading custom categories", "id", id, "error", err)
	}
	if name, ok := custom[id]; ok {
		return Category{ID: id, Name: name, Icon: customIcon, Custom: true}, true
	}
	if c, ok := lookupDefault(id); ok {
		return c, true
	}
	if id == All {
		return Category{ID: All, Name: "All", Icon: "📋"}, true
	}
	return Category{ID: id, Name: id, Icon: customIcon}, false
}

func (r *Registry) Exists(id string) bool {
	_, ok := r.Lookup(id)
	return ok && id != All
}

func (r *Registry) Name(id string) string {
	c, _ := r.Lookup(id)
	return c.Name
}

func (r *Registry) Display(id string) string {
	c, _ := r.Lookup(id)
	return c.Display()
}

// Title is the heading shown above a filtered list.
func (r *Registry) Title(id string) string {
	if id == All {
		return "📋 All Tasks"
	}
	c, _ := r.Lookup(id)
	return c.Display() + " Tasks"
}
