package models

import (
	"encoding/json"
	"errors"
	"slices"
)

// ErrUnknownCategory is returned when an id is not part of the fixed category list.
var ErrUnknownCategory = errors.New("unknown category")

// Category is one of the fixed supplier tags.
// It is embedded by value into each record and never stored on its own.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: 1, Name: "Alimentos"},
	{ID: 2, Name: "Eletrônicos"},
	{ID: 3, Name: "Roupas"},
	{ID: 4, Name: "Ferramentas"},
	{ID: 5, Name: "Livros"},
	{ID: 6, Name: "Outros"},
}

// AllCategories returns a copy of the fixed category list in id order.
func AllCategories() []Category {
	return slices.Clone(categories)
}

// CategoryByID looks up a category of the fixed list.
func CategoryByID(id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategorySet is the set of categories attached to a record.
// Methods never modify the receiver; Toggle returns a new set.
type CategorySet []Category

// Contains reports whether the set holds the category with the given id.
func (s CategorySet) Contains(id int) bool {
	return slices.ContainsFunc(s, func(c Category) bool { return c.ID == id })
}

// Toggle adds the category if absent and removes it if present.
func (s CategorySet) Toggle(c Category) CategorySet {
	if s.Contains(c.ID) {
		return slices.DeleteFunc(slices.Clone(s), func(existing Category) bool { return existing.ID == c.ID })
	}
	out := make(CategorySet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, c)
}

// ToggleID toggles the fixed category with the given id.
func (s CategorySet) ToggleID(id int) (CategorySet, error) {
	c, ok := CategoryByID(id)
	if !ok {
		return s, ErrUnknownCategory
	}
	return s.Toggle(c), nil
}

// Known reports whether every member matches an entry of the fixed list, id and name,
// and no id repeats.
func (s CategorySet) Known() bool {
	seen := make(map[int]bool, len(s))
	for _, c := range s {
		known, ok := CategoryByID(c.ID)
		if !ok || known.Name != c.Name || seen[c.ID] {
			return false
		}
		seen[c.ID] = true
	}
	return true
}

func (s CategorySet) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

func (s CategorySet) Clone() CategorySet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// MarshalJSON always writes an array; stored values never carry a null category list.
func (s CategorySet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Category(s))
}

// CategoriesFromIDs resolves ids against the fixed list, ignoring repeats.
func CategoriesFromIDs(ids []int) (CategorySet, error) {
	set := CategorySet{}
	for _, id := range ids {
		c, ok := CategoryByID(id)
		if !ok {
			return nil, ErrUnknownCategory
		}
		if !set.Contains(id) {
			set = append(set, c)
		}
	}
	return set, nil
}
