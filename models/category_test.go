package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCategories(t *testing.T) {
	all := AllCategories()
	require.Len(t, all, 6)
	for i, c := range all {
		assert.Equal(t, i+1, c.ID)
	}
	assert.Equal(t, "Eletrônicos", all[1].Name)

	// Callers get a copy.
	all[0].Name = "changed"
	assert.Equal(t, "Alimentos", AllCategories()[0].Name)
}

func TestCategoryByID(t *testing.T) {
	c, ok := CategoryByID(5)
	assert.True(t, ok)
	assert.Equal(t, Category{ID: 5, Name: "Livros"}, c)

	_, ok = CategoryByID(7)
	assert.False(t, ok)
	_, ok = CategoryByID(0)
	assert.False(t, ok)
}

func TestCategorySet_Toggle(t *testing.T) {
	eletronicos, _ := CategoryByID(2)
	livros, _ := CategoryByID(5)

	empty := CategorySet{}
	one := empty.Toggle(eletronicos)
	two := one.Toggle(livros)
	back := two.Toggle(eletronicos)

	assert.Empty(t, empty, "original set must not change")
	assert.Equal(t, CategorySet{eletronicos}, one)
	assert.Equal(t, CategorySet{eletronicos, livros}, two)
	assert.Equal(t, CategorySet{livros}, back)
	assert.Equal(t, CategorySet{eletronicos, livros}, two, "toggle must return a new set")
}

func TestCategorySet_ToggleID(t *testing.T) {
	set, err := CategorySet(nil).ToggleID(3)
	require.NoError(t, err)
	assert.True(t, set.Contains(3))

	same, err := set.ToggleID(42)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, set, same)
}

func TestCategorySet_Known(t *testing.T) {
	testCases := []struct {
		name     string
		set      CategorySet
		expected bool
	}{
		{"empty", CategorySet{}, true},
		{"fixed entries", CategorySet{{ID: 1, Name: "Alimentos"}, {ID: 6, Name: "Outros"}}, true},
		{"unknown id", CategorySet{{ID: 9, Name: "Alimentos"}}, false},
		{"name mismatch", CategorySet{{ID: 1, Name: "Food"}}, false},
		{"duplicate", CategorySet{{ID: 1, Name: "Alimentos"}, {ID: 1, Name: "Alimentos"}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.set.Known())
		})
	}
}

func TestCategoriesFromIDs(t *testing.T) {
	set, err := CategoriesFromIDs([]int{2, 4, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Eletrônicos", "Ferramentas"}, set.Names())

	_, err = CategoriesFromIDs([]int{1, 99})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	set, err = CategoriesFromIDs(nil)
	require.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestCategorySet_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CategorySet(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(CategorySet{{ID: 3, Name: "Roupas"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":3,"name":"Roupas"}]`, string(data))
}
