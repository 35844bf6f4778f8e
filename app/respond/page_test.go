package respond

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFromQuery(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected Page
	}{
		{name: "defaults", query: "", expected: Page{Offset: 0, Limit: 10}},
		{name: "explicit", query: "?offset=20&limit=5", expected: Page{Offset: 20, Limit: 5}},
		{name: "limit below one", query: "?limit=0", expected: Page{Limit: 1}},
		{name: "limit above max", query: "?limit=500", expected: Page{Limit: 100}},
		{name: "negative offset ignored", query: "?offset=-3", expected: Page{Limit: 10}},
		{name: "malformed values ignored", query: "?offset=a&limit=b", expected: Page{Limit: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/suppliers"+tc.query, nil)

			assert.Equal(t, tc.expected, PageFromQuery(req))
		})
	}
}

func TestPage_Bounds(t *testing.T) {
	testCases := []struct {
		name          string
		page          Page
		n             int
		expectedStart int
		expectedEnd   int
	}{
		{name: "first page", page: Page{Limit: 10}, n: 3, expectedStart: 0, expectedEnd: 3},
		{name: "middle", page: Page{Offset: 1, Limit: 1}, n: 3, expectedStart: 1, expectedEnd: 2},
		{name: "past the end", page: Page{Offset: 10, Limit: 10}, n: 3, expectedStart: 3, expectedEnd: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := tc.page.Bounds(tc.n)
			assert.Equal(t, tc.expectedStart, start)
			assert.Equal(t, tc.expectedEnd, end)
		})
	}
}
