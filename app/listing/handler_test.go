package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veo1/supplier-registry/models"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	return errResp["error"]
}

// --- Tests: GET /suppliers ---

func TestHandleGet(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		mockRepoSetup      func() *MockRecordRepo
		expectedStatusCode int
		expectedTotal      int
		expectedIDs        []string
		expectedError      string
	}{
		{
			name:               "Default pagination",
			url:                "/suppliers",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      3,
			expectedIDs:        []string{"1", "2", "3"},
		},
		{
			name:               "Offset and limit",
			url:                "/suppliers?offset=1&limit=1",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      3,
			expectedIDs:        []string{"2"},
		},
		{
			name:               "Limit below 1 is clamped",
			url:                "/suppliers?limit=0",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      3,
			expectedIDs:        []string{"1"},
		},
		{
			name:               "Negative offset is ignored",
			url:                "/suppliers?offset=-4",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      3,
			expectedIDs:        []string{"1", "2", "3"},
		},
		{
			name:               "Offset past the end",
			url:                "/suppliers?offset=10",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      3,
			expectedIDs:        []string{},
		},
		{
			name:               "Search term",
			url:                "/suppliers?q=RUA",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      2,
			expectedIDs:        []string{"1", "3"},
		},
		{
			name:               "Search term and category",
			url:                "/suppliers?q=rua&category=4",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			expectedTotal:      1,
			expectedIDs:        []string{"3"},
		},
		{
			name:               "Malformed category",
			url:                "/suppliers?category=books",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Invalid category",
		},
		{
			name:               "Unknown category",
			url:                "/suppliers?category=9",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Unknown category",
		},
		{
			name: "Repository error",
			url:  "/suppliers",
			mockRepoSetup: func() *MockRecordRepo {
				return &MockRecordRepo{LoadErr: models.ErrStorageUnavailable}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "Failed to load suppliers",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewListingHandler(tc.mockRepoSetup(), nil)
			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGet(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeError(t, rec))
				return
			}

			var resp Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.expectedTotal, resp.Total)
			assert.Equal(t, tc.expectedIDs, ids(resp.Suppliers))
		})
	}
}

// --- Tests: GET /suppliers/{id} ---

func TestHandleGetRecord(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		mockRepoSetup      func() *MockRecordRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Existing supplier",
			id:                 "3",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp models.Record
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Casa das Ferramentas", resp.Name)
				assert.Equal(t, []string{"Ferramentas", "Outros"}, resp.Categories.Names())
				assert.Nil(t, resp.ImageURI)
			},
		},
		{
			name:               "Unknown supplier",
			id:                 "404",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Supplier not found", decodeError(t, rec))
			},
		},
		{
			name: "Repository error",
			id:   "1",
			mockRepoSetup: func() *MockRecordRepo {
				return &MockRecordRepo{LoadErr: errors.New("connection refused")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Failed to load supplier", decodeError(t, rec))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewListingHandler(tc.mockRepoSetup(), nil)
			req := httptest.NewRequest("GET", "/suppliers/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetRecord(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, rec)
		})
	}
}

// --- Tests: PUT /suppliers/{id} ---

func TestHandleUpdate(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		requestBody        string
		mockRepoSetup      func() *MockRecordRepo
		expectedStatusCode int
		expectedError      string
		checkRepo          func(t *testing.T, repo *MockRecordRepo)
	}{
		{
			name:               "Success keeps categories",
			id:                 "1",
			requestBody:        `{"name":"Ana","address":"Rua Nova","contact":"123"}`,
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusOK,
			checkRepo: func(t *testing.T, repo *MockRecordRepo) {
				assert.Equal(t, 1, repo.SaveCalls)
				assert.Equal(t, "Rua Nova", repo.Records[0].Address)
				assert.Equal(t, []string{"Eletrônicos"}, repo.Records[0].Categories.Names())
			},
		},
		{
			name:               "Invalid JSON body",
			id:                 "1",
			requestBody:        `{"name":`,
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Invalid JSON body",
			checkRepo: func(t *testing.T, repo *MockRecordRepo) {
				assert.Equal(t, 0, repo.SaveCalls)
			},
		},
		{
			name:               "Unknown supplier",
			id:                 "404",
			requestBody:        `{"name":"A","address":"B","contact":"C"}`,
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusNotFound,
			expectedError:      "Supplier not found",
			checkRepo: func(t *testing.T, repo *MockRecordRepo) {
				assert.Equal(t, 0, repo.SaveCalls)
			},
		},
		{
			name:               "Missing contact",
			id:                 "1",
			requestBody:        `{"name":"Ana","address":"Rua A"}`,
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusBadRequest,
			expectedError:      "Missing name, address or contact",
			checkRepo: func(t *testing.T, repo *MockRecordRepo) {
				assert.Equal(t, 0, repo.SaveCalls)
				assert.Equal(t, "123", repo.Records[0].Contact)
			},
		},
		{
			name:        "Repository error on save",
			id:          "1",
			requestBody: `{"name":"Ana","address":"Rua Nova","contact":"123"}`,
			mockRepoSetup: func() *MockRecordRepo {
				repo := seededRepo()
				repo.SaveErr = models.ErrStorageUnavailable
				return repo
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedError:      "Failed to save supplier",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := tc.mockRepoSetup()
			handler := NewListingHandler(repo, nil)
			req := httptest.NewRequest("PUT", "/suppliers/"+tc.id, strings.NewReader(tc.requestBody))
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleUpdate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeError(t, rec))
			} else {
				var resp models.Record
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.id, resp.ID)
			}
			if tc.checkRepo != nil {
				tc.checkRepo(t, repo)
			}
		})
	}
}

// --- Tests: DELETE /suppliers/{id} ---

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		mockRepoSetup      func() *MockRecordRepo
		expectedStatusCode int
		expectedRemaining  []string
	}{
		{
			name:               "Existing supplier",
			id:                 "2",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusNoContent,
			expectedRemaining:  []string{"1", "3"},
		},
		{
			name:               "Unknown supplier is a no-op",
			id:                 "404",
			mockRepoSetup:      seededRepo,
			expectedStatusCode: http.StatusNoContent,
			expectedRemaining:  []string{"1", "2", "3"},
		},
		{
			name: "Repository error",
			id:   "2",
			mockRepoSetup: func() *MockRecordRepo {
				repo := seededRepo()
				repo.DeleteErr = models.ErrStorageUnavailable
				return repo
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedRemaining:  []string{"1", "2", "3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := tc.mockRepoSetup()
			handler := NewListingHandler(repo, nil)
			req := httptest.NewRequest("DELETE", "/suppliers/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleDelete(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedRemaining, ids(repo.Records))
		})
	}
}
