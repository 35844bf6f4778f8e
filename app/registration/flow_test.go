package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/veo1/supplier-registry/models"
	"github.com/veo1/supplier-registry/storage"
)

// --- Mock Repository ---

type MockRecordRepo struct {
	SaveErr   error
	Saved     []models.Record
	SaveCalls int
}

func (m *MockRecordRepo) SaveOne(ctx context.Context, rec models.Record) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, rec)
	return nil
}

func fixedID(id string) Option {
	return WithIDGenerator(func() string { return id })
}

// --- Tests ---

func TestFlow_Submit(t *testing.T) {
	testCases := []struct {
		name         string
		fill         func(f *Flow)
		saveErr      error
		expectedErr  error
		expectedSave int
	}{
		{
			name: "complete form is saved",
			fill: func(f *Flow) {
				f.SetName("Ana")
				f.SetAddress("Rua A")
				f.SetContact("123")
			},
			expectedSave: 1,
		},
		{
			name: "empty name blocks submission",
			fill: func(f *Flow) {
				f.SetAddress("Rua A")
				f.SetContact("123")
			},
			expectedErr:  models.ErrValidationFailed,
			expectedSave: 0,
		},
		{
			name:         "empty form blocks submission",
			fill:         func(f *Flow) {},
			expectedErr:  models.ErrValidationFailed,
			expectedSave: 0,
		},
		{
			name: "store failure is returned",
			fill: func(f *Flow) {
				f.SetName("Ana")
				f.SetAddress("Rua A")
				f.SetContact("123")
			},
			saveErr:      models.ErrStorageUnavailable,
			expectedErr:  models.ErrStorageUnavailable,
			expectedSave: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &MockRecordRepo{SaveErr: tc.saveErr}
			flow := NewFlow(repo, fixedID("id-1"))
			tc.fill(flow)

			// Act
			rec, err := flow.Submit(context.Background())

			// Assert
			assert.Len(t, repo.Saved, tc.expectedSave)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Empty(t, rec.ID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "id-1", rec.ID)
			assert.Equal(t, rec, repo.Saved[0])
		})
	}
}

func TestFlow_ValidationFailureDoesNotCallStore(t *testing.T) {
	repo := &MockRecordRepo{}
	flow := NewFlow(repo)
	flow.SetAddress("Rua A")
	flow.SetContact("123")

	_, err := flow.Submit(context.Background())

	assert.ErrorIs(t, err, models.ErrValidationFailed)
	assert.Equal(t, 0, repo.SaveCalls)
	assert.Equal(t, "Rua A", flow.Form().Address, "form is kept after a validation failure")
}

func TestFlow_SuccessResetsForm(t *testing.T) {
	flow := NewFlow(&MockRecordRepo{})
	flow.SetName("Ana")
	flow.SetAddress("Rua A")
	flow.SetContact("123")
	require.NoError(t, flow.ToggleCategory(2))
	flow.SetPhoto("file:///cache/a.png")

	_, err := flow.Submit(context.Background())
	require.NoError(t, err)

	form := flow.Form()
	assert.Empty(t, form.Name)
	assert.Empty(t, form.Address)
	assert.Empty(t, form.Contact)
	assert.Empty(t, form.Categories)
	assert.Nil(t, form.ImageURI)
}

func TestFlow_StoreFailureKeepsFormAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	flow := NewFlow(&MockRecordRepo{SaveErr: errors.New("disk full")}, WithLogger(zap.New(core)))
	flow.SetName("Ana")
	flow.SetAddress("Rua A")
	flow.SetContact("123")

	_, err := flow.Submit(context.Background())

	assert.Error(t, err)
	assert.Equal(t, "Ana", flow.Form().Name)
	assert.Equal(t, 1, logs.FilterMessage("failed to save supplier").Len())
}

func TestFlow_PrepareThenSave(t *testing.T) {
	// Arrange
	repo := &MockRecordRepo{}
	flow := NewFlow(repo, fixedID("fixed-id"))
	flow.SetName("Ana")
	flow.SetAddress("Rua A")
	flow.SetContact("123")

	// Act
	rec, err := flow.Prepare()
	require.NoError(t, err)
	before := flow.Form()
	require.NoError(t, flow.Save(context.Background(), rec))

	// Assert
	assert.Equal(t, "fixed-id", rec.ID)
	assert.Equal(t, []models.Record{rec}, repo.Saved)
	assert.Equal(t, before, flow.Form(), "Save leaves the form for the owner to reset")
	assert.Equal(t, "Ana", flow.Form().Name)
}

func TestFlow_PrepareValidates(t *testing.T) {
	repo := &MockRecordRepo{}
	flow := NewFlow(repo)
	flow.SetName("Ana")

	_, err := flow.Prepare()

	assert.ErrorIs(t, err, models.ErrValidationFailed)
	assert.Equal(t, 0, repo.SaveCalls)
}

func TestFlow_ToggleCategory(t *testing.T) {
	flow := NewFlow(&MockRecordRepo{})

	require.NoError(t, flow.ToggleCategory(2))
	require.NoError(t, flow.ToggleCategory(5))
	before := flow.Form().Categories
	require.NoError(t, flow.ToggleCategory(2))

	assert.Equal(t, []string{"Eletrônicos", "Livros"}, before.Names(), "earlier snapshot is unaffected")
	assert.Equal(t, []string{"Livros"}, flow.Form().Categories.Names())

	assert.ErrorIs(t, flow.ToggleCategory(7), models.ErrUnknownCategory)
	assert.Equal(t, []string{"Livros"}, flow.Form().Categories.Names())
}

func TestFlow_SetPhoto(t *testing.T) {
	flow := NewFlow(&MockRecordRepo{})

	flow.SetPhoto("file:///cache/a.png")
	require.NotNil(t, flow.Form().ImageURI)
	assert.Equal(t, "file:///cache/a.png", *flow.Form().ImageURI)

	flow.SetPhoto("")
	assert.Nil(t, flow.Form().ImageURI)
}

func TestFlow_DefaultIDsAreUnique(t *testing.T) {
	repo := &MockRecordRepo{}
	flow := NewFlow(repo)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		flow.SetName("Ana")
		flow.SetAddress("Rua A")
		flow.SetContact("123")
		rec, err := flow.Submit(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

// Registering "Ana" with Eletrônicos against a real store and finding it again by filter.
func TestFlow_RegisterAndFilterScenario(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := models.NewRecordsRepository(store)
	flow := NewFlow(repo)

	flow.SetName("Ana")
	flow.SetAddress("Rua A")
	flow.SetContact("123")
	require.NoError(t, flow.ToggleCategory(2))

	saved, err := flow.Submit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, models.CategorySet{{ID: 2, Name: "Eletrônicos"}}, saved.Categories)

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved, all[0])

	two, five := 2, 5
	assert.Len(t, models.FilterRecords(all, models.RecordFilters{SearchTerm: "ana"}), 1)
	assert.Len(t, models.FilterRecords(all, models.RecordFilters{CategoryID: &two}), 1)
	assert.Empty(t, models.FilterRecords(all, models.RecordFilters{CategoryID: &five}))
}

func TestFlow_EmptyNameLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := models.NewRecordsRepository(store)
	require.NoError(t, repo.SaveOne(ctx, models.Record{ID: "x", Name: "B", Address: "C", Contact: "D"}))
	before := store.Len()

	flow := NewFlow(repo)
	flow.SetName("")
	flow.SetAddress("Rua A")
	flow.SetContact("123")
	_, err := flow.Submit(ctx)

	assert.ErrorIs(t, err, models.ErrValidationFailed)
	assert.Equal(t, before, store.Len())
}
