package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/veo1/supplier-registry/app/respond"
	"github.com/veo1/supplier-registry/models"
)

type Response struct {
	Total     int             `json:"total"`
	Suppliers []models.Record `json:"suppliers"`
}

type UpdateRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

type RecordProvider interface {
	RecordStore
	GetByID(ctx context.Context, id string) (*models.Record, error)
}

type ListingHandler struct {
	repo   RecordProvider
	logger *zap.Logger
}

func NewListingHandler(r RecordProvider, logger *zap.Logger) *ListingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	page := respond.PageFromQuery(r)

	filters := models.RecordFilters{SearchTerm: r.URL.Query().Get("q")}
	if cStr := r.URL.Query().Get("category"); cStr != "" {
		id, err := strconv.Atoi(cStr)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid category")
			return
		}
		if _, ok := models.CategoryByID(id); !ok {
			respond.Error(w, http.StatusBadRequest, "Unknown category")
			return
		}
		filters.CategoryID = &id
	}

	all, err := h.repo.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load suppliers", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to load suppliers")
		return
	}

	matched := models.FilterRecords(all, filters)
	start, end := page.Bounds(len(matched))

	respond.JSON(w, http.StatusOK, Response{
		Total:     len(matched),
		Suppliers: matched[start:end],
	})
}

func (h *ListingHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			respond.Error(w, http.StatusNotFound, "Supplier not found")
			return
		}
		h.logger.Error("failed to load supplier", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to load supplier")
		return
	}

	respond.JSON(w, http.StatusOK, rec)
}

// HandleUpdate replaces name, address and contact. Categories and photo are kept.
// It runs the same select, edit and save steps as the interactive listing.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	session := NewSession(h.repo, WithLogger(h.logger))
	if err := session.Reload(r.Context()); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Failed to load suppliers")
		return
	}
	if err := session.Select(id); err != nil {
		respond.Error(w, http.StatusNotFound, "Supplier not found")
		return
	}
	if err := applyUpdate(session, input); err != nil {
		h.logger.Error("failed to edit supplier", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to edit supplier")
		return
	}

	rec, err := session.SaveEdit(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrValidationFailed) {
			respond.Error(w, http.StatusBadRequest, "Missing name, address or contact")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "Failed to save supplier")
		return
	}

	respond.JSON(w, http.StatusOK, rec)
}

func applyUpdate(session *Session, input UpdateRequest) error {
	if err := session.BeginEdit(); err != nil {
		return err
	}
	if err := session.SetDraftName(input.Name); err != nil {
		return err
	}
	if err := session.SetDraftAddress(input.Address); err != nil {
		return err
	}
	return session.SetDraftContact(input.Contact)
}

// HandleDelete removes the supplier. Deleting an unknown id also succeeds.
func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.DeleteOne(r.Context(), id); err != nil {
		h.logger.Error("failed to delete supplier", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to delete supplier")
		return
	}

	h.logger.Info("supplier deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
