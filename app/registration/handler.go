package registration

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/veo1/supplier-registry/app/respond"
	"github.com/veo1/supplier-registry/models"
)

type CreateRequest struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Contact    string  `json:"contact"`
	Categories []int   `json:"categories"`
	ImageURI   *string `json:"imageURI"`
}

type RegistrationHandler struct {
	repo RecordSaver
	opts []Option
}

// NewRegistrationHandler builds a handler that runs a fresh Flow per request.
func NewRegistrationHandler(r RecordSaver, opts ...Option) *RegistrationHandler {
	return &RegistrationHandler{repo: r, opts: opts}
}

func (h *RegistrationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	categories, err := models.CategoriesFromIDs(input.Categories)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Unknown category")
		return
	}

	flow := NewFlow(h.repo, h.opts...)
	flow.SetName(input.Name)
	flow.SetAddress(input.Address)
	flow.SetContact(input.Contact)
	flow.form.Categories = categories
	if input.ImageURI != nil {
		flow.SetPhoto(*input.ImageURI)
	}

	rec, err := flow.Submit(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrValidationFailed) {
			respond.Error(w, http.StatusBadRequest, "Missing name, address or contact")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "Failed to save supplier")
		return
	}

	respond.JSON(w, http.StatusCreated, rec)
}
