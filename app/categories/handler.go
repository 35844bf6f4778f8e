package categories

import (
	"net/http"

	"github.com/veo1/supplier-registry/app/respond"
	"github.com/veo1/supplier-registry/models"
)

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	GetAllCategories() ([]models.Category, error)
}

// FixedCatalog serves the built-in category list.
type FixedCatalog struct{}

func (FixedCatalog) GetAllCategories() ([]models.Category, error) {
	return models.AllCategories(), nil
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories()
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
		}
	}

	respond.JSON(w, http.StatusOK, response)
}
