package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	breedmapper "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/adapters/http/mapper"
	breedports "github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

// BreedAPI wires HTTP transport with the breeds bounded context service.
type BreedAPI struct {
	service     breedports.Service
	defaultSize int
}

// NewBreedAPI creates a BreedAPI backed by the provided service.
func NewBreedAPI(service breedports.Service, defaultSize int) BreedAPI {
	return BreedAPI{service: service, defaultSize: defaultSize}
}

// Post /v1/breeds
// Register a breed
func (api *BreedAPI) CreateBreed(c *gin.Context) {
	var payload breedmapper.BreedRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Create); err != nil {
		respondError(c, err)
		return
	}
	saved, err := api.service.Create(c.Request.Context(), payload.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, breedmapper.FromDomain(saved))
}

// Get /v1/breeds/:id
func (api *BreedAPI) GetBreed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	breed, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedmapper.FromDomain(breed))
}

// Get /v1/breeds
func (api *BreedAPI) ListBreeds(c *gin.Context) {
	page, ok := parsePage(c, api.defaultSize)
	if !ok {
		return
	}
	result, err := api.service.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, breedmapper.FromDomain))
}

// Get /v1/breeds/search
// Every provided criterion must match
func (api *BreedAPI) SearchBreeds(c *gin.Context) {
	var query breedmapper.SearchQuery
	if !bindQuery(c, &query) {
		return
	}
	result, err := api.service.Search(c.Request.Context(), query.ToFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedmapper.FromDomainList(result))
}

// Patch /v1/breeds/:id
func (api *BreedAPI) PatchBreed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload breedmapper.BreedRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Patch); err != nil {
		respondError(c, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, payload.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breedmapper.FromDomain(updated))
}

// Delete /v1/breeds/:id
func (api *BreedAPI) DeleteBreed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
