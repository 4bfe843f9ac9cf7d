package registryserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	dogmapper "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/http/mapper"
	dogports "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

// DogAPI exposes the dogs facade; the caller's principal drives ownership checks.
type DogAPI struct {
	facade      dogports.Facade
	defaultSize int
	now         func() time.Time
}

func NewDogAPI(facade dogports.Facade, defaultSize int) DogAPI {
	return DogAPI{facade: facade, defaultSize: defaultSize, now: time.Now}
}

// Post /v1/dogs
// Register a dog without an owner
func (api *DogAPI) CreateDog(c *gin.Context) {
	var payload dogmapper.DogRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Create, api.clock()); err != nil {
		respondError(c, err)
		return
	}
	saved, err := api.facade.Create(c.Request.Context(), payload.ToCreateInput(nil))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dogmapper.FromDomain(saved))
}

// Get /v1/dogs/:id
func (api *DogAPI) GetDog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dog, err := api.facade.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromDomain(dog))
}

// Get /v1/dogs
// Admins see every dog, owners only their own
func (api *DogAPI) ListDogs(c *gin.Context) {
	page, ok := parsePage(c, api.defaultSize)
	if !ok {
		return
	}
	result, err := api.facade.List(c.Request.Context(), caller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, dogmapper.FromDomain))
}

// Get /v1/dogs/search
func (api *DogAPI) SearchDogs(c *gin.Context) {
	var query dogmapper.SearchQuery
	if !bindQuery(c, &query) {
		return
	}
	result, err := api.facade.Search(c.Request.Context(), query.ToFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromDomainList(result))
}

// Patch /v1/dogs/:id
func (api *DogAPI) PatchDog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload dogmapper.DogRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Patch, api.clock()); err != nil {
		respondError(c, err)
		return
	}
	updated, err := api.facade.Update(c.Request.Context(), caller(c), id, payload.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dogmapper.FromDomain(updated))
}

// Delete /v1/dogs/:id
func (api *DogAPI) DeleteDog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.facade.Delete(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *DogAPI) clock() time.Time {
	if api.now == nil {
		return time.Now()
	}
	return api.now()
}
