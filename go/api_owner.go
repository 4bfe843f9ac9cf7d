package registryserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	dogmapper "github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/adapters/http/mapper"
	ownermapper "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/adapters/http/mapper"
	ownerports "github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/validation"
)

// OwnerAPI exposes the owners facade: self registration, profiles, roles and dogs.
type OwnerAPI struct {
	facade      ownerports.Facade
	defaultSize int
	now         func() time.Time
}

func NewOwnerAPI(facade ownerports.Facade, defaultSize int) OwnerAPI {
	return OwnerAPI{facade: facade, defaultSize: defaultSize, now: time.Now}
}

// Post /v1/owners
// Register an owner and its identity
func (api *OwnerAPI) CreateOwner(c *gin.Context) {
	var payload ownermapper.CreateOwnerRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(c, err)
		return
	}
	saved, err := api.facade.CreateOwner(c.Request.Context(), payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ownermapper.FromDomain(saved))
}

// Get /v1/owners/:id
func (api *OwnerAPI) GetOwner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	owner, err := api.facade.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ownermapper.FromDomain(owner))
}

// Get /v1/owners
func (api *OwnerAPI) ListOwners(c *gin.Context) {
	page, ok := parsePage(c, api.defaultSize)
	if !ok {
		return
	}
	result, err := api.facade.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, ownermapper.FromDomain))
}

// Get /v1/owners/search
func (api *OwnerAPI) SearchOwners(c *gin.Context) {
	var query ownermapper.SearchQuery
	if !bindQuery(c, &query) {
		return
	}
	result, err := api.facade.Search(c.Request.Context(), query.ToFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ownermapper.FromDomainList(result))
}

// Patch /v1/owners/:id
func (api *OwnerAPI) PatchOwner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload ownermapper.PatchOwnerRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Patch); err != nil {
		respondError(c, err)
		return
	}
	updated, err := api.facade.Update(c.Request.Context(), caller(c), id, payload.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ownermapper.FromDomain(updated))
}

// Delete /v1/owners/:id
// Removes the owner, its dogs and its identity
func (api *OwnerAPI) DeleteOwner(c *gin.Context) {
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

// Patch /v1/owners/roles
// Grant or revoke a realm role
func (api *OwnerAPI) UpdateRoles(c *gin.Context) {
	var payload ownermapper.RoleRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := api.facade.UpdateRoles(c.Request.Context(), payload.ToRoleChange()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/owners/:id/dogs
func (api *OwnerAPI) AddDog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload dogmapper.DogRequest
	if !bindJSON(c, &payload) {
		return
	}
	if err := payload.Validate(validation.Create, api.clock()); err != nil {
		respondError(c, err)
		return
	}
	saved, err := api.facade.AddDog(c.Request.Context(), caller(c), id, payload.ToCreateInput(&id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dogmapper.FromDomain(saved))
}

func (api *OwnerAPI) clock() time.Time {
	if api.now == nil {
		return time.Now()
	}
	return api.now()
}
