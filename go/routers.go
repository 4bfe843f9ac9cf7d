package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-dog-registry/internal/platform/auth"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Access is the role the caller must hold.
	Access auth.Access
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// Guard turns a route's access level into middleware.
type Guard interface {
	Require(access auth.Access) gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, guard Guard) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, guard)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, guard Guard) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if guard != nil {
			handlers = append([]gin.HandlerFunc{guard.Require(route.Access)}, handlers...)
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// Default handler for not yet implemented routes
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the BreedAPI part of the API
	BreedAPI BreedAPI
	// Routes for the DogAPI part of the API
	DogAPI DogAPI
	// Routes for the OwnerAPI part of the API
	OwnerAPI OwnerAPI
	// Routes for the HealthAPI part of the API
	HealthAPI HealthAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"CreateBreed", http.MethodPost, "/v1/breeds", auth.Admin, handleFunctions.BreedAPI.CreateBreed},
		{"ListBreeds", http.MethodGet, "/v1/breeds", auth.Admin, handleFunctions.BreedAPI.ListBreeds},
		{"SearchBreeds", http.MethodGet, "/v1/breeds/search", auth.Admin, handleFunctions.BreedAPI.SearchBreeds},
		{"GetBreed", http.MethodGet, "/v1/breeds/:id", auth.Admin, handleFunctions.BreedAPI.GetBreed},
		{"PatchBreed", http.MethodPatch, "/v1/breeds/:id", auth.Admin, handleFunctions.BreedAPI.PatchBreed},
		{"DeleteBreed", http.MethodDelete, "/v1/breeds/:id", auth.Admin, handleFunctions.BreedAPI.DeleteBreed},

		{"CreateDog", http.MethodPost, "/v1/dogs", auth.Admin, handleFunctions.DogAPI.CreateDog},
		{"ListDogs", http.MethodGet, "/v1/dogs", auth.Authenticated, handleFunctions.DogAPI.ListDogs},
		{"SearchDogs", http.MethodGet, "/v1/dogs/search", auth.Admin, handleFunctions.DogAPI.SearchDogs},
		{"GetDog", http.MethodGet, "/v1/dogs/:id", auth.Authenticated, handleFunctions.DogAPI.GetDog},
		{"PatchDog", http.MethodPatch, "/v1/dogs/:id", auth.Authenticated, handleFunctions.DogAPI.PatchDog},
		{"DeleteDog", http.MethodDelete, "/v1/dogs/:id", auth.Authenticated, handleFunctions.DogAPI.DeleteDog},

		{"CreateOwner", http.MethodPost, "/v1/owners", auth.Public, handleFunctions.OwnerAPI.CreateOwner},
		{"ListOwners", http.MethodGet, "/v1/owners", auth.Admin, handleFunctions.OwnerAPI.ListOwners},
		{"SearchOwners", http.MethodGet, "/v1/owners/search", auth.Admin, handleFunctions.OwnerAPI.SearchOwners},
		{"UpdateRoles", http.MethodPatch, "/v1/owners/roles", auth.Admin, handleFunctions.OwnerAPI.UpdateRoles},
		{"GetOwner", http.MethodGet, "/v1/owners/:id", auth.Authenticated, handleFunctions.OwnerAPI.GetOwner},
		{"PatchOwner", http.MethodPatch, "/v1/owners/:id", auth.Authenticated, handleFunctions.OwnerAPI.PatchOwner},
		{"DeleteOwner", http.MethodDelete, "/v1/owners/:id", auth.Authenticated, handleFunctions.OwnerAPI.DeleteOwner},
		{"AddDog", http.MethodPost, "/v1/owners/:id/dogs", auth.Authenticated, handleFunctions.OwnerAPI.AddDog},

		{"Health", http.MethodGet, "/health", auth.Public, handleFunctions.HealthAPI.Health},
	}
}
