package registryserver

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-dog-registry/internal/platform/auth"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// respondError writes the {errorCode, message, details} envelope for err.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	apierrors.RespondError(c, err)
}

func respondInvalid(c *gin.Context, detail string) {
	apierrors.Respond(c, apierrors.NewValidation(apierrors.CodeInvalidParameter, detail))
}

// bindJSON decodes the body; unreadable payloads answer ERR003.
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		respondInvalid(c, bindDetail(err, "request body"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, target any) bool {
	if err := c.ShouldBindQuery(target); err != nil {
		respondInvalid(c, bindDetail(err, "query"))
		return false
	}
	return true
}

func bindDetail(err error, fallback string) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fallback + ": " + numErr.Num
	}
	return fallback
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondInvalid(c, name)
		return 0, false
	}
	return id, true
}

// parsePage reads the zero-based page and size query parameters.
func parsePage(c *gin.Context, defaultSize int) (pagination.Request, bool) {
	req := pagination.Request{Page: 0, Size: defaultSize}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			respondInvalid(c, "page")
			return req, false
		}
		req.Page = page
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			respondInvalid(c, "size")
			return req, false
		}
		req.Size = size
	}
	req = req.Normalize()
	if req.Page > pagination.MaxPage(req.Size) {
		respondInvalid(c, "page")
		return req, false
	}
	return req, true
}

func caller(c *gin.Context) principal.Principal {
	return auth.PrincipalFrom(c)
}
