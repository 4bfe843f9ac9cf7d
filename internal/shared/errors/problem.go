// Package errors defines the API error codes, the typed Problem error used
// across layers, and the {errorCode, message, details} response envelope.
package errors

import (
	"fmt"
	"net/http"
)

// Code identifies a failure class in the response envelope.
type Code string

const (
	CodeInternal           Code = "ERR000"
	CodeInvalidSize        Code = "ERR001"
	CodeMandatoryField     Code = "ERR002"
	CodeInvalidParameter   Code = "ERR003"
	CodeNotFound           Code = "ERR004"
	CodeAlreadyExists      Code = "ERR005"
	CodeFutureDateOfBirth  Code = "ERR006"
	CodeRegistrationFailed Code = "ERR007"
	CodeInvalidEmail       Code = "ERR008"
	CodePermissionDenied   Code = "ERR009"
	CodeDeletionFailed     Code = "ERR010"
)

var messages = map[Code]string{
	CodeInternal:           "Internal server error",
	CodeInvalidSize:        "Invalid size",
	CodeMandatoryField:     "This field is mandatory and can't be empty or null",
	CodeInvalidParameter:   "Invalid request parameter",
	CodeNotFound:           "Resource can not be found",
	CodeAlreadyExists:      "Resource already exists",
	CodeFutureDateOfBirth:  "Date of birth should not be in the future",
	CodeRegistrationFailed: "Registration failed",
	CodeInvalidEmail:       "Email format is invalid",
	CodePermissionDenied:   "Permission denied. Action not allowed.",
	CodeDeletionFailed:     "User deletion failed",
}

// Message returns the fixed human-readable message for the code.
func (c Code) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return messages[CodeInternal]
}

// Kind groups codes into the failure taxonomy handled by callers.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindAlreadyExists      Kind = "already_exists"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindRegistrationFailed Kind = "registration_failed"
	KindOperationFailed    Kind = "operation_failed"
	KindInternal           Kind = "internal"
)

// Problem is the typed error carried from services to the HTTP responder.
// Two problems match under errors.Is when they share a Kind.
type Problem struct {
	Kind   Kind
	Code   Code
	Status int
	Detail string
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	ErrorCode Code   `json:"errorCode"`
	Message   string `json:"message"`
	Details   string `json:"details"`
}

// Error implements the error interface.
func (p Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Code.Message(), p.Detail)
	}
	return p.Code.Message()
}

// Is reports whether target is a Problem of the same kind.
func (p Problem) Is(target error) bool {
	t, ok := target.(Problem)
	if !ok {
		return false
	}
	return t.Kind == p.Kind
}

// WithDetail returns a copy with the given detail message.
func (p Problem) WithDetail(detail string) Problem {
	p.Detail = detail
	return p
}

// WithStatus returns a copy answering with the given HTTP status.
func (p Problem) WithStatus(status int) Problem {
	if status > 0 {
		p.Status = status
	}
	return p
}

// Response renders the envelope for the problem.
func (p Problem) Response() ErrorResponse {
	return ErrorResponse{ErrorCode: p.Code, Message: p.Code.Message(), Details: p.Detail}
}

var (
	// ErrValidation matches every request validation failure whatever its code.
	ErrValidation = Problem{Kind: KindValidation, Code: CodeInvalidParameter, Status: http.StatusBadRequest}

	ErrNotFound = Problem{Kind: KindNotFound, Code: CodeNotFound, Status: http.StatusNotFound}

	ErrAlreadyExists = Problem{Kind: KindAlreadyExists, Code: CodeAlreadyExists, Status: http.StatusBadRequest}

	// ErrUnauthorized is answered when no valid bearer token accompanies a protected request.
	ErrUnauthorized = Problem{Kind: KindUnauthorized, Code: CodePermissionDenied, Status: http.StatusUnauthorized}

	ErrForbidden = Problem{Kind: KindForbidden, Code: CodePermissionDenied, Status: http.StatusForbidden}

	// ErrRegistrationFailed keeps the identity provider status when one was returned.
	ErrRegistrationFailed = Problem{Kind: KindRegistrationFailed, Code: CodeRegistrationFailed, Status: http.StatusInternalServerError}

	ErrOperationFailed = Problem{Kind: KindOperationFailed, Code: CodeDeletionFailed, Status: http.StatusInternalServerError}

	ErrInternal = Problem{Kind: KindInternal, Code: CodeInternal, Status: http.StatusInternalServerError}
)

// NewValidation reports a field-level violation; details carry the field name.
func NewValidation(code Code, field string) Problem {
	p := ErrValidation
	p.Code = code
	p.Detail = field
	return p
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string, identifier any) Problem {
	return ErrNotFound.WithDetail(fmt.Sprintf("%s with id [%v] not found", resource, identifier))
}

// NewAlreadyExists reports a uniqueness violation on a natural key.
func NewAlreadyExists(resource string, key string) Problem {
	return ErrAlreadyExists.WithDetail(fmt.Sprintf("%s [%s] already exists", resource, key))
}

func NewForbidden(detail string) Problem {
	return ErrForbidden.WithDetail(detail)
}

// NewRegistrationFailed keeps status when the identity provider answered, 500 otherwise.
func NewRegistrationFailed(status int, detail string) Problem {
	return ErrRegistrationFailed.WithStatus(status).WithDetail(detail)
}

func NewOperationFailed(detail string) Problem {
	return ErrOperationFailed.WithDetail(detail)
}
