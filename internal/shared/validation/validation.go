// Package validation collects field violations for request payloads.
package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

// Group selects which rules apply: mandatory-field rules only run for Create.
type Group int

const (
	Create Group = iota
	Patch
)

// Violation names the offending field and the error code describing it.
type Violation struct {
	Field string
	Code  apierrors.Code
}

// Violations is ordered by field declaration.
type Violations []Violation

// Err reports the first violation as a validation problem, or nil.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apierrors.NewValidation(v[0].Code, v[0].Field)
}

var validate = validator.New()

// Collector accumulates violations for one payload.
type Collector struct {
	group      Group
	violations Violations
}

func New(group Group) *Collector {
	return &Collector{group: group}
}

func (c *Collector) add(field string, code apierrors.Code) {
	c.violations = append(c.violations, Violation{Field: field, Code: code})
}

// Text checks an optional string: mandatory under Create, never blank when
// provided, and within [min, max] runes (a zero bound is ignored).
func (c *Collector) Text(field string, value *string, min, max int) *Collector {
	if value == nil {
		if c.group == Create {
			c.add(field, apierrors.CodeMandatoryField)
		}
		return c
	}
	return c.RequiredText(field, *value, min, max)
}

// RequiredText checks a string that is mandatory in every group.
func (c *Collector) RequiredText(field, value string, min, max int) *Collector {
	if strings.TrimSpace(value) == "" {
		c.add(field, apierrors.CodeMandatoryField)
		return c
	}
	n := utf8.RuneCountInString(value)
	if (max > 0 && n > max) || (min > 0 && n < min) {
		c.add(field, apierrors.CodeInvalidSize)
	}
	return c
}

// Positive checks an optional integer that must be greater than zero.
func (c *Collector) Positive(field string, value *int) *Collector {
	if value == nil {
		if c.group == Create {
			c.add(field, apierrors.CodeMandatoryField)
		}
		return c
	}
	if *value <= 0 {
		c.add(field, apierrors.CodeInvalidParameter)
	}
	return c
}

// Present checks that a non-text value was supplied under Create.
func (c *Collector) Present(field string, present bool) *Collector {
	if !present && c.group == Create {
		c.add(field, apierrors.CodeMandatoryField)
	}
	return c
}

// Email checks the address format of a non-blank value.
func (c *Collector) Email(field, value string) *Collector {
	if strings.TrimSpace(value) == "" {
		return c
	}
	if err := validate.Var(value, "required,email"); err != nil {
		c.add(field, apierrors.CodeInvalidEmail)
	}
	return c
}

// PastOrPresent rejects dates after today in now's location.
func (c *Collector) PastOrPresent(field string, value *time.Time, now time.Time) *Collector {
	if value == nil {
		return c
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, now.Location())
	if day.After(today) {
		c.add(field, apierrors.CodeFutureDateOfBirth)
	}
	return c
}

// OneOf checks a mandatory enumerated value.
func (c *Collector) OneOf(field, value string, allowed ...string) *Collector {
	if strings.TrimSpace(value) == "" {
		c.add(field, apierrors.CodeMandatoryField)
		return c
	}
	for _, candidate := range allowed {
		if value == candidate {
			return c
		}
	}
	c.add(field, apierrors.CodeInvalidParameter)
	return c
}

func (c *Collector) Violations() Violations {
	return c.violations
}

func (c *Collector) Err() error {
	return c.violations.Err()
}
