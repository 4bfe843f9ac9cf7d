// Package specification composes optional equality predicates into a single
// conjunctive query. The same specification filters GORM queries and
// in-memory collections.
package specification

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Predicate is one optional equality condition on an entity attribute.
// An inactive predicate contributes nothing to the conjunction.
type Predicate[T any] struct {
	Column string
	Join   string
	Value  any
	Active bool
	match  func(T) bool
}

// Equal matches column = *value when value is present.
func Equal[T any, V comparable](column string, value *V, get func(T) V) Predicate[T] {
	if value == nil {
		return Predicate[T]{Column: column}
	}
	want := *value
	return Predicate[T]{
		Column: column,
		Value:  want,
		Active: true,
		match:  func(entity T) bool { return get(entity) == want },
	}
}

// EqualText matches column = value when value is not blank.
func EqualText[T any](column, value string, get func(T) string) Predicate[T] {
	if strings.TrimSpace(value) == "" {
		return Predicate[T]{Column: column}
	}
	return Equal(column, &value, get)
}

// JoinEqual is Equal on an attribute reached through join.
func JoinEqual[T any, V comparable](join, column string, value *V, get func(T) V) Predicate[T] {
	p := Equal(column, value, get)
	p.Join = join
	return p
}

// JoinEqualText is EqualText on an attribute reached through join.
func JoinEqualText[T any](join, column, value string, get func(T) string) Predicate[T] {
	p := EqualText(column, value, get)
	p.Join = join
	return p
}

// Specification is the conjunction of its active predicates.
type Specification[T any] struct {
	predicates []Predicate[T]
}

// And builds a specification, dropping inactive predicates.
func And[T any](predicates ...Predicate[T]) Specification[T] {
	return Specification[T]{}.And(predicates...)
}

// And extends the conjunction.
func (s Specification[T]) And(predicates ...Predicate[T]) Specification[T] {
	out := Specification[T]{predicates: append([]Predicate[T](nil), s.predicates...)}
	for _, p := range predicates {
		if p.Active {
			out.predicates = append(out.predicates, p)
		}
	}
	return out
}

// Predicates returns the active predicates in insertion order.
func (s Specification[T]) Predicates() []Predicate[T] {
	return append([]Predicate[T](nil), s.predicates...)
}

// IsEmpty reports whether the specification matches everything.
func (s Specification[T]) IsEmpty() bool {
	return len(s.predicates) == 0
}

// Matches evaluates the conjunction against an in-memory entity.
func (s Specification[T]) Matches(entity T) bool {
	for _, p := range s.predicates {
		if p.match != nil && !p.match(entity) {
			return false
		}
	}
	return true
}

// Apply adds each distinct join once and one WHERE clause per predicate.
func (s Specification[T]) Apply(db *gorm.DB) *gorm.DB {
	joined := map[string]struct{}{}
	for _, p := range s.predicates {
		if p.Join != "" {
			if _, ok := joined[p.Join]; !ok {
				db = db.Joins(p.Join)
				joined[p.Join] = struct{}{}
			}
		}
		db = db.Where(clause.Eq{Column: clause.Column{Name: p.Column}, Value: p.Value})
	}
	return db
}

// Filter returns the entities matching the specification, keeping order.
func Filter[T any](entities []T, spec Specification[T]) []T {
	out := make([]T, 0, len(entities))
	for _, entity := range entities {
		if spec.Matches(entity) {
			out = append(out, entity)
		}
	}
	return out
}
