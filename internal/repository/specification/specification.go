package specification

import "gorm.io/gorm"

// Specification applies a query predicate onto a gorm query chain.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
