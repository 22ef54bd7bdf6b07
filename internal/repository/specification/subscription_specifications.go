package specification

import (
	"time"

	"gorm.io/gorm"
)

// StatusIs filters subscriptions (or payments) by status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// OwnedByPrincipal filters by the owning principal.
type OwnedByPrincipal struct {
	PrincipalId string
}

func (s OwnedByPrincipal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("principal_id = ?", s.PrincipalId)
}

// ExpiringBetween selects subscriptions whose current period ends inside
// [Start, End). Used by the reminder dispatcher's threshold windows.
type ExpiringBetween struct {
	Start time.Time
	End   time.Time
}

func (s ExpiringBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("current_period_end >= ? AND current_period_end < ?", s.Start, s.End)
}

// ByCode filters access codes by their opaque code string.
type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code = ?", s.Code)
}

// BySlug filters channels by slug.
type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

// ActiveChannels selects channels visible on the storefront.
type ActiveChannels struct{}

func (s ActiveChannels) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
