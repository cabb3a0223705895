package catalog

import (
	"time"

	"github.com/google/uuid"
)

// HealthPackage maps to the health_package table. A package bundles lab
// tests and consultations under one price.
type HealthPackage struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Price           float64   `db:"price" json:"price"`
	DiscountPrice   *float64  `db:"discount_price" json:"discount_price,omitempty"`
	TestCount       int       `db:"test_count" json:"test_count"`
	HomeCollection  bool      `db:"home_collection" json:"home_collection"`
	FastingRequired bool      `db:"fasting_required" json:"fasting_required"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// LabTest maps to the lab_test table.
type LabTest struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Category        string    `db:"category" json:"category"`
	SampleType      *string   `db:"sample_type" json:"sample_type,omitempty"`
	Price           float64   `db:"price" json:"price"`
	ReportHours     int       `db:"report_hours" json:"report_hours"`
	HomeCollection  bool      `db:"home_collection" json:"home_collection"`
	FastingRequired bool      `db:"fasting_required" json:"fasting_required"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// XRayService maps to the xray_service table. BodyPart is the imaged
// region shown in listings.
type XRayService struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BodyPart  string    `db:"body_part" json:"body_part"`
	Price     float64   `db:"price" json:"price"`
	Digital   bool      `db:"digital" json:"digital"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
