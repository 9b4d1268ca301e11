// Package model defines the domain types shared across the pipeline.
package model

import (
	"fmt"
	"math"
)

// InvoiceRecord is a single completed sale at a register. Records arrive
// pre-filtered upstream: cancelled invoices and pure returns (net item count
// <= 0) are already excluded.
type InvoiceRecord struct {
	Store       string
	RegisterID  string
	Year        int
	DayIndex    int
	TimeBucket  float64
	ElapsedTime float64 // seconds, clamped at ingestion
	ItemCount   int
	SaleAmount  float64
}

// Validate checks the record's structural invariants.
func (r *InvoiceRecord) Validate() error {
	if r.Store == "" {
		return fmt.Errorf("store code is required")
	}
	if r.RegisterID == "" {
		return fmt.Errorf("register id is required")
	}
	if r.Year <= 0 {
		return fmt.Errorf("year must be positive, got %d", r.Year)
	}
	if r.ItemCount <= 0 {
		return fmt.Errorf("item count must be positive, got %d", r.ItemCount)
	}
	if r.ElapsedTime < 0 {
		return fmt.Errorf("elapsed time must not be negative, got %f", r.ElapsedTime)
	}
	if !validTimeBucket(r.TimeBucket) {
		return fmt.Errorf("time bucket must be on a half-hour grid, got %f", r.TimeBucket)
	}
	return nil
}

// validTimeBucket reports whether t sits on the half-hour grid (hour or
// hour + 0.5).
func validTimeBucket(t float64) bool {
	scaled := t * 2
	return scaled == math.Trunc(scaled) && t >= 0 && t < 24
}
