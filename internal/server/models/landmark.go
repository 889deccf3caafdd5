// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
)

// Location is a WGS 84 point. It is stored as geography(Point,4326).
type Location struct {
	Latitude  float64
	Longitude float64
}

// Validate checks that latitude lies in [-90, 90] and longitude in [-180, 180].
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", common.ErrValidation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", common.ErrValidation, l.Longitude)
	}
	return nil
}

func (l Location) String() string {
	return fmt.Sprintf("%.6f, %.6f", l.Latitude, l.Longitude)
}

// Landmark is a point-of-interest record.
type Landmark struct {
	ID          int64
	Name        string
	Address     string
	Category    string
	Description string
	History     string
	Location    Location
	// ImageName is the file name the photo was stored under.
	ImageName string
	// Photo is reserved for an inline payload and is NULL in normal flow.
	Photo []byte
}

// LandmarkPatch describes a full-record update; nil fields keep their
// current value.
type LandmarkPatch struct {
	Name        *string
	Address     *string
	Category    *string
	Description *string
	History     *string
	Location    *Location
	ImageName   *string
}

// Apply returns cur with every specified field of p replaced.
func (p LandmarkPatch) Apply(cur Landmark) Landmark {
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Address != nil {
		cur.Address = *p.Address
	}
	if p.Category != nil {
		cur.Category = *p.Category
	}
	if p.Description != nil {
		cur.Description = *p.Description
	}
	if p.History != nil {
		cur.History = *p.History
	}
	if p.Location != nil {
		cur.Location = *p.Location
	}
	if p.ImageName != nil {
		cur.ImageName = *p.ImageName
	}
	return cur
}
