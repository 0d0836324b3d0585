package model

import (
	"strings"

	apperrors "github.com/target/attractions-admin/internal/errors"
)

// Attraction is a point of interest as stored by the backend.
type Attraction struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	ShortDescription string   `json:"short_description"`
	LongDescription  string   `json:"long_description,omitempty"`
	CoverImage       string   `json:"cover_image"`
	Images           []string `json:"images,omitempty"`
	Canton           string   `json:"canton"`
}

// AttractionRequest is the create/edit form payload.
// Coordinates are pointers so a missing value can be told apart from zero.
type AttractionRequest struct {
	Name             string   `json:"name"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription,omitempty"`
	CoverImage       string   `json:"coverImage"`
	Images           []string `json:"images,omitempty"`
	CantonName       string   `json:"cantonName"`
}

// Validate checks required fields and coordinate ranges. Strings are trimmed in place.
func (r *AttractionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ShortDescription = strings.TrimSpace(r.ShortDescription)
	r.CoverImage = strings.TrimSpace(r.CoverImage)
	r.CantonName = strings.TrimSpace(r.CantonName)

	switch {
	case r.Name == "":
		return apperrors.ValidationField("name", "Attraction name is required")
	case r.CantonName == "":
		return apperrors.ValidationField("cantonName", "Canton is required")
	case r.Latitude == nil:
		return apperrors.ValidationField("latitude", "Latitude is required")
	case *r.Latitude < -90 || *r.Latitude > 90:
		return apperrors.ValidationField("latitude", "Latitude must be between -90 and 90")
	case r.Longitude == nil:
		return apperrors.ValidationField("longitude", "Longitude is required")
	case *r.Longitude < -180 || *r.Longitude > 180:
		return apperrors.ValidationField("longitude", "Longitude must be between -180 and 180")
	case r.ShortDescription == "":
		return apperrors.ValidationField("shortDescription", "Resume is required")
	case r.CoverImage == "":
		return apperrors.ValidationField("coverImage", "Cover image is required")
	}
	return nil
}

// ValidateAgainst validates an edit of current. Moving an attraction to another
// canton invalidates its old position, so the request must carry coordinates
// that differ from the stored ones.
func (r *AttractionRequest) ValidateAgainst(current Attraction) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.CantonName == current.Canton {
		return nil
	}
	if *r.Latitude == current.Latitude && *r.Longitude == current.Longitude {
		return apperrors.ValidationField("latitude", "Select a new position for the new canton")
	}
	return nil
}

// ToAttraction converts a validated request into the stored representation.
func (r *AttractionRequest) ToAttraction(id string) Attraction {
	a := Attraction{
		ID:               id,
		Name:             r.Name,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		CoverImage:       r.CoverImage,
		Images:           r.Images,
		Canton:           r.CantonName,
	}
	if r.Latitude != nil {
		a.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		a.Longitude = *r.Longitude
	}
	return a
}
