package workflow

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/common"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
)

var (
	errEmptyText = fmt.Errorf("%w: empty text", common.ErrValidation)
	errNotText   = fmt.Errorf("%w: text expected", common.ErrValidation)
	errNoPhoto   = fmt.Errorf("%w: photo expected", common.ErrValidation)
	errBadCoords = fmt.Errorf("%w: bad coordinates", common.ErrValidation)
	errBadField  = fmt.Errorf("%w: unknown field", common.ErrValidation)
	errBadName   = fmt.Errorf("%w: bad file name", common.ErrValidation)
)

// decimalNumber is plain decimal notation with an optional exponent.
// strconv.ParseFloat alone would also take hex floats such as 0x1p-2.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseLocation parses "lat, lon": exactly two comma-separated finite
// numbers with latitude in [-90, 90] and longitude in [-180, 180].
func ParseLocation(s string) (models.Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.Location{}, fmt.Errorf("%w: want \"lat, lon\", got %q", errBadCoords, s)
	}

	var vals [2]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !decimalNumber.MatchString(p) {
			return models.Location{}, fmt.Errorf("%w: %q is not a decimal number", errBadCoords, p)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return models.Location{}, fmt.Errorf("%w: %w", errBadCoords, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.Location{}, fmt.Errorf("%w: %q is not finite", errBadCoords, p)
		}
		vals[i] = v
	}

	loc := models.Location{Latitude: vals[0], Longitude: vals[1]}
	if err := loc.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("%w: %w", errBadCoords, err)
	}
	return loc, nil
}

// textValue returns the trimmed text of in or a validation error.
func textValue(in input) (string, error) {
	if in.isMedia {
		return "", errNotText
	}
	t := strings.TrimSpace(in.text)
	if t == "" {
		return "", errEmptyText
	}
	return t, nil
}

// bestPhoto picks the highest-resolution variant of a media message.
func bestPhoto(in input) (models.MediaRef, error) {
	if !in.isMedia {
		return models.MediaRef{}, errNoPhoto
	}
	ref, ok := models.Largest(in.media)
	if !ok {
		return models.MediaRef{}, errNoPhoto
	}
	return ref, nil
}
