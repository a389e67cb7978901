package domain

import "errors"

var (
	// ErrPlaceNotFound signals a missing place.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrInvalidPlaceType signals an unknown place type on a strictly validated parameter.
	ErrInvalidPlaceType = errors.New("invalid place type")
	// ErrInvalidSortMode signals an unknown sort mode.
	ErrInvalidSortMode = errors.New("invalid sort mode")
	// ErrMissingQuery signals an absent required text query.
	ErrMissingQuery = errors.New("query parameter is required")
	// ErrMissingGeoPoint signals a distance sort or radius filter without a query point.
	ErrMissingGeoPoint = errors.New("geo point is required")
	// ErrInvalidCoordinates signals latitude/longitude outside valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidPriceLevel signals a price level outside the known range.
	ErrInvalidPriceLevel = errors.New("invalid price level")
	// ErrInvalidTransition signals an illegal moderation state transition.
	ErrInvalidTransition = errors.New("invalid moderation transition")
)
