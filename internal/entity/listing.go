package entity

import "time"

type ListingType string

const (
	TypeSale ListingType = "sale"
	TypeRent ListingType = "rent"
)

func (t ListingType) Valid() bool {
	return t == TypeSale || t == TypeRent
}

type GeoPoint struct {
	Lat float64
	Lng float64
}

// Listing is a persisted real-estate listing. ID and Timestamp are assigned
// by the store on write; the client never supplies them.
type Listing struct {
	ID              string
	Type            ListingType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Offer           bool
	RegularPrice    float64
	DiscountedPrice float64 // meaningful only when Offer is true
	Location        string
	Geolocation     GeoPoint
	ImageURLs       []string // first element is the cover image
	UserRef         string
	Timestamp       time.Time
}
