package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
)

type geoPointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type listingDTO struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	Bedrooms        int         `json:"bedrooms"`
	Bathrooms       int         `json:"bathrooms"`
	Parking         bool        `json:"parking"`
	Furnished       bool        `json:"furnished"`
	Offer           bool        `json:"offer"`
	RegularPrice    float64     `json:"regularPrice"`
	DiscountedPrice *float64    `json:"discountedPrice,omitempty"`
	Location        string      `json:"location"`
	Geolocation     geoPointDTO `json:"geolocation"`
	ImageURLs       []string    `json:"imageUrls"`
	UserRef         string      `json:"userRef"`
	Timestamp       time.Time   `json:"timestamp"`
}

func toListingDTO(l *entity.Listing) listingDTO {
	dto := listingDTO{
		ID:           l.ID,
		Type:         string(l.Type),
		Name:         l.Name,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Parking:      l.Parking,
		Furnished:    l.Furnished,
		Offer:        l.Offer,
		RegularPrice: l.RegularPrice,
		Location:     l.Location,
		Geolocation:  geoPointDTO{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng},
		ImageURLs:    l.ImageURLs,
		UserRef:      l.UserRef,
		Timestamp:    l.Timestamp,
	}
	if l.Offer {
		price := l.DiscountedPrice
		dto.DiscountedPrice = &price
	}
	return dto
}

type pageDTO struct {
	Items      []listingDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

func toPageDTO(items []*entity.Listing, next repository.Cursor) pageDTO {
	dto := pageDTO{Items: make([]listingDTO, len(items)), NextCursor: string(next)}
	for i, l := range items {
		dto.Items[i] = toListingDTO(l)
	}
	return dto
}

type errorDTO struct {
	Error  string `json:"error"`
	Stage  string `json:"stage,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Error: msg})
}
