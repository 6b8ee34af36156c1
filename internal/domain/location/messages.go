package location

import "github.com/FACorreiaa/roofing-site/internal/types"

type ListLocationsRequest struct{}

type ListLocationsResponse struct {
	Locations []types.LocationData `json:"locations"`
}

type GetLocationRequest struct {
	Slug string `json:"slug"`
}

type GetLocationResponse struct {
	Location types.LocationData `json:"location"`
	URL      string             `json:"url"`
}

type ListServicesRequest struct{}

type ListServicesResponse struct {
	Services []types.Service `json:"services"`
}
