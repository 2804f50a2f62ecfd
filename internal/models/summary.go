package models

import "time"

// JobFilter carries the optional attributes of the job search form.
type JobFilter struct {
	PropertyType string `json:"propertyType"`
	PropertySize string `json:"propertySize"`
	Bedrooms     string `json:"bedrooms"`
	County       string `json:"county"`
	NearestTown  string `json:"nearestTown"`
}

// WorkSummary is the flattened jobs-and-quotes row the admin table shows.
type WorkSummary struct {
	Id                 string     `db:"id" json:"id"`
	Kind               string     `db:"kind" json:"kind"`
	Status             WorkStatus `db:"status" json:"status"`
	County             string     `db:"county" json:"county"`
	BuildingType       string     `db:"building_type" json:"buildingType"`
	PropertySize       string     `db:"property_size" json:"propertySize"`
	Bedrooms           string     `db:"bedrooms" json:"bedrooms"`
	HeatPumpInstalled  string     `db:"heat_pump_installed" json:"heatPumpInstalled"`
	BerPurpose         string     `db:"ber_purpose" json:"berPurpose"`
	AdditionalFeatures string     `db:"additional_features" json:"additionalFeatures"`
	PreferredDate      string     `db:"preferred_date" json:"preferredDate"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
}

type AdminStats struct {
	TotalAccessors   int `json:"totalAccessors"`
	TotalClients     int `json:"totalClients"`
	TotalPendingJobs int `json:"totalPendingJobs"`
}
