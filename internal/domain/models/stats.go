package models

import "time"

type StatsTotals struct {
	Photos          int `json:"photos"`
	Galleries       int `json:"galleries"`
	PublicGalleries int `json:"public_galleries"`
	Collections     int `json:"collections"`
	FeaturedPhotos  int `json:"featured_photos"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	Totals          StatsTotals  `json:"totals"`
	PhotosLastNDays []DailyCount `json:"photos_last_n_days"`
	GeneratedAt     time.Time    `json:"generated_at"`
	Error           string       `json:"error,omitempty"`
}
