package models

import "time"

// UnassignedWalkerName label for walks without a walker
const UnassignedWalkerName = "Unassigned"

// DefaultWalkerColor used when no walk in a group carries a color
const DefaultWalkerColor = "#9CA3AF"

// WalkerCount bir günde bir walker'a düşen walk sayısı
type WalkerCount struct {
	WalkerID *int   `json:"walkerId"` // nil = unassigned
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

// WeekDay derived day bucket, never persisted.
type WeekDay struct {
	Date         time.Time     `json:"date"`
	DateString   string        `json:"dateString"`
	IsToday      bool          `json:"isToday"`
	WalkerCounts []WalkerCount `json:"walkerCounts"`
	TotalWalks   int           `json:"totalWalks"`
}

// WeekSchedule haftalık görünüm yanıtı
type WeekSchedule struct {
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Days      []WeekDay `json:"days"`
}
