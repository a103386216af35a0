package catalog

import (
	"time"
)

// Entry is the one normalized shape every storefront response collapses
// into. Trending, search, and detail payloads all disagree upstream; nothing
// outside this package sees those raw shapes.
type Entry struct {
	AppID            int          `json:"app_id"`
	Name             string       `json:"name"`
	HeaderImage      string       `json:"header_image"`
	CapsuleImage     string       `json:"capsule_image"`
	ShortDescription string       `json:"short_description,omitempty"`
	Genres           []string     `json:"genres,omitempty"`
	Developers       []string     `json:"developers,omitempty"`
	Publishers       []string     `json:"publishers,omitempty"`
	ReleaseDate      string       `json:"release_date,omitempty"`
	Price            *Price       `json:"price,omitempty"`
	ReviewScore      *int         `json:"review_score,omitempty"`
	Platforms        Platforms    `json:"platforms"`
	Screenshots      []string     `json:"screenshots,omitempty"`
	PlayerCount      *PlayerCount `json:"player_count,omitempty"`
	FetchedAt        time.Time    `json:"fetched_at"`
}

// Price is the normalized price block, integer cents plus the storefront's
// pre-formatted display strings.
type Price struct {
	Currency         string `json:"currency"`
	InitialCents     int    `json:"initial_cents"`
	FinalCents       int    `json:"final_cents"`
	InitialFormatted string `json:"initial_formatted,omitempty"`
	FinalFormatted   string `json:"final_formatted,omitempty"`
	DiscountPercent  int    `json:"discount_percent"`
}

type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// PlayerCount is a point-in-time snapshot, not a tracked series.
type PlayerCount struct {
	Current int `json:"current"`
}

// SearchResult is the paged shape search and genre browsing return.
// A failed upstream search yields an empty result, never an error.
type SearchResult struct {
	Games []Entry `json:"games"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
