// Package types contains common types used across the application
package types

import "time"

// Entry represents a ranked leaderboard row
type Entry struct {
	Rank      int       `json:"rank"`
	Name      string    `json:"name"`
	Accuracy  float64   `json:"accuracy"`
	Display   string    `json:"display"` // accuracy with two decimals
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// ActualsStatus reports whether ground truth is available
type ActualsStatus struct {
	Loaded bool `json:"loaded"`
	Count  int  `json:"count"`
}

// Outcome is the result of one prediction submission
type Outcome struct {
	Name     string  `json:"name"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
	Display  string  `json:"display"`
	// Updated is false when a previous best was at least as high.
	Updated bool  `json:"updated"`
	Best    Entry `json:"best"`
}
