package model

// Budget is a per-category monthly spending limit. Period uses "YYYY-MM".
type Budget struct {
	Period      string
	AmountLimit float64
	ID          int64
	CategoryID  int64
}
