package domain

import "time"

type Quote struct {
	Symbol    Symbol
	Price     float64
	UpdatedAt time.Time
	Source    string
}
