package domain

import "time"

type Favorite struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"addedAt"`
}
