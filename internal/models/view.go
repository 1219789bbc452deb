package models

import "time"

// ViewWindow collapses repeated views of one deck by one user.
const ViewWindow = time.Hour

// View records that a user opened a deck.
type View struct {
	Base
	UserID string `json:"userId" gorm:"type:char(36);not null;index:idx_view_user_deck"`
	DeckID string `json:"deckId" gorm:"type:char(24);not null;index:idx_view_user_deck"`
}

func (View) TableName() string { return "views" }
