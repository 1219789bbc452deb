package models

// SavedDeck is a user's bookmark of a deck. DeckID is always the canonical id.
type SavedDeck struct {
	Base
	UserID string `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_saved_user_deck"`
	DeckID string `json:"deckId" gorm:"type:char(24);not null;uniqueIndex:idx_saved_user_deck;index"`
}

func (SavedDeck) TableName() string { return "saved_decks" }
