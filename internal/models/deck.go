package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deck is a catalogued pitch deck. ID is the canonical document id (24 hex
// chars); LegacyID is the small integer id older links still use.
type Deck struct {
	ID          string                      `json:"_id"                  gorm:"type:char(24);primaryKey"`
	LegacyID    int                         `json:"id"                   gorm:"uniqueIndex;not null"`
	Title       string                      `json:"title"                gorm:"type:varchar(255);not null"`
	CompanyName string                      `json:"companyName"          gorm:"type:varchar(255);not null"`
	Industry    string                      `json:"industry"             gorm:"type:varchar(100);index;not null"`
	Stage       string                      `json:"stage"                gorm:"type:varchar(100);index;not null"`
	Type        string                      `json:"type"                 gorm:"type:varchar(100);index;not null"`
	FileURL     string                      `json:"fileUrl"              gorm:"type:text;not null"`
	SourceURL   *string                     `json:"sourceUrl,omitempty"  gorm:"type:text"`
	AISummary   *AISummary                  `json:"aiSummary,omitempty"  gorm:"type:text;serializer:json"`
	Highlights  datatypes.JSONSlice[string] `json:"highlights,omitempty" gorm:"not null"`
	Tags        datatypes.JSONSlice[string] `json:"tags,omitempty"       gorm:"not null"`
	Year        *int                        `json:"year,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"            gorm:"index"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Deck) TableName() string { return "decks" }

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = primitive.NewObjectID().Hex()
	}
	return nil
}

// HasSummary reports whether the deck already carries its one AI summary.
func (d *Deck) HasSummary() bool {
	return d.AISummary != nil
}

// AISummary is the structured summary produced once per deck.
type AISummary struct {
	Summary      []string `json:"summary"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	FundingStage string   `json:"fundingStage"`
}

// JSON encodes the summary for the conditional write-if-absent update.
func (s AISummary) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
