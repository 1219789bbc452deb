package models

// FreeSummaryLimit is the number of summaries a non-pro user may generate.
const FreeSummaryLimit = 3

// User is an identity-provider account mirrored locally. Created on the first
// authenticated request; only the usage counter and pro flag change afterwards.
type User struct {
	Base
	ClerkID       string `json:"clerkId"       gorm:"type:varchar(191);uniqueIndex;not null"`
	Email         string `json:"email"         gorm:"type:varchar(320)"`
	UsedSummaries int    `json:"usedSummaries" gorm:"not null;default:0"`
	IsPro         bool   `json:"isPro"         gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }

// CanSummarize reports whether the entitlement rule allows one more generation.
func (u *User) CanSummarize() bool {
	return u.IsPro || u.UsedSummaries < FreeSummaryLimit
}
