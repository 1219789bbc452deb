package models

const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment tracks one gateway order. Status moves created -> paid or
// created -> failed and never back.
type Payment struct {
	Base
	UserID    string `json:"userId"    gorm:"type:char(36);not null;index"`
	OrderID   string `json:"orderId"   gorm:"type:varchar(64);uniqueIndex;not null"`
	PaymentID string `json:"paymentId" gorm:"type:varchar(64)"`
	Amount    int64  `json:"amount"    gorm:"not null"`
	Currency  string `json:"currency"  gorm:"type:varchar(8);not null"`
	Status    string `json:"status"    gorm:"type:varchar(16);not null;default:'created';index"`
}

func (Payment) TableName() string { return "payments" }
