package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus defines the status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one record per attempted course purchase. Once the status reaches
// a terminal state it is never changed; records are only removed when the
// owning course is deleted.
type Payment struct {
	gorm.Model
	UserID   uint          `gorm:"not null;index" json:"userId"`
	CourseID uint          `gorm:"not null;index" json:"courseId"`
	Amount   float64       `gorm:"not null" json:"amount"`
	Status   PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	TransactionRef   string     `gorm:"type:varchar(100);uniqueIndex" json:"transactionRef"`
	PaymentGateway   string     `gorm:"type:varchar(50)" json:"paymentGateway"` // razorpay, phonepe, etc.
	PaymentOrderID   string     `gorm:"type:varchar(100)" json:"paymentOrderId"`
	GatewayPaymentID string     `gorm:"type:varchar(100);index" json:"gatewayPaymentId"`
	PaymentMethod    string     `gorm:"type:varchar(50)" json:"paymentMethod"` // UPI, card, netbanking
	PaidAt           *time.Time `json:"paidAt"`

	IsDeleted bool `gorm:"default:false" json:"isDeleted"`
}
