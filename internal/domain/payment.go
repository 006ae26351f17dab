package domain

import "time"

// Payment 付款记录（写入后不再修改）
type Payment struct {
	ID            string         `json:"_id" bson:"-"`
	UserEmail     string         `json:"email" bson:"email"`
	Amount        float64        `json:"price" bson:"price"`
	Month         string         `json:"month,omitempty" bson:"month,omitempty"`
	TransactionID string         `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CouponCode    string         `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Date          time.Time      `json:"date" bson:"date"`
	Metadata      map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}
