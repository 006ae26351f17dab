package domain

// Coupon 优惠券，code 为业务主键（无唯一索引，约定唯一）
type Coupon struct {
	ID          string  `json:"_id" bson:"-"`
	Code        string  `json:"code" bson:"code"`
	Discount    float64 `json:"discount" bson:"discount"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Expired     bool    `json:"expired" bson:"expired"`
}
