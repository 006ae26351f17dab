package domain

// Apartment 公寓（对应 apartments 集合）
// Availability is not stored; it is derived from accepted agreements.
type Apartment struct {
	ID          string  `json:"_id" bson:"-"`
	Image       string  `json:"apartment_image,omitempty" bson:"apartment_image,omitempty"`
	FloorNo     string  `json:"floor_no" bson:"floor_no"`
	BlockName   string  `json:"block_name" bson:"block_name"`
	ApartmentNo string  `json:"apartment_no" bson:"apartment_no"`
	Rent        float64 `json:"rent" bson:"rent"`
}

// ApartmentFilter narrows paginated listings. Zero values mean no bound.
type ApartmentFilter struct {
	MinRent float64
	MaxRent float64
}
