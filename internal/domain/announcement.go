package domain

import "time"

type Announcement struct {
	ID          string    `json:"_id" bson:"-"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
