package domain

// User roles.
const (
	RoleGeneral = "general"
	RoleMember  = "member"
	RoleAdmin   = "admin"
)

// UserStatusRequested marks a user who asked for membership.
const UserStatusRequested = "Requested"

// User 用户领域模型（对应 users 集合）
// Email is the business key; ID is store-generated.
type User struct {
	ID        string             `json:"_id" bson:"-"`
	Email     string             `json:"email" bson:"email"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	ImageURL  string             `json:"image,omitempty" bson:"image,omitempty"`
	Role      string             `json:"role" bson:"role"`
	Status    string             `json:"status,omitempty" bson:"status,omitempty"`
	Agreement *AgreementSnapshot `json:"agreement,omitempty" bson:"agreement,omitempty"`
	// Timestamp is milliseconds since epoch at registration.
	Timestamp int64 `json:"timestamp" bson:"timestamp"`
}

// AgreementSnapshot is the denormalized copy of an accepted agreement kept on
// the user document. It is written only when an agreement is accepted.
type AgreementSnapshot struct {
	AcceptDate  string  `json:"acceptDate" bson:"acceptDate"`
	FloorNo     string  `json:"floorNo" bson:"floorNo"`
	BlockName   string  `json:"blockName" bson:"blockName"`
	ApartmentNo string  `json:"apartmentNo" bson:"apartmentNo"`
	Rent        float64 `json:"rent" bson:"rent"`
	Status      string  `json:"status" bson:"status"`
	Timestamp   int64   `json:"timestamp" bson:"timestamp"`
}

// UserPatch carries optional field updates; nil means unchanged.
type UserPatch struct {
	Name      *string
	ImageURL  *string
	Role      *string
	Status    *string
	Agreement *AgreementSnapshot
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.ImageURL == nil && p.Role == nil && p.Status == nil && p.Agreement == nil
}
