package domain

import "time"

// Agreement states.
const (
	AgreementPending  = "pending"
	AgreementAccepted = "accepted"
)

// Agreement 租赁申请（对应 agreements 集合）
type Agreement struct {
	ID          string     `json:"_id" bson:"-"`
	UserName    string     `json:"userName,omitempty" bson:"userName,omitempty"`
	UserEmail   string     `json:"userEmail" bson:"userEmail"`
	FloorNo     string     `json:"floorNo" bson:"floorNo"`
	BlockName   string     `json:"blockName" bson:"blockName"`
	ApartmentNo string     `json:"apartmentNo" bson:"apartmentNo"`
	Rent        float64    `json:"rent" bson:"rent"`
	Status      string     `json:"status" bson:"status"`
	Timestamp   int64      `json:"timestamp" bson:"timestamp"`
	AcceptDate  *time.Time `json:"acceptDate,omitempty" bson:"acceptDate,omitempty"`
}

// AcceptedAgreement is the append-only historical copy written on acceptance.
type AcceptedAgreement struct {
	ID          string    `json:"_id" bson:"-"`
	AgreementID string    `json:"agreementId" bson:"agreementId"`
	UserName    string    `json:"userName,omitempty" bson:"userName,omitempty"`
	UserEmail   string    `json:"userEmail" bson:"userEmail"`
	FloorNo     string    `json:"floorNo" bson:"floorNo"`
	BlockName   string    `json:"blockName" bson:"blockName"`
	ApartmentNo string    `json:"apartmentNo" bson:"apartmentNo"`
	Rent        float64   `json:"rent" bson:"rent"`
	Status      string    `json:"status" bson:"status"`
	Timestamp   int64     `json:"timestamp" bson:"timestamp"`
	AcceptDate  time.Time `json:"acceptDate" bson:"acceptDate"`
}

// NewAcceptedAgreement copies every agreement field and stamps acceptance.
func NewAcceptedAgreement(a *Agreement, acceptedAt time.Time) *AcceptedAgreement {
	return &AcceptedAgreement{
		AgreementID: a.ID,
		UserName:    a.UserName,
		UserEmail:   a.UserEmail,
		FloorNo:     a.FloorNo,
		BlockName:   a.BlockName,
		ApartmentNo: a.ApartmentNo,
		Rent:        a.Rent,
		Status:      AgreementAccepted,
		Timestamp:   a.Timestamp,
		AcceptDate:  acceptedAt,
	}
}

// Snapshot returns the user-embedded view of this record.
func (a *AcceptedAgreement) Snapshot() *AgreementSnapshot {
	return &AgreementSnapshot{
		AcceptDate:  a.AcceptDate.UTC().Format(time.RFC3339),
		FloorNo:     a.FloorNo,
		BlockName:   a.BlockName,
		ApartmentNo: a.ApartmentNo,
		Rent:        a.Rent,
		Status:      a.Status,
		Timestamp:   a.Timestamp,
	}
}
