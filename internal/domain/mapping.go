package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MappingStatus type for the trainer-member relationship lifecycle.
type MappingStatus string

const (
	MappingPending  MappingStatus = "pending"
	MappingAccepted MappingStatus = "accepted"
)

// Valid reports whether the status is a recognized enum value.
// There is no rejected state; rejection is modeled as deletion.
func (s MappingStatus) Valid() bool {
	return s == MappingPending || s == MappingAccepted
}

// Mapping links exactly one trainer to one member. At most one mapping may
// exist per (trainer, member) pair; the mongo repository enforces this with a
// unique compound index so concurrent requests cannot produce duplicates.
type Mapping struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerUID   string             `bson:"trainerUid" json:"trainer_uid"`
	MemberUID    string             `bson:"memberUid" json:"member_uid"`
	Status       MappingStatus      `bson:"status" json:"status"`
	RequesterUID string             `bson:"requesterUid" json:"requester_uid"` // Which side initiated
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

// IsParty reports whether the given principal uid is one of the two sides.
func (m *Mapping) IsParty(uid string) bool {
	return uid == m.TrainerUID || uid == m.MemberUID
}

// CounterpartyUID returns the other side of the mapping relative to uid.
func (m *Mapping) CounterpartyUID(uid string) string {
	if uid == m.TrainerUID {
		return m.MemberUID
	}
	return m.TrainerUID
}

// MappingInfo is a mapping row joined with the counterparty's displayable
// profile fields, as returned by the listing endpoint.
type MappingInfo struct {
	MappingID    primitive.ObjectID `json:"mapping_id"`
	Counterparty Principal          `json:"counterparty"`
	Status       MappingStatus      `json:"status"`
	RequestedBy  string             `json:"requested_by"`
}
