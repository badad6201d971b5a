package domain

import (
	"errors"
	"time"
)

// Kind distinguishes the two principal variants.
type Kind string

const (
	KindMember  Kind = "member"
	KindTrainer Kind = "trainer"
)

// Token "type" claim values. The wire format predates the member rename,
// so members travel as "user".
const (
	TokenTypeUser    = "user"
	TokenTypeTrainer = "trainer"
)

var ErrUnknownKind = errors.New("unknown principal kind")

// TokenType returns the token claim value for this kind.
func (k Kind) TokenType() string {
	if k == KindTrainer {
		return TokenTypeTrainer
	}
	return TokenTypeUser
}

// KindFromTokenType maps a token "type" claim back to a Kind.
func KindFromTokenType(t string) (Kind, error) {
	switch t {
	case TokenTypeUser:
		return KindMember, nil
	case TokenTypeTrainer:
		return KindTrainer, nil
	default:
		return "", ErrUnknownKind
	}
}

// Member represents a coached user. Profile fields are optional and only
// meaningful for members.
type Member struct {
	UID              string    `bson:"uid" json:"uid"`
	Email            string    `bson:"email" json:"email"` // Unique among members
	PasswordHash     string    `bson:"passwordHash" json:"-"`
	FirstName        string    `bson:"firstName" json:"first_name"`
	LastName         string    `bson:"lastName" json:"last_name"`
	Age              *int      `bson:"age,omitempty" json:"age,omitempty"`
	Height           *float64  `bson:"height,omitempty" json:"height,omitempty"`
	Weight           *float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	WorkoutDuration  *int      `bson:"workoutDuration,omitempty" json:"workout_duration,omitempty"`
	WorkoutFrequency *int      `bson:"workoutFrequency,omitempty" json:"workout_frequency,omitempty"`
	WorkoutGoal      *int      `bson:"workoutGoal,omitempty" json:"workout_goal,omitempty"`
	Role             Kind      `bson:"role" json:"role"`
	CreatedAt        time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updated_at"`
}

// Trainer represents a coaching principal.
type Trainer struct {
	UID          string    `bson:"uid" json:"uid"`
	Email        string    `bson:"email" json:"email"` // Unique among trainers
	PasswordHash string    `bson:"passwordHash" json:"-"`
	FirstName    string    `bson:"firstName" json:"first_name"`
	LastName     string    `bson:"lastName" json:"last_name"`
	Role         Kind      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}

// Principal is the authenticated caller, resolved once at the middleware
// boundary so handlers never branch on concrete member/trainer types.
type Principal struct {
	Kind      Kind   `json:"kind"`
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p *Principal) IsTrainer() bool {
	return p.Kind == KindTrainer
}

func (p *Principal) IsMember() bool {
	return p.Kind == KindMember
}

// FromMember builds the principal view of a member record.
func FromMember(m *Member) *Principal {
	return &Principal{
		Kind:      KindMember,
		UID:       m.UID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
	}
}

// FromTrainer builds the principal view of a trainer record.
func FromTrainer(t *Trainer) *Principal {
	return &Principal{
		Kind:      KindTrainer,
		UID:       t.UID,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
	}
}
