package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType classifies how a workout session was started.
type SessionType string

const (
	SessionQuest  SessionType = "quest"  // Working through a trainer-assigned quest
	SessionAI     SessionType = "ai"     // Generated plan, member-started
	SessionCustom SessionType = "custom" // Member's own free workout
	SessionPT     SessionType = "pt"     // Personal training, created by the trainer
)

func (t SessionType) Valid() bool {
	return t == SessionQuest || t == SessionAI || t == SessionCustom || t == SessionPT
}

// SetRecord is one performed set within a session.
type SetRecord struct {
	WorkoutKey int     `bson:"workoutKey" json:"workout_key"`
	SetNum     int     `bson:"setNum" json:"set_num"`
	Weight     float64 `bson:"weight" json:"weight"`
	Reps       int     `bson:"reps" json:"reps"`
	RestTime   int     `bson:"restTime" json:"rest_time"`
}

// Session is a single workout session for a member. PT sessions also carry
// the trainer who ran them; quest sessions reference the quest they execute.
// Performed sets are embedded rather than stored in a side collection.
type Session struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"session_id"`
	MemberUID   string              `bson:"memberUid" json:"member_uid"`
	TrainerUID  string              `bson:"trainerUid,omitempty" json:"trainer_uid,omitempty"`
	SessionType SessionType         `bson:"sessionType" json:"session_type"`
	IsPT        bool                `bson:"isPt" json:"is_pt"`
	QuestID     *primitive.ObjectID `bson:"questId,omitempty" json:"quest_id,omitempty"`
	WorkoutDate time.Time           `bson:"workoutDate" json:"workout_date"`
	Sets        []SetRecord         `bson:"sets" json:"sets"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updated_at"`
}
