package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestStatus type for the quest lifecycle.
type QuestStatus string

const (
	QuestNotStarted     QuestStatus = "not_started"
	QuestCompleted      QuestStatus = "completed"
	QuestDeadlinePassed QuestStatus = "deadline_passed"
)

// QuestSet is one planned set within a quest workout.
type QuestSet struct {
	SetNumber int     `bson:"setNumber" json:"set_number"`
	Weight    float64 `bson:"weight" json:"weight"`
	Reps      int     `bson:"reps" json:"reps"`
	RestTime  int     `bson:"restTime" json:"rest_time"`
}

// QuestWorkout is one workout within a quest, with its planned sets.
type QuestWorkout struct {
	WorkoutKey int        `bson:"workoutKey" json:"workout_key"`
	Sets       []QuestSet `bson:"sets" json:"sets"`
}

// Quest is a trainer-assigned workout plan for a member.
type Quest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"quest_id"`
	TrainerUID  string             `bson:"trainerUid" json:"trainer_uid"`
	MemberUID   string             `bson:"memberUid" json:"member_uid"`
	Status      QuestStatus        `bson:"status" json:"status"`
	WorkoutDate time.Time          `bson:"workoutDate" json:"workout_date"`
	Workouts    []QuestWorkout     `bson:"workouts" json:"workouts"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}
