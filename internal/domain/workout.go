package domain

// WorkoutRef is one entry of the read-only workout catalog: a workout key
// binding an exercise name to the body part it trains.
type WorkoutRef struct {
	WorkoutKey    int    `bson:"workoutKey" json:"workout_key"`
	WorkoutName   string `bson:"workoutName" json:"workout_name"`
	WorkoutPartID int    `bson:"workoutPartId" json:"workout_part_id"`
	WorkoutPart   string `bson:"workoutPart" json:"workout_part"`
}
