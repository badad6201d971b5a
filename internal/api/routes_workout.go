package api

import (
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/userclient"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWorkoutRoutes wires the workout service: sessions, quests and the
// exercise catalog, all behind remote-resolved authentication.
func SetupWorkoutRoutes(
	router *gin.Engine,
	jwtSecret string,
	users *userclient.Client,
	sessionService service.SessionService,
	questService service.QuestService,
	workoutService service.WorkoutService,
) {
	sessionHandler := NewSessionHandler(sessionService)
	questHandler := NewQuestHandler(questService)
	workoutHandler := NewWorkoutHandler(workoutService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api")
	protected.Use(RemoteAuthMiddleware(jwtSecret, users))
	{
		protected.POST("/sessions", sessionHandler.CreateSession)
		protected.POST("/sessions/:id/save", sessionHandler.SaveSession)
		protected.GET("/sessions/:member_uid", sessionHandler.GetSessions)
		protected.GET("/session-counts/:member_uid", sessionHandler.SessionCounts)
		protected.GET("/last-session-update/:member_uid", sessionHandler.LastSessionUpdate)
		protected.GET("/workout-records/:workout_key", sessionHandler.WorkoutRecords)

		protected.POST("/quests", questHandler.CreateQuest)
		protected.GET("/quests", questHandler.ListQuests)
		protected.GET("/quests/member/:member_uid", questHandler.ListQuestsForMember)
		protected.GET("/quests/oldest-not-started", questHandler.OldestNotStarted)
		protected.DELETE("/quests/:id", questHandler.DeleteQuest)

		protected.GET("/workouts-by-part", workoutHandler.WorkoutsByPart)
		protected.GET("/workout-name/:workout_key", workoutHandler.WorkoutName)
	}
}
