package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes wires the user service: accounts, login and the
// trainer-member mapping engine.
func SetupUserRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	accountService service.AccountService,
	mappingService service.MappingService,
) {
	authHandler := NewAuthHandler(authService)
	accountHandler := NewAccountHandler(accountService)
	mappingHandler := NewMappingHandler(mappingService)

	authMiddleware := AuthMiddleware(jwtSecret, authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.POST("/login", authHandler.Login)
	router.POST("/users/", authHandler.RegisterMember)
	router.POST("/trainers/", authHandler.RegisterTrainer)

	// Principal lookups
	router.GET("/users/byid/:uid", accountHandler.GetMemberByUID)
	router.GET("/users/byemail/:email", accountHandler.GetMemberByEmail)
	router.GET("/trainers/byid/:uid", accountHandler.GetTrainerByUID)
	router.GET("/trainers/byemail/:email", accountHandler.GetTrainerByEmail)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/users/me/", KindMiddleware(domain.KindMember), accountHandler.GetMe)
		protected.PATCH("/users/me", KindMiddleware(domain.KindMember), accountHandler.UpdateMember)
		protected.DELETE("/users/me/", KindMiddleware(domain.KindMember), accountHandler.DeleteMe)

		protected.GET("/trainers/me/", KindMiddleware(domain.KindTrainer), accountHandler.GetMe)
		protected.PATCH("/trainers/me", KindMiddleware(domain.KindTrainer), accountHandler.UpdateTrainer)
		protected.DELETE("/trainers/me/", KindMiddleware(domain.KindTrainer), accountHandler.DeleteMe)

		// --- Mapping engine ---
		protected.POST("/trainer-user-mapping/request", mappingHandler.RequestMapping)
		protected.PUT("/trainer-user-mapping/:id/status", mappingHandler.UpdateMappingStatus)
		protected.GET("/my-mappings/", mappingHandler.ListMyMappings)
		protected.DELETE("/trainer-user-mapping/:other_uid", mappingHandler.RemoveMapping)
		protected.GET("/check-trainer-user-mapping/:trainer_uid/:member_uid", mappingHandler.CheckMapping)

		protected.GET("/trainer/connected-users/:member_uid", KindMiddleware(domain.KindTrainer), mappingHandler.ConnectedMember)
	}
}
