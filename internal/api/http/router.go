package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/config"
	"github.com/minhtran24/meethub/internal/signaling"
)

func SetupRouter(
	cfg *config.Config,
	verifier *auth.Verifier,
	authController *AuthController,
	meetingController *MeetingController,
	userController *UserController,
	gateway *signaling.Gateway,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"https://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	if authController != nil {
		authGroup := api.Group("/auth")
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
	}

	if meetingController != nil {
		meetings := api.Group("/meetings", AuthRequired(verifier))
		meetings.POST("", meetingController.CreateMeeting)
		meetings.GET("", meetingController.ListMeetings)
		meetings.GET("/:meetingID", meetingController.GetMeeting)
		meetings.PATCH("/:meetingID/status", meetingController.UpdateStatus)
		meetings.GET("/room/:roomID", meetingController.GetMeetingByRoomID)
		meetings.GET("/room/:roomID/participants", meetingController.ListActiveParticipants)
	}

	if userController != nil {
		users := api.Group("/users", AuthRequired(verifier))
		users.GET("/:userID", userController.GetUser)
		users.POST("/:userID/approve", AdminRequired(), userController.ApproveUser)
	}

	api.GET("/webrtc/config", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"stun_servers": cfg.WebRTC.STUNServers})
	})

	if gateway != nil {
		router.GET("/ws", gateway.Handle)
	}

	return router
}
