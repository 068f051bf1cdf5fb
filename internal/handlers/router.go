package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/config"
	"github.com/classpoint/classroom-service/internal/models"
	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
)

type HandlerManager struct {
	userHandler         *UserHandler
	channelHandler      *ChannelHandler
	realtimeHandler     *RealtimeHandler
	assessmentHandler   *AssessmentHandler
	distributionHandler *DistributionHandler
	evaluationHandler   *EvaluationHandler
	fileHandler         *FileHandler
	authMiddleware      *AuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	tokens *utils.TokenManager,
) *HandlerManager {
	return &HandlerManager{
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		channelHandler:      NewChannelHandler(serviceManager.Channel(), logger),
		realtimeHandler:     NewRealtimeHandler(serviceManager.Realtime(), logger),
		assessmentHandler:   NewAssessmentHandler(serviceManager.Assessment(), serviceManager.Generation(), logger),
		distributionHandler: NewDistributionHandler(serviceManager.Distribution(), logger),
		evaluationHandler:   NewEvaluationHandler(serviceManager.Evaluation(), serviceManager.Grading(), serviceManager.Export(), logger),
		fileHandler:         NewFileHandler(serviceManager.File(), logger),
		authMiddleware:      NewAuthMiddleware(casdoorConfig, tokens),
		serviceManager:      serviceManager,
	}
}

func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	api := router.Group("/api")

	// Public auth routes.
	auth := api.Group("/auth")
	{
		auth.POST("/signup", hm.userHandler.Signup)
		auth.POST("/login", hm.userHandler.Login)
	}

	// Everything below requires a verified token.
	authed := api.Group("")
	authed.Use(hm.authMiddleware.Handler())
	{
		authed.GET("/auth/me", hm.userHandler.Me)
		authed.POST("/auth/ping", hm.userHandler.Ping)

		channels := authed.Group("/channels")
		{
			channels.POST("", hm.channelHandler.Create)
			channels.GET("", hm.channelHandler.List)
			channels.POST("/join", hm.channelHandler.Join)
			channels.GET("/:id", hm.channelHandler.Get)
			channels.DELETE("/:id", hm.channelHandler.Delete)
			channels.GET("/:id/stats", hm.channelHandler.Stats)
			channels.POST("/:id/leave", hm.channelHandler.Leave)

			channels.GET("/:id/members", hm.channelHandler.ListMembers)
			channels.POST("/:id/members", hm.channelHandler.AddMember)
			channels.PUT("/:id/members", hm.channelHandler.ReplaceMembers)
			channels.DELETE("/:id/members/:member_ref", hm.channelHandler.RemoveMember)
			channels.PUT("/:id/members/:member_ref/role", hm.channelHandler.UpdateMemberRole)

			channels.POST("/:id/subchannels", hm.channelHandler.CreateSubchannel)
			channels.GET("/:id/subchannels/:subchannel_id", hm.channelHandler.GetSubchannel)
			channels.DELETE("/:id/subchannels/:subchannel_id", hm.channelHandler.DeleteSubchannel)
			channels.POST("/:id/subchannels/:subchannel_id/members", hm.channelHandler.AddSubchannelMember)

			channels.POST("/:id/messages", hm.realtimeHandler.SendMessage)
			channels.GET("/:id/messages", hm.realtimeHandler.ListMessages)
			channels.GET("/:id/presence", hm.realtimeHandler.Presence)
			channels.GET("/:id/events", hm.realtimeHandler.Subscribe)

			channels.GET("/:id/files", hm.fileHandler.List)
		}

		presence := authed.Group("/presence")
		{
			presence.POST("/online", hm.realtimeHandler.Online)
			presence.POST("/offline", hm.realtimeHandler.Offline)
			presence.POST("/heartbeat", hm.realtimeHandler.Heartbeat)
		}

		assessments := authed.Group("/assessment")
		{
			assessments.POST("", hm.assessmentHandler.Create)
			assessments.GET("", hm.assessmentHandler.ListMine)
			assessments.POST("/generate", hm.assessmentHandler.Generate)
			assessments.GET("/:id", hm.assessmentHandler.Get)
			assessments.DELETE("/:id", hm.assessmentHandler.Delete)
			assessments.GET("/:id/stats", hm.evaluationHandler.Stats)
			assessments.GET("/:id/export", hm.evaluationHandler.Export)
		}

		// Family-scoped creation endpoints; the kind is pinned by the route.
		authed.POST("/quiz-manual", hm.assessmentHandler.CreateWithKind(models.KindQuizManual))
		authed.POST("/quiz-legacy", hm.assessmentHandler.CreateWithKind(models.KindQuizLegacy))
		authed.POST("/coding-manual", hm.assessmentHandler.CreateWithKind(models.KindCodingManual))
		authed.POST("/writing-manual", hm.assessmentHandler.CreateWithKind(models.KindWritingManual))

		distributions := authed.Group("/distributions")
		{
			distributions.POST("", hm.distributionHandler.Send)
			distributions.GET("", hm.distributionHandler.ListVisible)
			distributions.DELETE("/:id", hm.distributionHandler.Deactivate)
		}

		evaluation := authed.Group("/evaluation")
		{
			evaluation.POST("/assignments", hm.evaluationHandler.Assign)
			evaluation.GET("/assignments", hm.evaluationHandler.ListAssignments)
			evaluation.GET("/assignments/:id", hm.evaluationHandler.GetAssignment)
			evaluation.POST("/assignments/:id/start", hm.evaluationHandler.StartAssignment)
			evaluation.POST("/assignments/:id/submit", hm.evaluationHandler.SubmitAssignment)
			evaluation.PUT("/assignments/:id/hidden", hm.evaluationHandler.SetHidden)

			evaluation.GET("/results", hm.evaluationHandler.ListMyResults)
			evaluation.GET("/results/:id", hm.evaluationHandler.GetResult)
			evaluation.POST("/results/:id/grade", hm.evaluationHandler.GradeResult)
		}

		files := authed.Group("/files")
		{
			files.POST("", hm.fileHandler.Upload)
			files.GET("/:id", hm.fileHandler.Get)
			files.DELETE("/:id", hm.fileHandler.Delete)
			files.POST("/:id/bookmark", hm.fileHandler.ToggleBookmark)
			files.POST("/:id/comments", hm.fileHandler.AddComment)
			files.POST("/comments/:comment_id/replies", hm.fileHandler.AddReply)
		}
	}
}

func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
