package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumehub/internal/analysis"
	"resumehub/internal/storage"
	"resumehub/internal/store"
)

// RegisterRoutes 在 /api 前缀下注册全部业务路由。
// redisClient 为 nil 时关闭登录限流；storageClient 为 nil 时不注册资产路由。
func RegisterRoutes(
	router *gin.Engine,
	st store.Store,
	engine analysis.Engine,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	storageClient *storage.Client,
	clamdAddr string,
	loginRateLimitPerHour int,
) {
	authHandler := NewAuthHandler(st, redisClient, logger, loginRateLimitPerHour)
	templateHandler := NewTemplateHandler(st)
	resumeHandler := NewResumeHandler(st)
	coverLetterHandler := NewCoverLetterHandler(st)
	analysisHandler := NewAnalysisHandler(st, engine)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		templateGroup := apiGroup.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/free", templateHandler.ListFreeTemplates)
			templateGroup.GET("/premium", templateHandler.ListPremiumTemplates)
		}

		resumeGroup := apiGroup.Group("/resumes")
		{
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/user/:userId", resumeHandler.ListResumesByUser)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
		}

		coverLetterGroup := apiGroup.Group("/cover-letters")
		{
			coverLetterGroup.POST("", coverLetterHandler.CreateCoverLetter)
			coverLetterGroup.GET("/user/:userId", coverLetterHandler.ListCoverLettersByUser)
			coverLetterGroup.GET("/:id", coverLetterHandler.GetCoverLetter)
			coverLetterGroup.PUT("/:id", coverLetterHandler.UpdateCoverLetter)
			coverLetterGroup.DELETE("/:id", coverLetterHandler.DeleteCoverLetter)
		}

		scoreGroup := apiGroup.Group("/resume-score")
		{
			scoreGroup.POST("", analysisHandler.CreateResumeScore)
			scoreGroup.GET("/:resumeId", analysisHandler.GetResumeScore)
		}

		matchGroup := apiGroup.Group("/resume-jd-match")
		{
			matchGroup.POST("", analysisHandler.CreateJdMatch)
			matchGroup.GET("/:resumeId", analysisHandler.ListJdMatches)
		}

		if storageClient != nil {
			assetHandler := NewAssetHandler(storageClient, logger, clamdAddr)
			assetGroup := apiGroup.Group("/assets")
			{
				assetGroup.POST("", assetHandler.UploadAsset)
				assetGroup.GET("/view", assetHandler.GetAssetURL)
				assetGroup.DELETE("", assetHandler.DeleteAsset)
			}
		}
	}
}
