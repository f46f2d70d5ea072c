package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/controllers"
	"github.com/rcamargo/likert-server/middleware"
	"github.com/rcamargo/likert-server/reports"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	authCtrl := controllers.NewAuthController(db)
	userCtrl := controllers.NewUserController(db)
	questionCtrl := controllers.NewQuestionController(db)
	optionCtrl := controllers.NewOptionController(db)
	formCtrl := controllers.NewFormController(db)
	answerCtrl := controllers.NewAnswerController(db)
	reportCtrl := controllers.NewReportController(reports.New(db))
	exportCtrl := controllers.NewExportController(db)
	healthCtrl := controllers.NewHealthController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtrl.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtrl.Register)
			auth.POST("/login", middleware.RateLimitLogin(), authCtrl.Login)
			auth.POST("/google/login", middleware.RateLimitLogin(), authCtrl.GoogleLogin)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT(db))
		{
			protected.GET("/me", authCtrl.Me)

			forms := protected.Group("/forms")
			{
				forms.GET("", formCtrl.ListForms)
				forms.GET("/:id", formCtrl.GetFormDetail)
				forms.POST("/:id/answers", middleware.RateLimitSubmitAnswers(), answerCtrl.SubmitAnswers)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/dashboard", reportCtrl.GetDashboard)

				admin.POST("/forms", formCtrl.CreateForm)
				admin.PUT("/forms/:id", formCtrl.UpdateForm)
				admin.DELETE("/forms/:id", formCtrl.DeleteForm)
				admin.POST("/forms/:id/questions", formCtrl.AttachQuestion)
				admin.PUT("/forms/:id/questions/reorder", formCtrl.ReorderQuestions)
				admin.DELETE("/forms/:id/questions/:qid", formCtrl.DetachQuestion)
				admin.GET("/forms/:id/dashboard", reportCtrl.GetFormDashboard)
				admin.GET("/forms/:id/submissions", reportCtrl.GetSubmissions)
				admin.POST("/forms/:id/export", exportCtrl.CreateExport)

				admin.GET("/questions", questionCtrl.ListQuestions)
				admin.POST("/questions", questionCtrl.CreateQuestion)
				admin.POST("/questions/batch", questionCtrl.CreateBatchQuestions)
				admin.PUT("/questions/:id", questionCtrl.UpdateQuestion)
				admin.DELETE("/questions/:id", questionCtrl.DeleteQuestion)

				admin.GET("/answer-options", optionCtrl.ListOptions)
				admin.POST("/answer-options", optionCtrl.CreateOption)
				admin.PUT("/answer-options/:id", optionCtrl.UpdateOption)
				admin.DELETE("/answer-options/:id", optionCtrl.DeleteOption)

				admin.GET("/users", userCtrl.ListUsers)
				admin.POST("/users", userCtrl.CreateUser)
				admin.PUT("/users/:id", userCtrl.UpdateUser)
				admin.DELETE("/users/:id", userCtrl.DeleteUser)
			}

			protected.GET("/exports/:job_id", middleware.RequireAdmin(), exportCtrl.GetExport)
		}
	}
}
