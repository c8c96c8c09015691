package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "imagequery/docs"
	"imagequery/internal/handler"
	"imagequery/internal/middleware"
	"imagequery/internal/service"
)

// Options holds the router settings taken from config.
type Options struct {
	CookieName         string
	AllowedOrigins     []string
	MaxMultipartMemory int64
	Templates          *template.Template
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	formSvc service.FormService,
	pageH *handler.PageHandler,
	formH *handler.FormHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	r.SetHTMLTemplate(opts.Templates)

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks and docs
	r.GET("/healthz", healthH.Liveness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	session := middleware.Session(formSvc, opts.CookieName)

	// Page
	page := r.Group("")
	page.Use(session)
	page.GET("/", pageH.Show)
	page.POST("/", pageH.Post)
	page.GET("/asset/:id", formH.ServeAsset)

	// JSON API
	v1 := r.Group("/api/v1")
	v1.Use(session)

	form := v1.Group("/form")
	form.GET("", formH.Get)
	form.DELETE("", formH.Reset)
	form.POST("/asset", formH.UploadAsset)
	form.PUT("/prompt", formH.UpdatePrompt)
	form.PUT("/model", formH.UpdateModel)
	form.PATCH("/parameters", formH.UpdateParameters)
	form.POST("/submit", formH.Submit)

	return r
}
