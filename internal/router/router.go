package router

import (
	"github.com/gin-gonic/gin"

	"docgen/internal/handler"
	"docgen/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Template *handler.TemplateHandler
	Document *handler.DocumentHandler
	Batch    *handler.BatchHandler
	Bulk     *handler.BulkHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, corsOrigins []string, maxUploadBytes int64) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	templates := v1.Group("/templates")
	templates.POST("", h.Template.Upload)
	templates.GET("", h.Template.List)
	templates.GET("/:id", h.Template.GetByID)
	templates.DELETE("/:id", h.Template.Delete)
	templates.POST("/:id/refresh-fields", h.Template.RefreshFields)
	templates.GET("/:id/sample-sheet", h.Template.SampleSheet)
	templates.POST("/:id/preview", h.Template.Preview)

	documents := v1.Group("/documents")
	documents.POST("", h.Document.Generate)
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.GetByID)
	documents.PUT("/:id", h.Document.Regenerate)
	documents.DELETE("/:id", h.Document.Delete)
	documents.GET("/:id/download", h.Document.Download)
	documents.GET("/:id/download-url", h.Document.DownloadURL)
	documents.GET("/:id/preview", h.Document.Preview)

	batches := v1.Group("/batches")
	batches.POST("", h.Batch.Create)
	batches.GET("/:id", h.Batch.GetByID)
	batches.PATCH("/:id/rows/:index", h.Batch.UpdateRow)
	batches.POST("/:id/process", h.Batch.Process)
	batches.GET("/:id/report", h.Batch.Report)
	batches.DELETE("/:id", h.Batch.Delete)

	bulkRoutes := v1.Group("/bulk")
	bulkRoutes.POST("/delete/preview", h.Bulk.PreviewDelete)
	bulkRoutes.POST("/delete", h.Bulk.Delete)
	bulkRoutes.POST("/download/preview", h.Bulk.PreviewDownload)
	bulkRoutes.POST("/download", h.Bulk.Download)

	return r
}
