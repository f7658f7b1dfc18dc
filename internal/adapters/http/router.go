package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giovassz/inventario/internal/adapters/config"
	"github.com/giovassz/inventario/internal/adapters/http/controllers"
	"github.com/giovassz/inventario/internal/adapters/http/middleware"
)

type Router struct {
	healthController    *controllers.HealthController
	productController   *controllers.ProductController
	assistantController *controllers.AssistantController
	rateLimiter         middleware.RateLimiter
}

func NewRouter(
	healthController *controllers.HealthController,
	productController *controllers.ProductController,
	assistantController *controllers.AssistantController,
	rateLimiter middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:    healthController,
		productController:   productController,
		assistantController: assistantController,
		rateLimiter:         rateLimiter,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter

	apiGroup := router.Group("/api")
	{
		apiGroup.Use(middleware.LogRequest())
		apiGroup.GET("/health", r.healthController.Health)

		apiGroup.GET("/products", r.productController.ListProducts)
		apiGroup.POST("/products", r.productController.CreateProduct)
		apiGroup.DELETE("/products/:id", r.productController.DeleteProduct)

		// the assistant endpoints proxy a paid upstream, so they get
		// the tightest limits
		llmGroup := apiGroup.Group("/llm")
		llmGroup.POST("/suggest", middleware.RateLimit(rl, 30, 1*time.Minute), r.assistantController.SuggestNames)
		llmGroup.POST("/rewrite", middleware.RateLimit(rl, 20, 1*time.Minute), r.assistantController.RewriteNotes)
		llmGroup.POST("/query", middleware.RateLimit(rl, 10, 1*time.Minute), r.assistantController.QueryProducts)
	}
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	engine := gin.Default()
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
