package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/mock_order_service.go -package=mocks . OrderService

// OrderService is what the gateway needs from the order service, local or remote.
type OrderService interface {
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrders(ctx context.Context) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, o *models.Order) (*models.Order, error)
	RequestOrderCancellation(ctx context.Context, id, note string) (*models.Order, error)
	ApproveOrderCancellation(ctx context.Context, id string) (*models.Order, error)
	RejectOrderCancellation(ctx context.Context, id string) (*models.Order, error)
	GetCancelRequests(ctx context.Context) ([]*models.Order, error)
	GetApprovedCancellations(ctx context.Context) ([]*models.Order, error)
	GetOrdersByVendorID(ctx context.Context, vendorID string) ([]*models.Order, error)
	GetOrdersByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error)
	GetLastOrder(ctx context.Context) (*models.Order, error)
}

type Gateway struct {
	config *config.Config
	orders OrderService
	logger *zap.Logger
	router *gin.Engine
}

type cancellationBody struct {
	Note string `json:"note"`
}

func NewGateway(cfg *config.Config, logger *zap.Logger, orders OrderService) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config: cfg,
		orders: orders,
		logger: logger,
		router: router,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", g.createOrder)
			orders.GET("", g.listOrders)
			orders.GET("/last", g.getLastOrder)
			orders.GET("/cancel-requests", g.listCancelRequests)
			orders.GET("/cancellations/approved", g.listApprovedCancellations)
			orders.GET("/vendor/:vendorId", g.listVendorOrders)
			orders.GET("/customer/:customerId", g.listCustomerOrders)
			orders.GET("/:id", g.getOrder)
			orders.PUT("/:id", g.updateOrder)
			orders.PATCH("/:id/cancel", g.requestCancellation)
			orders.PATCH("/:id/cancel/approve", g.approveCancellation)
			orders.PATCH("/:id/cancel/reject", g.rejectCancellation)
		}
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Handler exposes the router, mostly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Gateway.Host, g.config.Gateway.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

func (g *Gateway) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := g.config.Gateway.RequestTimeout
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := g.requestContext(c)
	defer cancel()

	o, err := g.orders.CreateOrder(ctx, &req)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (g *Gateway) listOrders(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondList(c)(g.orders.GetOrders(ctx))
}

func (g *Gateway) getOrder(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.GetOrderByID(ctx, c.Param("id")))
}

func (g *Gateway) updateOrder(c *gin.Context) {
	var req models.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.UpdateOrder(ctx, c.Param("id"), &req))
}

func (g *Gateway) requestCancellation(c *gin.Context) {
	var req cancellationBody
	// the note is optional, so is the body
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.RequestOrderCancellation(ctx, c.Param("id"), req.Note))
}

func (g *Gateway) approveCancellation(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.ApproveOrderCancellation(ctx, c.Param("id")))
}

func (g *Gateway) rejectCancellation(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.RejectOrderCancellation(ctx, c.Param("id")))
}

func (g *Gateway) listCancelRequests(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondList(c)(g.orders.GetCancelRequests(ctx))
}

func (g *Gateway) listApprovedCancellations(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondList(c)(g.orders.GetApprovedCancellations(ctx))
}

func (g *Gateway) listVendorOrders(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondList(c)(g.orders.GetOrdersByVendorID(ctx, c.Param("vendorId")))
}

func (g *Gateway) listCustomerOrders(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondList(c)(g.orders.GetOrdersByCustomerID(ctx, c.Param("customerId")))
}

func (g *Gateway) getLastOrder(c *gin.Context) {
	ctx, cancel := g.requestContext(c)
	defer cancel()
	g.respondOne(c)(g.orders.GetLastOrder(ctx))
}

func (g *Gateway) respondOne(c *gin.Context) func(*models.Order, error) {
	return func(o *models.Order, err error) {
		if err != nil {
			g.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func (g *Gateway) respondList(c *gin.Context) func([]*models.Order, error) {
	return func(orders []*models.Order, err error) {
		if err != nil {
			g.fail(c, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

func (g *Gateway) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error("HTTP request", append(fields, zap.String("error", c.Errors.String()))...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}
