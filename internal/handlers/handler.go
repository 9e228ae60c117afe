package handlers

import (
	"net/http"
	"sync/atomic"
	"time"

	"controlling_led/internal/broadcast"
	"controlling_led/internal/logger"
	"controlling_led/internal/registry"
	"controlling_led/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Defaults applied to zero Options fields.
const (
	defaultMaxBodyBytes    = 1 << 12 // 4 KB
	defaultMaxMessageBytes = 1 << 12 // 4 KB
	defaultWriteWait       = 10 * time.Second
	defaultPongWait        = 60 * time.Second
)

// Options tunes request limits and WebSocket timing.
type Options struct {
	MaxBodyBytes    int64
	MaxMessageBytes int64
	WriteWait       time.Duration
	PongWait        time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = defaultMaxMessageBytes
	}
	if o.WriteWait <= 0 {
		o.WriteWait = defaultWriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = defaultPongWait
	}
	return o
}

// Handler wires HTTP and WebSocket transports to services and logging.
type Handler struct {
	services   *service.Service
	clients    *registry.Registry
	dispatcher *broadcast.Dispatcher
	log        *logger.Logger
	opts       Options

	nextClientID atomic.Int64
}

// NewHandler constructs a new handler. clients is the shared session registry;
// a fresh one is created when nil.
func NewHandler(services *service.Service, clients *registry.Registry, log *logger.Logger, opts Options) *Handler {
	log = logger.OrNop(log)
	if clients == nil {
		clients = registry.New(log)
	}
	return &Handler{
		services:   services,
		clients:    clients,
		dispatcher: broadcast.NewDispatcher(clients, log),
		log:        log,
		opts:       opts.withDefaults(),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Control page
	router.GET("/", h.indexPage)
	router.GET("/index.html", h.indexPage)
	router.GET("/websocket.js", h.websocketScript)

	// LED control, same port for both transports
	router.POST("/led", h.postLed)
	router.GET("/wsled", h.wsLed)

	h.registerAPIRoutes(router)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/led", h.getLed)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
