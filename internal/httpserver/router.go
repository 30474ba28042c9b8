package httpserver

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"cartbridge/internal/domain"
	productrepo "cartbridge/internal/repository/product"
	cartsvc "cartbridge/internal/service/cart"
	clientsvc "cartbridge/internal/service/client"
)

type CartService interface {
	Create(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, ref domain.CartRef, in cartsvc.AddItemInput) (*cartsvc.AddItemResult, error)
	Get(ctx context.Context, ref domain.CartRef) (*cartsvc.Detail, error)
	UpdateItem(ctx context.Context, ref domain.CartRef, itemID int64, qty int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, ref domain.CartRef, itemID int64) error
}

type ProductService interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type ClientService interface {
	GetOrCreate(ctx context.Context, in clientsvc.GetOrCreateInput) (*clientsvc.Session, error)
}

// Relay is the outbound chat-platform surface handlers depend on.
type Relay interface {
	Configured() bool
	SendMessage(ctx context.Context, conversationID int64, content string) error
	AddLabels(ctx context.Context, conversationID int64, labels []string) error
	UpdateStatus(ctx context.Context, conversationID int64, status string) error
	UpdateAttributes(ctx context.Context, conversationID int64, attrs map[string]interface{}) error
}

type Deps struct {
	CartSvc    CartService
	ProductSvc ProductService
	ClientSvc  ClientService
	Relay      Relay
	MCP        http.Handler
	// AgentWebhookURL is where the adapter webhook forwards incoming
	// messages; empty disables forwarding.
	AgentWebhookURL string
	HTTPClient      *http.Client
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Mcp-Session-Id")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/carts", createCartHandler(deps.CartSvc))
	router.GET("/carts/:cartID", getCartHandler(deps.CartSvc))
	router.POST("/carts/:cartID/items", addCartItemHandler(deps.CartSvc, deps.Relay, logger))
	router.PATCH("/carts/:cartID/items/:itemID", updateCartItemHandler(deps.CartSvc))
	router.DELETE("/carts/:cartID/items/:itemID", removeCartItemHandler(deps.CartSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:productID", getProductHandler(deps.ProductSvc))

	router.POST("/clients/get-or-create", getOrCreateClientHandler(deps.ClientSvc))

	router.POST("/chatwoot/request-human", requestHumanHandler(deps.Relay, logger))
	router.POST("/webhooks/chatwoot", chatwootWebhookHandler(logger))
	router.POST("/webhooks/chatwoot/adapter", chatwootAdapterHandler(deps, logger))

	if deps.MCP != nil {
		router.Any("/mcp", gin.WrapH(deps.MCP))
	}

	return router
}
