package main

// GET  /products          – list products (category/minPrice/maxPrice/sort/page/limit)
// GET  /products/search   – free-text product search
// GET  /products/{id}     – single product
// GET  /cart              – current cart view
// POST /cart/add          – add one unit of a product
// POST /cart/remove       – remove a line
// POST /cart/quantity     – set a line's quantity (<=0 removes)
// POST /cart/clear        – empty the cart
// POST /cart/toggle|open|close – cart panel visibility
// POST /checkout/toggle   – checkout panel visibility
// POST /checkout/order    – submit the order

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"storefront/cart"
	"storefront/catalog"
	"storefront/checkout"
	"storefront/config"
	"storefront/handler"
	"storefront/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	// --- Catalog client ---
	catalogClient := catalog.NewClient(cfg.CatalogURL,
		catalog.WithHTTPClient(httpClient),
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithRetry(cfg.RetryWindow),
	)

	// --- Cart store ---
	store := cart.NewStore(logger.Named("cart"))

	// --- Checkout flow ---
	orders := checkout.NewOrderClient(cfg.CatalogURL, httpClient)
	flow := checkout.NewFlow(orders, store,
		checkout.WithLogger(logger.Named("checkout")),
		checkout.WithSuccessDelay(cfg.SuccessDelay),
	)

	// --- Service ---
	svc := service.NewService(catalogClient, store, flow, logger.Named("service"))
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface)

	// --- Router ---
	r := mux.NewRouter()
	r.Use(handler.RequestLogger(logger.Named("http")))
	h.RegisterRoutes(r)

	// --- Server ---
	logger.Info("storefront running",
		zap.String("addr", cfg.ListenAddr),
		zap.String("catalog", cfg.CatalogURL),
	)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
