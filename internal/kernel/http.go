// Package kernel builds the HTTP handler: the global middleware stack,
// the route table, and the event listeners that bridge the order
// lifecycle into the admin live feed.
package kernel

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bloomcart/bloomcart/app/controllers"
	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/routes"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/pkg/event"
	"github.com/bloomcart/bloomcart/pkg/logger"
	"github.com/bloomcart/bloomcart/pkg/metrics"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/reqid"
	"github.com/bloomcart/bloomcart/pkg/router"
	"github.com/bloomcart/bloomcart/pkg/session"
	"github.com/bloomcart/bloomcart/pkg/ws"
)

// HTTPKernel owns the assembled router and the WebSocket hub.
type HTTPKernel struct {
	router *router.Router
	hub    *ws.Hub
}

// NewHTTPKernel assembles the middleware stack and the route table.
//
// Middleware order, outermost first:
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. Session            — load/create the session cookie
//  6. Identity           — session, then bearer, then remember cookie
//  7. CORS
//  8. Rate limiter
func NewHTTPKernel() (*HTTPKernel, error) {
	authService := services.NewAuthService()

	hub := ws.NewHub()
	go hub.Run()

	admin, err := controllers.NewAdminController(hub)
	if err != nil {
		return nil, err
	}

	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.ResolveIdentity(authService.LookupRole))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus endpoint — no auth, no rate limit.
	r.HandleFunc("/metrics", metrics.Handler())

	routes.Register(r, admin)

	listenOrderPlaced(hub)

	return &HTTPKernel{router: r, hub: hub}, nil
}

// listenOrderPlaced forwards each placed order into the admin feed.
func listenOrderPlaced(hub *ws.Hub) {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}

		msg, err := json.Marshal(map[string]interface{}{
			"event":     services.EventOrderPlaced,
			"order_id":  order.ID,
			"user_id":   order.UserID,
			"recipient": order.Recipient,
			"selection": order.Selection(),
		})
		if err != nil {
			logger.Error("kernel: encode order event", "error", err)
			return
		}

		select {
		case hub.Broadcast <- msg:
		default:
			// Feed is best-effort; never block order placement on it.
		}
	})
}

// Handler returns the fully assembled http.Handler.
func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the route table, for the route:list command.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}
