package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	conversationHandler "github.com/ridelink/backend/internal/handler/conversation"
	dealHandler "github.com/ridelink/backend/internal/handler/deal"
	listingHandler "github.com/ridelink/backend/internal/handler/listing"
	negotiationHandler "github.com/ridelink/backend/internal/handler/negotiation"
	safezoneHandler "github.com/ridelink/backend/internal/handler/safezone"
	middlewarePkg "github.com/ridelink/backend/internal/middleware"
	listingModel "github.com/ridelink/backend/internal/model/listing"
	safezoneModel "github.com/ridelink/backend/internal/model/safezone"
	dealService "github.com/ridelink/backend/internal/service/deal"
	"github.com/ridelink/backend/internal/service/messaging"
	negotiationService "github.com/ridelink/backend/internal/service/negotiation"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	listings listingModel.Store,
	zones safezoneModel.Store,
	messages *messaging.Service,
	deals *dealService.Service,
	negotiations *negotiationService.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		listingHandler.New(listings).RegisterRoutes(api)
		safezoneHandler.New(zones).RegisterRoutes(api)
		conversationHandler.New(messages).RegisterRoutes(api)
		dealHandler.New(deals).RegisterRoutes(api)
		negotiationHandler.New(negotiations, listings, zones).RegisterRoutes(api)
	})

	return r
}
