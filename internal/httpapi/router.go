package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mcanlodge/internal/accommodation"
	"mcanlodge/internal/api"
	"mcanlodge/internal/audit"
	"mcanlodge/internal/auth"
	"mcanlodge/internal/booking"
	"mcanlodge/internal/community"
	"mcanlodge/internal/order"
	"mcanlodge/internal/payment"
	"mcanlodge/internal/product"
	"mcanlodge/internal/user"
	"mcanlodge/pkg/config"
)

type Dependencies struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Logger *slog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := user.NewRepository(deps.DB)
	authHandlers := auth.Handlers{Cfg: deps.Cfg, Users: usersRepo}

	roomsRepo := accommodation.NewRepository(deps.DB)
	roomHandlers := accommodation.Handlers{Repo: roomsRepo}

	bookingsRepo := booking.NewRepository(deps.DB)
	bookingHandlers := booking.Handlers{
		DB:       deps.DB,
		Bookings: bookingsRepo,
		Rooms:    roomsRepo,
	}

	productsRepo := product.NewRepository(deps.DB)
	productHandlers := product.Handlers{Repo: productsRepo}

	ordersRepo := order.NewRepository(deps.DB)
	orderHandlers := order.Handlers{DB: deps.DB, Orders: ordersRepo}

	communitiesRepo := community.NewRepository(deps.DB)
	communityHandlers := community.Handlers{DB: deps.DB, Communities: communitiesRepo}

	paymentsRepo := payment.NewRepository(deps.DB)
	paymentHandlers := payment.Handlers{
		Cfg:      deps.Cfg,
		DB:       deps.DB,
		Payments: paymentsRepo,
		Bookings: bookingsRepo,
		Logger:   deps.Logger,
	}

	auditHandlers := audit.Handlers{Repo: audit.NewRepository(deps.DB)}

	requireAuth := api.BearerAuth(deps.Cfg, usersRepo)

	r.Route("/auth/api", func(r chi.Router) {
		r.Post("/register", authHandlers.Register)
		r.Post("/login", authHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandlers.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Public surface
		r.Get("/accommodations", roomHandlers.List)
		r.Get("/accommodations/{id}", roomHandlers.Get)
		r.Get("/products", productHandlers.List)
		r.Get("/products/{id}", productHandlers.Get)
		r.Get("/chat-communities", communityHandlers.ListPublic)
		r.Get("/receipts/verify/{serial}", paymentHandlers.VerifyReceipt)

		// Member surface
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/bookings/create", bookingHandlers.Create)
			r.Get("/bookings/my-bookings", bookingHandlers.MyBookings)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Post("/bookings/{id}/cancel", bookingHandlers.Cancel)

			r.Post("/orders/create", orderHandlers.Create)
			r.Get("/orders/my-orders", orderHandlers.MyOrders)
			r.Get("/orders/{id}", orderHandlers.Get)
			r.Post("/orders/{id}/cancel", orderHandlers.Cancel)

			r.Post("/chat-communities", communityHandlers.Create)
			r.Get("/chat-communities/mine", communityHandlers.ListMine)
			r.Post("/chat-communities/{id}/join", communityHandlers.Join)
			r.Post("/chat-communities/{id}/leave", communityHandlers.Leave)

			r.Get("/payment-config/details", paymentHandlers.ConfigDetails)
			r.Post("/payments/submit", paymentHandlers.Submit)
			r.Get("/payments/my-payments", paymentHandlers.MyPayments)
			r.Get("/payments/{id}/receipt", paymentHandlers.Receipt)
		})

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, api.RequireAdmin)

			r.Post("/accommodations", roomHandlers.Create)

			r.Get("/bookings", bookingHandlers.List)
			r.Post("/bookings/{id}/approve", bookingHandlers.Approve)
			r.Post("/bookings/{id}/reject", bookingHandlers.Reject)
			r.Post("/bookings/{id}/complete", bookingHandlers.Complete)

			r.Get("/products/all", productHandlers.ListAll)
			r.Post("/products", productHandlers.Create)
			r.Put("/products/{id}", productHandlers.Update)

			r.Get("/orders", orderHandlers.List)
			r.Patch("/orders/{id}/status", orderHandlers.PatchStatus)
			r.Post("/orders/{id}/mark-paid", orderHandlers.MarkPaid)

			r.Get("/chat-communities/admin/pending", communityHandlers.ListPending)
			r.Post("/chat-communities/admin/{id}/approve", communityHandlers.Approve)
			r.Post("/chat-communities/admin/{id}/reject", communityHandlers.Reject)

			r.Get("/payments/admin/pending", paymentHandlers.ListPending)
			r.Post("/payments/admin/{id}/approve", paymentHandlers.Approve)
			r.Post("/payments/admin/{id}/reject", paymentHandlers.Reject)

			r.Get("/admin/audit", auditHandlers.List)
		})
	})

	return r
}
