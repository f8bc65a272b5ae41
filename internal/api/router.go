package api

import (
	"net/http"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/metrics"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the router serves.
type Services struct {
	Auth        *service.AuthService
	Groups      *service.GroupService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
}

// NewRouter creates the HTTP router with all routes and middleware. Everything
// under /v1 except registration and login requires a Bearer token issued by
// jwtManager.
func NewRouter(svcs Services, jwtManager *auth.JWTManager, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Heartbeat("/ping"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(svcs.Auth))
		r.Post("/auth/login", loginHandler(svcs.Auth))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/me", meHandler(svcs.Auth))

			r.Post("/groups", createGroupHandler(svcs.Groups))
			r.Get("/groups", listGroupsHandler(svcs.Groups))

			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Get("/", getGroupHandler(svcs.Groups))
				r.Post("/members", addMemberHandler(svcs.Groups))

				r.Post("/expenses", createExpenseHandler(svcs.Expenses))
				r.Get("/expenses", listExpensesHandler(svcs.Expenses))
				r.Get("/expenses/{expenseID}", getExpenseHandler(svcs.Expenses))

				r.Post("/settlements", createSettlementHandler(svcs.Settlements))
				r.Get("/settlements", listSettlementsHandler(svcs.Settlements))
				r.Get("/settlements/suggestions", settleUpHandler(svcs.Groups))
				r.Delete("/settlements/{settlementID}", deleteSettlementHandler(svcs.Settlements))

				r.Get("/balances", balancesHandler(svcs.Groups))
			})
		})
	})

	return r
}
