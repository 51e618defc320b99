package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lpellecer/quetzal/internal/http/export"
	"github.com/lpellecer/quetzal/internal/http/statements"
	"github.com/lpellecer/quetzal/internal/http/transaction"
)

func New(
	statementsV1 *statements.Handler,
	transactionsV1 *transaction.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/statements", statementsV1.Routes)

		r.Route("/transactions", func(r chi.Router) {
			transactionsV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
