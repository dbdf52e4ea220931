package routes

import (
	"net/http"

	"github.com/Dosada05/bracket-manager/handlers"
	"github.com/Dosada05/bracket-manager/middleware"
	"github.com/Dosada05/bracket-manager/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/bracket-manager/docs"
)

type Options struct {
	JWTSecret   string
	CORSOrigins []string
}

func SetupRoutes(
	r chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	stateHandler *handlers.StateHandler,
	exportHandler *handlers.ExportHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/ws", webSocketHandler.ServeWs)

	r.Post("/auth/token", authHandler.TokenHandler)

	// Чтение доступно без токена: UI экрана и табло только читают.
	r.Get("/players", tournamentHandler.ListPlayersHandler)
	r.Get("/categories", tournamentHandler.CategoriesHandler)
	r.Get("/categories/selection", tournamentHandler.SelectCategoryHandler)
	r.Get("/brackets", tournamentHandler.BracketsHandler)
	r.Get("/winners", tournamentHandler.WinnersHandler)
	r.Get("/points", tournamentHandler.PointsHandler)
	r.Get("/result-tables", tournamentHandler.ListResultTablesHandler)
	r.Get("/result-tables/{name}", tournamentHandler.ResultTableHandler)
	r.Get("/state", stateHandler.GetStateHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))

		r.Put("/players", tournamentHandler.ReplacePlayersHandler)
		r.Put("/players/{contestantID}", tournamentHandler.EditPlayerHandler)
		r.Post("/players/tags", tournamentHandler.AttachTagsHandler)
		r.Post("/organizations", tournamentHandler.ImportOrganizationsHandler)
		r.Post("/organizations/sample", tournamentHandler.SampleOrganizationsHandler)

		r.Post("/brackets/generate", tournamentHandler.GenerateBracketsHandler)
		r.Post("/brackets/champion", tournamentHandler.SetChampionHandler)
		r.Post("/brackets/matches", tournamentHandler.RecordMatchHandler)
		r.Post("/brackets/status", tournamentHandler.MarkStatusHandler)

		r.Put("/result-tables", tournamentHandler.SetResultTablesHandler)

		r.Put("/state", stateHandler.ImportStateHandler)
		r.Post("/state/save", stateHandler.SaveStateHandler)
		r.Post("/exports/{name}", exportHandler.ExportHandler)
	})
}
