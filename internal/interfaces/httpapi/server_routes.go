package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/upcoming", handler.ListUpcomingFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/predictions", handler.ListPredictionsByFixture)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListPredictionsByUser)

	mux.HandleFunc("POST /v1/predictions", handler.PlacePrediction)
	mux.HandleFunc("PUT /v1/predictions/{predictionID}", handler.UpdatePrediction)

	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}", handler.GetSeason)
	mux.HandleFunc("GET /v1/rankings", handler.GetRankings)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/fixtures", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateFixture)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpdateFixture)))
	mux.Handle("DELETE /v1/fixtures/{fixtureID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteFixture)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}/result", RequireAdminToken(adminToken, http.HandlerFunc(handler.SetFixtureResult)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/recalculate", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecalculateFixture)))

	mux.Handle("POST /v1/seasons", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateSeason)))
	mux.Handle("POST /v1/seasons/{seasonID}/end", RequireAdminToken(adminToken, http.HandlerFunc(handler.EndSeason)))
	mux.Handle("POST /v1/seasons/{seasonID}/recalculate", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecalculateSeason)))
	mux.Handle("DELETE /v1/seasons/{seasonID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeleteSeason)))
}
