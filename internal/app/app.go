package app

import (
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/bolao-app/bolao-api/internal/config"
	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/domain/ledger"
	"github.com/bolao-app/bolao-api/internal/domain/prediction"
	"github.com/bolao-app/bolao-api/internal/domain/season"
	"github.com/bolao-app/bolao-api/internal/domain/user"
	"github.com/bolao-app/bolao-api/internal/infrastructure/repository/memory"
	"github.com/bolao-app/bolao-api/internal/infrastructure/repository/postgres"
	"github.com/bolao-app/bolao-api/internal/interfaces/httpapi"
	idgen "github.com/bolao-app/bolao-api/internal/platform/id"
	"github.com/bolao-app/bolao-api/internal/platform/logging"
	"github.com/bolao-app/bolao-api/internal/usecase"

	_ "github.com/lib/pq"
)

type repositories struct {
	users       user.Repository
	seasons     season.Repository
	fixtures    fixture.Repository
	predictions prediction.Repository
	writer      ledger.Writer
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	ids := idgen.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(repos.fixtures, repos.predictions, repos.seasons, repos.writer, logger)
	scoringSvc.SetRecalcWorkers(cfg.RecalcWorkers)

	fixtureSvc := usecase.NewFixtureService(repos.fixtures, repos.predictions, repos.seasons, repos.writer, scoringSvc, ids, logger)
	predictionSvc := usecase.NewPredictionService(repos.predictions, repos.fixtures, ids, logger)
	rankingSvc := usecase.NewRankingService(repos.users)
	seasonSvc := usecase.NewSeasonService(repos.seasons, repos.fixtures, repos.users, repos.writer, rankingSvc, fixtureSvc, ids, logger)

	handler := httpapi.NewHandler(fixtureSvc, predictionSvc, scoringSvc, seasonSvc, rankingSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.UseMemoryStore() {
		store := memory.NewStore(cfg.StoreMaxBatchOps)
		store.Seed(memory.SeedUsers())
		logger.Info("using in-memory store", "seeded_users", len(memory.SeedUsers()))

		return repositories{
			users:       store.Users(),
			seasons:     store.Seasons(),
			fixtures:    store.Fixtures(),
			predictions: store.Predictions(),
			writer:      store,
		}, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("using postgres store", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		users:       postgres.NewUserRepository(db),
		seasons:     postgres.NewSeasonRepository(db),
		fixtures:    postgres.NewFixtureRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		writer:      postgres.NewLedgerWriter(db, cfg.StoreMaxBatchOps),
	}, nil
}
