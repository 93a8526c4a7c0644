package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"paxplan/internal/geo"
	"paxplan/internal/model"
	"paxplan/internal/solver"
	"paxplan/internal/store"
)

// Server holds the API dependencies.
type Server struct {
	Store  store.Store
	Broker EventBroker
	Solver *solver.Solver
	Speeds geo.Speeds
	Log    *logrus.Logger

	solveLimit *rate.Limiter
}

// NewServer wires the server from the environment: DATABASE_URL selects
// Postgres over the in-memory store, REDIS_URL selects the shared broker,
// and PAXPLAN_DATA points at the directory with the distance matrix and
// the fleet data files.
func NewServer() (*Server, error) {
	log := logrus.New()
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	dataDir := os.Getenv("PAXPLAN_DATA")
	if dataDir == "" {
		dataDir = "config"
	}
	matrix, err := geo.LoadMatrix(filepath.Join(dataDir, "distances.yaml"))
	if err != nil {
		return nil, err
	}
	speeds, err := geo.LoadSpeeds(filepath.Join(dataDir, "speeds.yaml"))
	if err != nil {
		return nil, err
	}
	gangway, err := geo.LoadGangway(filepath.Join(dataDir, "gangway.yaml"))
	if err != nil {
		return nil, err
	}
	weights, err := model.LoadWeights(filepath.Join(dataDir, "weights.yaml"))
	if err != nil {
		return nil, err
	}

	var st store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if os.Getenv("DB_MIGRATE") != "false" {
			if err := pg.Migrate(context.Background()); err != nil {
				return nil, err
			}
		}
		st = pg
	}

	var broker EventBroker
	if url := os.Getenv("REDIS_URL"); url != "" {
		if rb, err := NewRedisBroker(url); err == nil {
			broker = rb
		} else {
			log.WithError(err).Warn("redis broker unavailable, using in-memory")
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}

	return &Server{
		Store:  st,
		Broker: broker,
		Solver: solver.New(matrix, gangway, weights, log),
		Speeds: speeds,
		Log:    log,
		// Solves are CPU-heavy; shed load early instead of queueing.
		solveLimit: rate.NewLimiter(rate.Limit(2), 4),
	}, nil
}
