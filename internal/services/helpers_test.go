package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/bugai/backend/internal/auth"
	"github.com/emilythestrangee/bugai/backend/internal/cache"
	"github.com/emilythestrangee/bugai/backend/internal/config"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

type fixture struct {
	svc     *Services
	deps    Deps
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "bugai.db"),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	m, err := metrics.NewWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	tokens, err := auth.NewManager(config.AuthConfig{JWTSecret: "test", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	deps := Deps{
		DB:            db.GetDB(),
		Cache:         cache.NewMemory(time.Minute),
		Metrics:       m,
		StatisticsTTL: time.Minute,
	}
	return &fixture{svc: New(deps, tokens), deps: deps, metrics: m}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	resp, err := f.svc.Users.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	return &resp.User
}

func validCase() models.CreateCaseRequest {
	return models.CreateCaseRequest{
		AIName:     "GPT-4o",
		AIProvider: models.ProviderChatGPT,
		DialogMessages: []models.DialogMessage{
			{Role: models.RoleUser, Content: "What is the capital of Australia?", Timestamp: 1700000000000},
			{Role: models.RoleAssistant, Content: "Sydney.", Timestamp: 1700000001000},
		},
		ErrorType:            models.ErrorFactual,
		ErrorDescription:     "Sydney.",
		CorrectionSuggestion: "Canberra.",
	}
}

func (f *fixture) createCase(t *testing.T, actor models.Identity) *models.Case {
	t.Helper()
	c, err := f.svc.Cases.CreateCase(context.Background(), validCase(), actor)
	require.NoError(t, err)
	return c
}

const missingID = "00000000-0000-7000-8000-000000000000"
