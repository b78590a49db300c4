package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health, the liveness check.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness godoc
//
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is the subset of a dependency the readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MongoPinger checks the database with a ping command.
type MongoPinger struct {
	DB *mongo.Database
}

func (p MongoPinger) Ping(ctx context.Context) error {
	return p.DB.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// RedisPinger checks the idempotency cache.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

// UnavailablePinger stands in for a dependency that could not be reached at
// startup, so readiness reports it as unhealthy instead of disabled.
type UnavailablePinger struct {
	Err error
}

func (p UnavailablePinger) Ping(context.Context) error {
	return fmt.Errorf("not connected: %w", p.Err)
}

// HealthDependenciesHandler handles GET /health/ready, the readiness check.
// A nil redis pinger is reported as "disabled" and does not fail readiness.
type HealthDependenciesHandler struct {
	mongo   Pinger
	redis   Pinger
	timeout time.Duration
}

func NewHealthDependenciesHandler(mongo, redis Pinger) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		mongo:   mongo,
		redis:   redis,
		timeout: 3 * time.Second,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Ping(ctx); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if h.redis == nil {
		deps["redis"] = dependencyStatus{Status: "disabled"}
	} else if err := h.redis.Ping(ctx); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
