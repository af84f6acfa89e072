package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"paperplane/internal/config"
	"paperplane/internal/dto"
)

const healthCheckTimeout = 2 * time.Second

// PingFunc probes a backing service.
type PingFunc func(ctx context.Context) error

// SystemHandler serves health and environment information.
type SystemHandler struct {
	cfg       *config.Config
	mongoPing PingFunc
	redisPing PingFunc
}

// NewSystemHandler accepts nil probes for dependencies that are not wired.
func NewSystemHandler(cfg *config.Config, mongoPing, redisPing PingFunc) *SystemHandler {
	return &SystemHandler{cfg: cfg, mongoPing: mongoPing, redisPing: redisPing}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status: "ok",
		Mongo:  probe(ctx, h.mongoPing),
		Redis:  probe(ctx, h.redisPing),
	}
	if resp.Mongo == "down" || resp.Redis == "down" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func probe(ctx context.Context, ping PingFunc) string {
	if ping == nil {
		return ""
	}
	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

// Config godoc
// @Summary Environment information
// @Tags system
// @Produce json
// @Success 200 {object} dto.EnvironmentInfo
// @Router /config [get]
func (h *SystemHandler) Config(c *fiber.Ctx) error {
	apiURL := h.cfg.Server.PublicURL
	if apiURL == "" {
		apiURL = fmt.Sprintf("http://localhost:%d", h.cfg.Server.Port)
	}
	return c.JSON(dto.EnvironmentInfo{
		Environment:  h.cfg.Environment,
		APIURL:       apiURL,
		IsProduction: h.cfg.IsProduction(),
		HostEnv:      h.cfg.Environment,
	})
}
