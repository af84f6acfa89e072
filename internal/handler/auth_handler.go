package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/logger"
	"paperplane/internal/middleware"
	"paperplane/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login checks the configured credentials and issues a session token.
// @Summary Password login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		logger.Get().Warn("Login failed", zap.String("username", req.Username), zap.Error(err))
		return err
	}
	logger.Get().Info("User logged in", zap.String("username", resp.Username))
	return c.JSON(resp)
}

// Logout revokes the caller's session.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Logged out"})
}

// Me returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return domain.NewUnauthorizedError("Not authenticated")
	}
	return c.JSON(dto.MeResponse{Success: true, Username: claims.Username, Provider: claims.Provider})
}

// OIDCConfig reports the OIDC settings with the client id masked.
// @Summary OIDC configuration status
// @Tags auth
// @Produce json
// @Success 200 {object} dto.OIDCConfigResponse
// @Router /auth/oidc/config [get]
func (h *AuthHandler) OIDCConfig(c *fiber.Ctx) error {
	return c.JSON(h.authService.OIDCStatus())
}

// OIDCLogin starts the authorization code flow.
// @Summary Initiate OIDC login
// @Description Redirects to the identity provider's authorize endpoint.
// @Tags auth
// @Success 307 {string} string "Redirects to the provider"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/oidc/login [get]
func (h *AuthHandler) OIDCLogin(c *fiber.Ctx) error {
	loginURL, err := h.authService.OIDCLoginURL(c.UserContext())
	if err != nil {
		return err
	}
	return c.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// OIDCCallback exchanges the authorization code and issues a session token.
// @Summary OIDC callback
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State returned by the provider"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/oidc/callback [get]
func (h *AuthHandler) OIDCCallback(c *fiber.Ctx) error {
	if providerErr := c.Query("error"); providerErr != "" {
		logger.Get().Warn("OIDC provider returned an error",
			zap.String("error", providerErr),
			zap.String("description", c.Query("error_description")),
		)
		return domain.NewUnauthorizedError("OIDC login failed: " + providerErr)
	}

	resp, err := h.authService.HandleOIDCCallback(c.UserContext(), c.Query("code"), c.Query("state"))
	if err != nil {
		return err
	}
	logger.Get().Info("OIDC login successful", zap.String("username", resp.Username))
	return c.JSON(resp)
}

// LogoutURL returns the hosted UI logout address.
// @Summary OIDC logout URL
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LogoutURLResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/oidc/logout-url [get]
func (h *AuthHandler) LogoutURL(c *fiber.Ctx) error {
	u, err := h.authService.LogoutURL()
	if err != nil {
		return err
	}
	return c.JSON(dto.LogoutURLResponse{Success: true, URL: u})
}
