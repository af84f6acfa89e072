package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"paperplane/internal/cache"
	"paperplane/internal/config"
	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/util"
)

const (
	ProviderPassword = "password"
	ProviderOIDC     = "oidc"

	defaultSessionTTL = 24 * time.Hour
	oidcStateTTL      = 10 * time.Minute
	notSet            = "NOT_SET"
)

var (
	ErrInvalidCredentials = domain.NewUnauthorizedError("Invalid username or password")
	ErrInvalidAuthState   = domain.NewUnauthorizedError("invalid oauth state")
	ErrInvalidJWTToken    = domain.NewUnauthorizedError("invalid or expired token")
)

// AuthService issues and checks session tokens for password and OIDC logins.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*dto.AuthClaims, error)
	Logout(ctx context.Context, claims *dto.AuthClaims) error
	OIDCStatus() dto.OIDCConfigResponse
	OIDCLoginURL(ctx context.Context) (string, error)
	HandleOIDCCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error)
	LogoutURL() (string, error)
}

type authServiceImpl struct {
	cfg          config.AuthConfig
	sessions     domain.SessionStore
	states       domain.Cache
	oauth2Config *oauth2.Config
	userInfoURL  string
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService requires a JWT secret. states holds OIDC state values and may
// be nil when OIDC is not configured.
func NewAuthService(cfg config.AuthConfig, sessions domain.SessionStore, states domain.Cache, logger *zap.Logger) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, domain.NewConfigurationError("JWT secret is not configured")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	s := &authServiceImpl{
		cfg:      cfg,
		sessions: sessions,
		states:   states,
		logger:   logger,
		now:      time.Now,
	}
	if cfg.OIDC.Configured() {
		base := oidcBaseURL(cfg.OIDC)
		s.oauth2Config = &oauth2.Config{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURI,
			Scopes:       cfg.OIDC.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/oauth2/authorize",
				TokenURL: base + "/oauth2/token",
			},
		}
		s.userInfoURL = base + "/oauth2/userInfo"
	}
	return s, nil
}

// oidcBaseURL prefers the hosted UI domain, which serves the oauth2 endpoints.
func oidcBaseURL(o config.OIDCConfig) string {
	if o.CognitoDomain != "" {
		return strings.TrimRight(o.CognitoDomain, "/")
	}
	return strings.TrimRight(o.Authority, "/")
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.ValidationErrors{domain.NewFieldError("credentials", "Username and password are required")}
	}
	if !s.checkCredentials(username, password) {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(ctx, username, ProviderPassword)
}

// checkCredentials compares in constant time, or with bcrypt when the
// configured password is a bcrypt hash.
func (s *authServiceImpl) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	var passOK bool
	if isBcryptHash(s.cfg.Password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	}
	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func (s *authServiceImpl) issueToken(ctx context.Context, username, provider string) (*dto.LoginResponse, error) {
	now := s.now()
	session := &domain.Session{
		ID:        util.NewULID(),
		Username:  username,
		Provider:  provider,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := dto.AuthClaims{
		Username: username,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, domain.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("Session issued", zap.String("username", username), zap.String("provider", provider))
	return &dto.LoginResponse{
		Success:   true,
		Username:  username,
		Token:     signed,
		ExpiresAt: session.ExpiresAt.Unix(),
	}, nil
}

func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Token expired", zap.Error(err))
		} else {
			s.logger.Warn("Token validation failed", zap.Error(err))
		}
		return nil, ErrInvalidJWTToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidJWTToken
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.Username != claims.Username {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidJWTToken
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	s.logger.Info("Session revoked", zap.String("username", claims.Username))
	return nil
}

// OIDCStatus reports settings for debugging with the client id masked.
func (s *authServiceImpl) OIDCStatus() dto.OIDCConfigResponse {
	o := s.cfg.OIDC
	return dto.OIDCConfigResponse{
		Configured:    o.Configured(),
		Authority:     orNotSet(o.Authority),
		ClientID:      maskClientID(o.ClientID),
		RedirectURI:   o.RedirectURI,
		LogoutURI:     o.LogoutURI,
		CognitoDomain: orNotSet(o.CognitoDomain),
	}
}

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}

func maskClientID(id string) string {
	if id == "" {
		return notSet
	}
	if len(id) <= 4 {
		return "***" + id
	}
	return "***" + id[len(id)-4:]
}

func (s *authServiceImpl) OIDCLoginURL(ctx context.Context) (string, error) {
	if s.oauth2Config == nil || s.states == nil {
		return "", domain.NewConfigurationError("OIDC is not configured")
	}
	state := util.NewULID()
	if err := s.states.Set(ctx, cache.OIDCStateKey(state), "1", oidcStateTTL); err != nil {
		return "", domain.NewStorageError("failed to store oauth state", err)
	}
	return s.oauth2Config.AuthCodeURL(state), nil
}

func (s *authServiceImpl) HandleOIDCCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error) {
	if s.oauth2Config == nil || s.states == nil {
		return nil, domain.NewConfigurationError("OIDC is not configured")
	}
	if code == "" || state == "" {
		return nil, domain.ValidationErrors{domain.NewFieldError("code", "code and state are required")}
	}
	if _, err := s.states.GetDel(ctx, cache.OIDCStateKey(state)); err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrInvalidAuthState
		}
		return nil, domain.NewStorageError("failed to read oauth state", err)
	}

	tok, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "failed to exchange authorization code", err)
	}
	info, err := s.fetchUserInfo(ctx, tok)
	if err != nil {
		return nil, err
	}
	username := firstNonEmpty(info.Username, info.PreferredUsername, info.Email, info.Sub)
	if username == "" {
		return nil, domain.NewUnauthorizedError("user info is incomplete")
	}
	return s.issueToken(ctx, username, ProviderOIDC)
}

func (s *authServiceImpl) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*dto.OIDCUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, domain.NewInternalError("failed to build userinfo request", err)
	}
	resp, err := s.oauth2Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, domain.NewNetworkError("failed to get user info", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUnauthorizedError(fmt.Sprintf("userinfo endpoint returned %d", resp.StatusCode))
	}
	var info dto.OIDCUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, domain.NewParseError("failed to decode user info", err)
	}
	return &info, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// LogoutURL builds the hosted UI logout address.
func (s *authServiceImpl) LogoutURL() (string, error) {
	o := s.cfg.OIDC
	if o.ClientID == "" || o.LogoutURI == "" || o.CognitoDomain == "" {
		return "", domain.NewConfigurationError("Cognito logout configuration missing")
	}
	return fmt.Sprintf("%s/logout?client_id=%s&logout_uri=%s",
		strings.TrimRight(o.CognitoDomain, "/"), o.ClientID, url.QueryEscape(o.LogoutURI)), nil
}
