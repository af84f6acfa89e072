package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims of a session token. RegisteredClaims.ID holds
// the session id.
type AuthClaims struct {
	Username string `json:"username"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// LoginRequest
// @Description Credentials for password login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token the client stores.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type MeResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Provider string `json:"provider"`
}

// OIDCUserInfo is the subset of the userinfo document we read.
type OIDCUserInfo struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	PreferredUsername string `json:"preferred_username"`
}

// OIDCConfigResponse reports the OIDC settings without leaking the client id.
type OIDCConfigResponse struct {
	Configured    bool   `json:"configured"`
	Authority     string `json:"authority"`
	ClientID      string `json:"clientId"`
	RedirectURI   string `json:"redirectUri"`
	LogoutURI     string `json:"logoutUri"`
	CognitoDomain string `json:"cognitoDomain"`
}

type LogoutURLResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// EnvironmentInfo mirrors the client's environment helper.
type EnvironmentInfo struct {
	Environment  string `json:"environment"`
	APIURL       string `json:"apiUrl"`
	IsProduction bool   `json:"isProduction"`
	HostEnv      string `json:"hostEnv"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo,omitempty"`
	Redis  string `json:"redis,omitempty"`
}
