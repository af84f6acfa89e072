package cache

import "strings"

const (
	GlobalKeyPrefix = "paperplane"
)

// Service and object names used to build keys.
const (
	ServiceQuestion = "question"
	ServiceAuth     = "auth"

	ObjectFilterOptions = "filter_options"
	ObjectSession       = "session"
	ObjectOIDCState     = "oidc_state"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// FilterOptionsKey holds the cached distinct subject/chapter/section lists.
func FilterOptionsKey() string {
	return GenerateCacheKey(ServiceQuestion, ObjectFilterOptions, "all")
}

func SessionKey(sessionID string) string {
	return GenerateCacheKey(ServiceAuth, ObjectSession, sessionID)
}

func OIDCStateKey(state string) string {
	return GenerateCacheKey(ServiceAuth, ObjectOIDCState, state)
}
