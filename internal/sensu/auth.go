package sensu

import (
	"encoding/base64"
	"os"
	"os/user"
	"strings"

	json "github.com/goccy/go-json"
)

// Credentials authenticate API requests. An API key takes precedence over an
// access token.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// Header returns the Authorization header value, or "" when no credentials
// are configured.
func (c Credentials) Header() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return "Key " + key
	}
	if token := strings.TrimSpace(c.AccessToken); token != "" {
		return "Bearer " + token
	}
	return ""
}

// ResolveUsername picks the name recorded as the creator of new silences:
// an explicit username, then the access token's subject claim, then the OS user.
func ResolveUsername(explicit string, creds Credentials) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	if sub := tokenSubject(creds.AccessToken); sub != "" {
		return sub
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// tokenSubject returns the "sub" claim of a JWT without verifying it.
func tokenSubject(token string) string {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 {
		return ""
	}
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	var claims struct {
		Subject string `json:"sub"`
	}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
