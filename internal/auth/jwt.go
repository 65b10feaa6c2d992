package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/rs/zerolog/log"
)

// TokenCookie is the cookie carrying the session token for clients that
// cannot set headers, such as browser websockets.
const TokenCookie = "token"

// Claims defines the JWT claims structure. The subject is the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// TokenIssuer signs and validates HS256 session tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer creates a TokenIssuer that signs with secret and issues
// tokens valid for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a new JWT for a given user.
func (i *TokenIssuer) Issue(user models.User) (string, error) {
	now := i.now()
	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims.
func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Identify attaches the caller's claims to the request context. Requests
// without a token pass through anonymously. An invalid bearer token is
// rejected with 401; an invalid token cookie is cleared and the request
// continues anonymously, since the client cannot remove an HttpOnly cookie.
func (i *TokenIssuer) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, source := tokenFromRequest(r)
		if source == sourceNone {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := i.Parse(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected auth token")
			if source == sourceCookie {
				ClearTokenCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			unauthorized(w, "invalid auth token")
			return
		}

		ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClearTokenCookie tells the client to drop its session cookie.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClaimsFromContext returns the claims attached by Identify, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// AuthorizeOwner checks that the caller is the owner. It returns an
// common.ErrUnauthorized error when no identity is attached and an
// common.ErrForbidden error when the identity belongs to someone else.
func AuthorizeOwner(ctx context.Context, owner models.ExternalID) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return common.New(common.ErrUnauthorized, "authentication required")
	}
	if claims.UserID() != owner.String() {
		return common.New(common.ErrForbidden, "not the owner of this resource")
	}
	return nil
}

type tokenSource int

const (
	sourceNone tokenSource = iota
	sourceHeader
	sourceCookie
)

// tokenFromRequest reads the bearer token from the Authorization header and
// falls back to the token cookie. A malformed header still counts as a
// header token.
func tokenFromRequest(r *http.Request) (string, tokenSource) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", sourceHeader
		}
		return strings.TrimSpace(value), sourceHeader
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, sourceCookie
	}
	return "", sourceNone
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
