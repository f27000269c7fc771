package auth

import (
	"context"
	"time"

	"salespulse/internal/models"
	"salespulse/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session stays valid.
const SessionTTL = 8 * time.Hour

// Session is the role-tagged view of an authenticated user, materialized as
// JWT claims on the wire.
type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims carries the session inside the signed token.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Result is the outcome of an authentication attempt.
type Result struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	Session *Session `json:"session,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Authenticate checks the credentials against the seeded accounts and, on
// success, issues a session token. Unknown users and wrong passwords get the
// same error so the response does not leak which usernames exist.
func Authenticate(ctx context.Context, secret, username, password string) (*Result, error) {
	user, err := repository.GetUserByUsername(ctx, username)
	if err != nil || !user.CheckPassword(password) {
		return &Result{Success: false, Error: "invalid username or password"}, nil
	}

	now := time.Now().UTC()
	session := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	token, err := SignSession(secret, session)
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Token: token, Session: session}, nil
}

// SignSession serializes a session into an HS256 token.
func SignSession(secret string, s *Session) (string, error) {
	claims := Claims{
		UserID:   s.UserID,
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken reads a session back out of a token. Expired or otherwise
// invalid tokens read as no session; the caller discards them.
func ParseToken(secret, tokenString string) *Session {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return &Session{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		CreatedAt: claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

// Permissions granted to stakeholder roles.
const (
	PermViewSummary         = "view-metrics:summary"
	PermViewProcess         = "view-metrics:process"
	PermViewCollaboration   = "view-metrics:collaboration"
	PermViewRecommendations = "view-recommendations"
	PermExport              = "export"
)

// rolePermissions is static per role: admin and coordinator carry everything
// the assessor does plus export.
var rolePermissions = map[string][]string{
	models.RoleAdmin: {
		PermViewSummary, PermViewProcess, PermViewCollaboration,
		PermViewRecommendations, PermExport,
	},
	models.RoleCoordinator: {
		PermViewSummary, PermViewProcess, PermViewCollaboration,
		PermViewRecommendations, PermExport,
	},
	models.RoleAssessor: {
		PermViewSummary, PermViewProcess, PermViewCollaboration,
		PermViewRecommendations,
	},
}

// HasPermission reports whether the role carries the permission.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Permissions returns the role's full permission set.
func Permissions(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
