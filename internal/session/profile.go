package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Profile is what the gateway knows about the signed-in account.
type Profile struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// NormalizeRole lower-cases a role and strips the ROLE_ prefix some backends add.
func NormalizeRole(role string) string {
	r := strings.TrimSpace(role)
	if len(r) >= 5 && strings.EqualFold(r[:5], "role_") {
		r = r[5:]
	}
	return strings.ToLower(r)
}

func (p Profile) HasRole(role string) bool {
	want := NormalizeRole(role)
	return want != "" && NormalizeRole(p.Role) == want
}

// Home is the landing area for the profile's role.
func (p Profile) Home() string {
	switch {
	case p.HasRole(RoleOwner):
		return RoleOwner
	case p.HasRole(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Merge overlays the non-empty fields of other onto p.
func (p Profile) Merge(other Profile) Profile {
	if other.UserID != "" {
		p.UserID = other.UserID
	}
	if other.Name != "" {
		p.Name = other.Name
	}
	if other.Email != "" {
		p.Email = other.Email
	}
	if other.Role != "" {
		p.Role = other.Role
	}
	p.Role = NormalizeRole(p.Role)
	return p
}

// claimsFromToken reads the token's claims without verifying the signature.
// The gateway never trusts them for authorization; the remote API does that.
func claimsFromToken(token string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// ProfileFromToken derives a profile from a JWT credential. Opaque tokens
// yield an empty profile.
func ProfileFromToken(token string) Profile {
	claims := claimsFromToken(token)
	if claims == nil {
		return Profile{}
	}

	p := Profile{
		UserID: firstClaim(claims, "userId", "user_id", "sub"),
		Name:   firstClaim(claims, "name"),
		Email:  firstClaim(claims, "email"),
		Role:   firstClaim(claims, "role"),
	}
	if p.Role == "" {
		p.Role = firstListClaim(claims, "roles", "authorities")
	}
	p.Role = NormalizeRole(p.Role)
	return p
}

func expiryFromToken(token string) time.Time {
	claims := claimsFromToken(token)
	if claims == nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s := claimText(claims[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstListClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		list, ok := claims[k].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		switch v := list[0].(type) {
		case map[string]any:
			if s := claimText(v["authority"]); s != "" {
				return s
			}
		default:
			if s := claimText(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func claimText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
