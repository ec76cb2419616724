package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/Domenick1991/busbooking/internal/transport"
)

const (
	loginPath         = "/auth/login"
	registerUserPath  = "/auth/register/user"
	registerOwnerPath = "/auth/register/owner"
	logoutPath        = "/auth/logout"
)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	RegisterUser(ctx context.Context, reg UserRegistration) (*Registration, error)
	RegisterOwner(ctx context.Context, reg OwnerRegistration, image *Image) (*Registration, error)
	Logout(ctx context.Context, sessionID string) error
}

// API is the slice of the transport the auth flows need.
type API interface {
	transport.Sender
	Upload(ctx context.Context, path string, form transport.Form) (json.RawMessage, error)
}

type UserRegistration struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

type OwnerRegistration struct {
	OwnerName  string `form:"ownerName" binding:"required"`
	AgencyName string `form:"agencyName"`
	Email      string `form:"email" binding:"required"`
	Phone      string `form:"phone"`
	Password   string `form:"password" binding:"required"`
}

type Image struct {
	Filename string
	Content  io.Reader
}

type Registration struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type AuthService struct {
	api      API
	sessions session.Store
	log      *slog.Logger
}

func NewAuthService(api API, sessions session.Store) *AuthService {
	return &AuthService{api: api, sessions: sessions, log: slog.Default()}
}

// Login exchanges credentials for a token and opens a session for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Validation("Email and password are required")
	}

	raw, err := s.api.Send(ctx, http.MethodPost, loginPath, map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp := decodeObject(raw)
	token := firstText(resp, "token", "jwt")
	if token == "" {
		return nil, domain.Malformed("login response carries no token")
	}

	profile := session.Profile{
		UserID: firstText(resp, "userId", "id"),
		Name:   firstText(resp, "name", "userName"),
		Email:  firstText(resp, "email", "user.email"),
		Role:   firstText(resp, "role", "user.role", "roles.0", "authorities.0.authority"),
	}
	sess := session.New(token, profile)
	if sess.Profile.Role == "" {
		sess.Profile.Role = session.RoleUser
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info("[auth] login", "session_id", sess.ID, "role", sess.Profile.Role)
	return sess, nil
}

func (s *AuthService) RegisterUser(ctx context.Context, reg UserRegistration) (*Registration, error) {
	body := struct {
		UserRegistration
		Role string `json:"role"`
	}{reg, "USER"}

	raw, err := s.api.Send(ctx, http.MethodPost, registerUserPath, body)
	if err != nil {
		return nil, err
	}
	return &Registration{Success: true, Message: "User registered successfully", Data: raw}, nil
}

// RegisterOwner sends the owner form as multipart. Name and agency go out
// under both field names the API has used.
func (s *AuthService) RegisterOwner(ctx context.Context, reg OwnerRegistration, image *Image) (*Registration, error) {
	var form transport.Form
	form.Add("ownerName", reg.OwnerName)
	form.Add("name", reg.OwnerName)
	form.Add("agencyName", reg.AgencyName)
	form.Add("agency", reg.AgencyName)
	form.Add("email", reg.Email)
	form.Add("phone", reg.Phone)
	form.Add("password", reg.Password)
	form.Add("role", "OWNER")
	if image != nil && image.Content != nil {
		form.File = &transport.FilePart{Field: "image", Filename: image.Filename, Content: image.Content}
	}

	raw, err := s.api.Upload(ctx, registerOwnerPath, form)
	if err != nil {
		return nil, err
	}
	return &Registration{Success: true, Message: "Owner registered successfully", Data: raw}, nil
}

// Logout tells the API the session is over and always drops it locally.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.log.Warn("[auth] load session for logout", "session_id", sessionID, "error", err)
	}
	if sess != nil {
		if _, err := s.api.Send(transport.WithCredentials(ctx, sess), http.MethodPost, logoutPath, struct{}{}); err != nil {
			s.log.Warn("[auth] remote logout failed", "session_id", sessionID, "error", err)
		}
	}
	return s.sessions.Delete(ctx, sessionID)
}

func decodeObject(raw json.RawMessage) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil
	}
	return m
}

// firstText returns the first non-empty value among dotted paths; numeric
// path segments index into arrays.
func firstText(m map[string]any, paths ...string) string {
	for _, p := range paths {
		var cur any = m
		for _, seg := range strings.Split(p, ".") {
			switch node := cur.(type) {
			case map[string]any:
				cur = node[seg]
			case []any:
				if seg != "0" || len(node) == 0 {
					cur = nil
				} else {
					cur = node[0]
				}
			default:
				cur = nil
			}
		}
		switch v := cur.(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

var _ AuthUseCase = (*AuthService)(nil)
