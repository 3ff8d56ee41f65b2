package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/benjamonnguyen/focusflow"
)

var (
	errBadCredentials = errors.New("invalid credentials")
	errEmailTaken     = errors.New("email already registered")
)

type ownerIDKey struct{}

func ownerFromContext(ctx context.Context) focusflow.UserID {
	id, _ := ctx.Value(ownerIDKey{}).(focusflow.UserID)
	return id
}

type authService struct {
	users  focusflow.UserRepo
	secret []byte
	ttl    time.Duration
}

func newAuthService(users focusflow.UserRepo, secret []byte, ttl time.Duration) *authService {
	return &authService{
		users:  users,
		secret: secret,
		ttl:    ttl,
	}
}

func (a *authService) issueToken(userID focusflow.UserID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *authService) parseToken(tokenString string) (focusflow.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("missing subject claim")
	}
	return focusflow.UserID(claims.Subject), nil
}

func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		userID, err := s.auth.parseToken(tokenString)
		if err != nil {
			s.l.Debug("rejected token", "err", err)
			s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Password) < 8 {
		s.respondError(w, focusflow.ValidationErrors{{Field: "password", Message: "must be at least 8 characters"}})
		return
	}

	rec := focusflow.UserRecord{
		Email:                 strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:           strings.TrimSpace(req.DisplayName),
		DefaultPlannedMinutes: 25,
		DefaultKind:           focusflow.PomodoroTimer,
	}
	if err := rec.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	if _, err := s.users.GetUserByEmail(r.Context(), rec.Email); err == nil {
		s.respondError(w, errEmailTaken)
		return
	} else if !errors.Is(err, focusflow.ErrNotFound) {
		s.respondError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.respondError(w, err)
		return
	}
	rec.PasswordHash = string(hash)

	user, err := s.users.InsertUser(r.Context(), rec)
	if err != nil {
		s.respondError(w, err)
		return
	}

	token, err := s.auth.issueToken(user.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: newUserResponse(user)})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, focusflow.ErrNotFound) {
			s.respondError(w, errBadCredentials)
			return
		}
		s.respondError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.respondError(w, errBadCredentials)
		return
	}

	token, err := s.auth.issueToken(user.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: newUserResponse(user)})
}
