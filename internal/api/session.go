package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vidlytics/internal/middleware"
	"vidlytics/internal/token"
)

// userIDKey is the context key for the authenticated user identity.
type userIDKey struct{}

type sessionRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

// SessionHandler exchanges the access password for a signed session token
// scoped to one user identity.
func (s *Server) SessionHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/session"

	if s.Config.AccessPassword == "" || s.Config.TokenSecret == "" {
		s.Metrics.IncrementRequests(endpoint, r.Method, "503")
		s.writeError(w, http.StatusServiceUnavailable, "access gate not configured")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, r.Method, "400")
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.Config.AccessPassword)) != 1 {
		s.Metrics.IncrementRequests(endpoint, r.Method, "401")
		s.writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	tok, err := token.Generate(req.UserID, []byte(s.Config.TokenSecret))
	if err != nil {
		s.Logger.Error("generate session token", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "500")
		s.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, sessionResponse{Token: tok})
}

// requireSession authenticates the Bearer token and stores the user identity
// in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			s.writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		userID, err := token.Verify(raw, []byte(s.Config.TokenSecret), s.Config.TokenTTL)
		if err != nil {
			logger := middleware.LoggerFromRequest(r, s.Logger)
			if errors.Is(err, token.ErrExpired) {
				logger.Debug("session token expired")
				s.writeError(w, http.StatusUnauthorized, "session expired")
				return
			}
			logger.Debug("session token rejected", zap.Error(err))
			s.writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestUserID returns the identity attached by requireSession.
func requestUserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey{}).(string); ok {
		return id
	}
	return "default"
}
