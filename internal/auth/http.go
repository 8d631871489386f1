package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ScanTill/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 15 * time.Minute
	minPassword  = 8
)

type Server struct {
	Log   *zap.Logger
	Store Store
	JWT   *TokenMaker
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req registerReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Password = normalizePassword(req.Password)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return
	}
	if len(req.Password) < minPassword {
		kit.WriteError(w, r, http.StatusBadRequest, "password too short", map[string]any{"min_len": minPassword})
		return
	}

	id := "op_" + uuid.NewString()

	if err := s.Store.Create(r.Context(), req.Email, req.Password, "operator", id); err != nil {
		if err == ErrEmailExists {
			kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("create operator failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Password = normalizePassword(req.Password)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return
	}

	op, err := s.Store.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.JWT.New(op.ID, op.Email, op.Role, tokenTTL)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
		return
	}

	claims, err := s.JWT.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"operator_id": claims.OperatorID,
		"email":       claims.Email,
		"role":        claims.Role,
	})
}
