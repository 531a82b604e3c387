package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sipfolio/internal/core"
	applog "sipfolio/internal/log"
)

const maxBodyBytes = 1 << 20

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sipRequest struct {
	UserID        string `json:"user_id"`
	SchemeName    string `json:"scheme_name"`
	MonthlyAmount int64  `json:"monthly_amount"`
	StartDate     string `json:"start_date"`
}

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type schemeSummaryResponse struct {
	SchemeName      string `json:"scheme_name"`
	TotalInvestment int64  `json:"total_investment"`
	MonthsInvested  int    `json:"months_invested"`
}

type summaryResponse struct {
	UserID          string                  `json:"user_id"`
	Schemes         []schemeSummaryResponse `json:"schemes"`
	TotalInvestment int64                   `json:"total_investment"`
}

// decodeJSON reads a JSON request body into dst, rejecting unknown junk and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing content after the JSON document is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected content after JSON body")
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := s.auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully.",
		UserID:  userID,
	})
}

func (s *Server) handleCreateSIP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req sipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	rec := core.SIPRecord{
		UserID:        strings.TrimSpace(req.UserID),
		SchemeName:    strings.TrimSpace(req.SchemeName),
		MonthlyAmount: core.Money{Units: req.MonthlyAmount},
		StartDate:     startDate,
	}

	id, err := s.sips.CreateSIP(r.Context(), rec)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	// A new record changes the user's summary.
	s.summaryCache.Delete(rec.UserID)

	s.reqLog.LogSIPCreated(r.Context(), rec.UserID, rec.SchemeName, rec.MonthlyAmount.Units, id)

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "SIP created successfully.",
		UserID:  rec.UserID,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/auth/sips/summary/"))
	if userID == "" || strings.Contains(userID, "/") {
		respondError(w, http.StatusBadRequest, "Missing or malformed user id")
		return
	}

	summary, cached := s.summaryCache.Get(userID)
	if cached {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Summary cache hit", "user_id", userID)
	} else {
		var err error
		summary, err = s.portfolio.Summarize(r.Context(), userID)
		if err != nil {
			respondServiceError(r.Context(), w, err)
			return
		}
		s.summaryCache.Set(userID, summary)
	}

	resp := summaryResponse{
		UserID:          userID,
		Schemes:         make([]schemeSummaryResponse, 0, len(summary.Schemes)),
		TotalInvestment: summary.TotalInvestment.Units,
	}
	for _, scheme := range summary.Schemes {
		resp.Schemes = append(resp.Schemes, schemeSummaryResponse{
			SchemeName:      scheme.SchemeName,
			TotalInvestment: scheme.TotalInvestment.Units,
			MonthsInvested:  scheme.MonthsInvested,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
