package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/colonyops/quill/internal/core/item"
)

// Detail strings are part of the dashboard contract; the client surfaces
// them verbatim.
const (
	detailMissingID       = "Missing id"
	detailMissingSelected = "Missing id or response"
	detailTextRequired    = "Reply text is required"
	detailInvalidType     = "Invalid item_type specified. Must be 'feedbacks' or 'questions'."
	detailReplyFailed     = "Failed to send reply via Wildberries API."
	detailCacheFailed     = "Failed to cache response"
	detailBadJSON         = "Invalid JSON body"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleList serves one category as a bare array of wire DTOs. An upstream
// failure yields an empty list, not an error: the dashboard renders its
// empty state and real failures stay visible in the server log.
func (s *Server) handleList(cat item.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.feed.Items(r.Context(), cat)
		if err != nil {
			s.log.Error().Err(err).Str("category", string(cat)).Msg("feed fetch failed")
			items = nil
		}

		switch cat {
		case item.CategoryQuestions:
			out := make([]item.Question, 0, len(items))
			for _, it := range items {
				out = append(out, it.Question())
			}
			s.writeJSON(w, http.StatusOK, out)
		default:
			out := make([]item.Feedback, 0, len(items))
			for _, it := range items {
				out = append(out, it.Feedback())
			}
			s.writeJSON(w, http.StatusOK, out)
		}
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req item.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		s.writeDetail(w, http.StatusBadRequest, detailMissingID)
		return
	}

	text, cached := s.responder.Respond(r.Context(), req)
	if cached {
		s.log.Debug().Str("id", req.ID).Msg("served cached response")
	}
	s.writeJSON(w, http.StatusOK, item.GenerateResponse{Response: text})
}

func (s *Server) handleGenerateVariants(w http.ResponseWriter, r *http.Request) {
	var req item.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		s.writeDetail(w, http.StatusBadRequest, detailMissingID)
		return
	}

	s.writeJSON(w, http.StatusOK, s.responder.Variants(r.Context(), req))
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	var req item.ReplyRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.ID == "" {
		s.writeDetail(w, http.StatusBadRequest, detailMissingID)
		return
	}
	if !item.Category(req.Type).Valid() {
		s.writeDetail(w, http.StatusBadRequest, detailInvalidType)
		return
	}
	if strings.TrimSpace(req.ReplyText()) == "" {
		s.writeDetail(w, http.StatusBadRequest, detailTextRequired)
		return
	}

	if err := s.feed.Reply(r.Context(), req); err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Str("type", req.Type).Msg("reply submission failed")
		s.writeDetail(w, http.StatusInternalServerError, detailReplyFailed)
		return
	}

	// The item leaves the feed on success, so its cached draft goes too.
	s.responder.Forget(r.Context(), req.ID)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Reply sent successfully.",
	})
}

func (s *Server) handleCacheSelected(w http.ResponseWriter, r *http.Request) {
	var req item.CacheRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" || req.Response == "" {
		s.writeDetail(w, http.StatusBadRequest, detailMissingSelected)
		return
	}

	if err := s.responder.CacheSelected(r.Context(), req.ID, req.Response); err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Msg("cache selected response failed")
		s.writeDetail(w, http.StatusInternalServerError, detailCacheFailed)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Response cached successfully",
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeDetail(w, http.StatusBadRequest, detailBadJSON)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("response encode failed")
	}
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
