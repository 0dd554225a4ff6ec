package httpapi

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"codemart-backend-go/internal/services"
)

type SearchResultItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
}

type VisitRequest struct {
	Path     *string `json:"path"`
	Referrer *string `json:"referrer"`
}

type VisitCountResponse struct {
	Total int `json:"total"`
}

type FeedbackRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

func (s *Server) PublicSearch(w http.ResponseWriter, r *http.Request) {
	term := services.CleanSearchTerm(r.URL.Query().Get("q"))
	if term == "" {
		WriteJSON(w, http.StatusOK, SearchResponse{Items: []SearchResultItem{}})
		return
	}
	like := "%" + strings.ToLower(term) + "%"
	items := []SearchResultItem{}

	materialRows := []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}{}
	if err := s.DB.Select(&materialRows, `
SELECT id, title
FROM materials
WHERE status = 'published'
  AND (lower(title) LIKE $1 OR lower(description) LIKE $1 OR tags::text ILIKE $1)
ORDER BY created_at DESC
LIMIT 20
`, like); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for _, row := range materialRows {
		items = append(items, SearchResultItem{ID: row.ID, Title: row.Title, Type: "MATERIAL"})
	}

	galleryRows := []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}{}
	if err := s.DB.Select(&galleryRows, `
SELECT id, title
FROM gallery_images
WHERE status = 'published' AND lower(title) LIKE $1
ORDER BY created_at DESC
LIMIT 20
`, like); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for _, row := range galleryRows {
		items = append(items, SearchResultItem{ID: row.ID, Title: row.Title, Type: "GALLERY_IMAGE"})
	}

	WriteJSON(w, http.StatusOK, SearchResponse{Items: items})
}

func (s *Server) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var req VisitRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	ip := resolveClientIP(r)
	ua := trimString(r.Header.Get("User-Agent"), 512)
	path := trimString(deref(req.Path), 255)
	ref := trimString(deref(req.Referrer), 512)
	_, _ = s.DB.Exec(`
INSERT INTO site_visits (id, ip_address, user_agent, path, referrer, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.NewString(), nullIfEmpty(ip), nullIfEmpty(ua), nullIfEmpty(path), nullIfEmpty(ref), time.Now().UTC())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) VisitCount(w http.ResponseWriter, r *http.Request) {
	var total int
	_ = s.DB.Get(&total, `SELECT count(*) FROM site_visits`)
	WriteJSON(w, http.StatusOK, VisitCountResponse{Total: total})
}

func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := s.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}
	id, err := services.SaveFeedback(s.DB, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Message))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	go s.Mailer.Send(req.Name, req.Email, req.Message)
	WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "received"})
}

// resolveClientIP yields a stable identity per client host. The port on
// RemoteAddr changes per connection and must never leak into the identity.
func resolveClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func trimString(value string, maxLen int) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
			cut--
		}
		return trimmed[:cut]
	}
	return trimmed
}

func nullIfEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
