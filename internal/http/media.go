package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"codemart-backend-go/internal/services"
)

type UploadResponse struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

const maxUploadBytes = 100 << 20

func (s *Server) uploadTo(prefix string, w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()
	assetID, url, err := s.Store.SaveAsset(r.Context(), s.DB, prefix, header.Filename, CurrentUserID(r), file)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, UploadResponse{AssetID: assetID, URL: url})
}

func (s *Server) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	s.uploadTo(services.PrefixAvatars, w, r)
}

func (s *Server) UploadMaterialFile(w http.ResponseWriter, r *http.Request) {
	s.uploadTo(services.PrefixMaterials, w, r)
}

func (s *Server) UploadGalleryImage(w http.ResponseWriter, r *http.Request) {
	s.uploadTo(services.PrefixGallery, w, r)
}

func (s *Server) MediaContent(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	object, asset, err := s.Store.OpenAsset(r.Context(), s.DB, assetID)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer object.Close()
	w.Header().Set("Content-Type", asset.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, object)
}
