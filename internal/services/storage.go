package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"codemart-backend-go/internal/models"
)

const (
	PrefixAvatars   = "avatars"
	PrefixMaterials = "materials"
	PrefixGallery   = "gallery"
)

// ObjectStore wraps the MinIO client and the media_assets table. Every stored
// object has exactly one asset row; the asset id is the public handle.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{client: client, bucket: bucket}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *ObjectStore) SaveAsset(ctx context.Context, db *sqlx.DB, prefix, filename, ownerID string, body io.Reader) (string, string, error) {
	assetID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	storageKey := prefix + "/" + assetID + ext

	data, err := io.ReadAll(body)
	if err != nil {
		return "", "", err
	}
	if len(data) == 0 {
		return "", "", ErrBadRequest("Uploaded file is empty")
	}
	sum := sha256.Sum256(data)
	sha := hex.EncodeToString(sum[:])

	_, err = s.client.PutObject(ctx, s.bucket, storageKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": filename,
				"uploaded-at":       time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", err
	}

	var owner *string
	if strings.TrimSpace(ownerID) != "" {
		owner = &ownerID
	}
	_, err = db.Exec(`
INSERT INTO media_assets (id, owner_user_id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, assetID, owner, s.bucket, storageKey, filename, contentType, int64(len(data)), sha, time.Now().UTC())
	if err != nil {
		_ = s.client.RemoveObject(ctx, s.bucket, storageKey, minio.RemoveObjectOptions{})
		return "", "", err
	}
	return assetID, BuildAssetURL(assetID), nil
}

func (s *ObjectStore) OpenAsset(ctx context.Context, db *sqlx.DB, assetID string) (io.ReadCloser, models.MediaAsset, error) {
	asset := models.MediaAsset{}
	if err := db.Get(&asset, `
SELECT id, owner_user_id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at
FROM media_assets WHERE id = $1
`, assetID); err != nil {
		return nil, models.MediaAsset{}, ErrNotFound("Asset not found")
	}
	object, err := s.client.GetObject(ctx, asset.Bucket, asset.StorageKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, models.MediaAsset{}, err
	}
	return object, asset, nil
}

func (s *ObjectStore) DeleteAsset(ctx context.Context, db *sqlx.DB, assetID string) error {
	var storageKey string
	if err := db.Get(&storageKey, `SELECT storage_key FROM media_assets WHERE id = $1`, assetID); err != nil {
		return nil
	}
	_, _ = db.Exec(`DELETE FROM media_assets WHERE id = $1`, assetID)
	_ = s.client.RemoveObject(ctx, s.bucket, storageKey, minio.RemoveObjectOptions{})
	return nil
}

func BuildAssetURL(assetID string) string {
	return "/api/media/assets/" + assetID + "/content"
}
