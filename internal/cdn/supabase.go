package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"video-upscaler-backend/internal/models"
)

// SupabaseUploader stores videos in a Supabase Storage bucket. It has no
// transcoding: originals and enhanced results are copied as-is.
type SupabaseUploader struct {
	client     *storage.Client
	bucket     string
	baseURL    string
	httpClient *http.Client
}

func NewSupabaseUploader(supabaseURL, serviceKey, bucket string) *SupabaseUploader {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	return &SupabaseUploader{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// ObjectPath names the stored object: {folder}/{uuid}{ext}.
func ObjectPath(kind models.AssetKind, sourceURL string) string {
	var ext string
	if u, err := url.Parse(sourceURL); err == nil {
		ext = path.Ext(u.Path)
	}
	if ext == "" || len(ext) > 5 {
		ext = ".mp4"
	}
	return Folder(kind) + "/" + uuid.NewString() + ext
}

func (s *SupabaseUploader) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

func (s *SupabaseUploader) Upload(ctx context.Context, sourceURL string, kind models.AssetKind) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &models.UpstreamError{Service: "supabase", Op: "download", Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{Service: "supabase", Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &models.UpstreamError{
			Service: "supabase",
			Op:      "download",
			Err:     fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	upsert := false
	objectPath := ObjectPath(kind, sourceURL)

	_, err = s.client.UploadFile(s.bucket, objectPath, resp.Body, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return nil, &models.UpstreamError{Service: "supabase", Op: "upload", Err: err}
	}

	return &Asset{URL: s.PublicURL(objectPath), PublicID: objectPath}, nil
}
