package supabase

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient talks to Supabase Storage with the service-role key, so
// buckets can stay private and every read goes through a signed URL.
type StorageClient struct {
	client  *storage.Client
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		baseURL: baseURL,
	}, nil
}

// Upload stores data under name. With upsert the same name overwrites the
// existing object instead of failing.
func (s *StorageClient) Upload(bucket, name string, data []byte, contentType string, upsert bool) error {
	cacheControl := "3600"
	_, err := s.client.UploadFile(bucket, name, bytes.NewReader(data), storage.FileOptions{
		CacheControl: &cacheControl,
		ContentType:  &contentType,
		Upsert:       &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, name, err)
	}
	return nil
}

// Download reads an object with service-role credentials.
func (s *StorageClient) Download(bucket, name string) ([]byte, error) {
	data, err := s.client.DownloadFile(bucket, name)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", bucket, name, err)
	}
	return data, nil
}

// SignedURL mints a time-bounded URL for a private object.
func (s *StorageClient) SignedURL(bucket, name string, ttl time.Duration) (string, error) {
	resp, err := s.client.CreateSignedUrl(bucket, name, int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s/%s: %w", bucket, name, err)
	}
	if resp.SignedURL == "" {
		return "", fmt.Errorf("empty signed url for %s/%s", bucket, name)
	}
	return s.absolute(resp.SignedURL), nil
}

// Exists reports whether bucket holds an object named exactly name. The
// storage search is a prefix match, so results are filtered by name.
func (s *StorageClient) Exists(bucket, name string) (bool, error) {
	files, err := s.client.ListFiles(bucket, "", storage.FileSearchOptions{
		Limit:  100,
		Search: name,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list %s: %w", bucket, err)
	}
	for _, file := range files {
		if file.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// absolute turns the relative "/object/sign/..." path some storage versions
// return into a full URL.
func (s *StorageClient) absolute(signed string) string {
	if strings.HasPrefix(signed, "http://") || strings.HasPrefix(signed, "https://") {
		return signed
	}
	if !strings.HasPrefix(signed, "/") {
		signed = "/" + signed
	}
	if strings.HasPrefix(signed, "/storage/v1/") {
		return s.baseURL + signed
	}
	return s.baseURL + "/storage/v1" + signed
}

// ObjectName extracts the object name from a stored handle: either a bare
// name or any public/signed storage URL whose last segment is the name.
func ObjectName(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	if u, err := url.Parse(handle); err == nil && u.Path != "" {
		handle = u.Path
	} else if i := strings.IndexAny(handle, "?#"); i >= 0 {
		handle = handle[:i]
	}
	name := path.Base(handle)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
