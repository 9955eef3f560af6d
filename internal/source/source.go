// Package source resolves the message argument to a local file, downloading
// gs:// objects from Cloud Storage first.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// Fetcher downloads the bytes behind a storage URI.
// This interface enables mocking of Cloud Storage in tests.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// GCSFetcher reads objects from Google Cloud Storage.
type GCSFetcher struct {
	opts []option.ClientOption
}

// NewGCSFetcher returns a fetcher using the given service account key file,
// or Application Default Credentials when credentialsFile is empty.
func NewGCSFetcher(credentialsFile string) *GCSFetcher {
	f := &GCSFetcher{}
	if credentialsFile != "" {
		f.opts = append(f.opts, option.WithCredentialsFile(credentialsFile))
	}
	return f
}

// Fetch downloads the object named by a gs://bucket/object URI.
func (f *GCSFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectPath, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	storageClient, err := storage.NewClient(ctx, f.opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch: creating storage client: %w", err)
	}
	defer storageClient.Close()

	rc, err := storageClient.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading bytes: %w", err)
	}

	return data, nil
}

// IsGCSURI reports whether s names a Cloud Storage object.
func IsGCSURI(s string) bool {
	return strings.HasPrefix(s, gcsScheme)
}

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object path.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || strings.Trim(parts[1], "/") == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// FilenameFromURI extracts the filename from a GCS URI.
// e.g., "gs://bucket/inbox/lease.eml" → "lease.eml"
func FilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, gcsScheme)

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	return path.Base(parts[1])
}

// Stager turns an input argument into a local path.
type Stager struct {
	fetcher Fetcher
	dir     string
}

// NewStager stages remote inputs into dir. An empty dir means a
// "jeextract" directory under the system temp dir.
func NewStager(fetcher Fetcher, dir string) *Stager {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "jeextract")
	}
	return &Stager{fetcher: fetcher, dir: dir}
}

// Resolve returns input unchanged when it is a local path. A gs:// input is
// downloaded to <dir>/<object base name> and that path is returned, so
// attachments land next to the staged copy.
func (s *Stager) Resolve(ctx context.Context, input string) (string, error) {
	if !IsGCSURI(input) {
		return input, nil
	}
	if _, _, err := ParseGCSURI(input); err != nil {
		return "", err
	}
	if s.fetcher == nil {
		return "", fmt.Errorf("stage %s: no storage fetcher configured", input)
	}

	data, err := s.fetcher.Fetch(ctx, input)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", input, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("stage %s: create staging dir: %w", input, err)
	}

	local := filepath.Join(s.dir, FilenameFromURI(input))
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", fmt.Errorf("stage %s: write %s: %w", input, local, err)
	}

	return local, nil
}
