package handlers

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

// ProofStorage persists an uploaded proof file and returns the URL it
// will be served from. The intake engine itself never sees bytes.
type ProofStorage interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// NewProofStorage selects the backend by environment: Google Cloud
// Storage in production, local disk in development.
func NewProofStorage() ProofStorage {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != "" // Cloud Run indicator
	if useGCS {
		return &gcsStorage{bucket: os.Getenv("GCS_BUCKET")}
	}
	return &localStorage{dir: "./uploads/proofs"}
}

// uniqueName prefixes the original file name with a timestamp and a
// random component so concurrent uploads never collide.
func uniqueName(original string) string {
	ext := filepath.Ext(original)
	return fmt.Sprintf("%s-%d%s", time.Now().Format("20060102-150405"), rand.Int63n(1e9), ext)
}

type localStorage struct {
	dir string
}

func (s *localStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uniqueName(filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return fmt.Sprintf("/uploads/proofs/%s", name), nil
}

type gcsStorage struct {
	bucket string
}

func (s *gcsStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create GCS client: %w", err)
	}
	defer client.Close()

	name := "proofs/" + uniqueName(filename)
	obj := client.Bucket(s.bucket).Object(name)
	wc := obj.NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to upload to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}
