// Package storage publishes finished highlight files to an object store so
// they can be fetched after local retention cleanup.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
)

// Store uploads files and mints time-limited download links.
type Store interface {
	Upload(localPath, remotePath string) error
	SignedURL(remotePath string, expiresInSec int) (string, error)
	Remove(remotePath string) error
}

// Supabase implements Store against a Supabase storage bucket.
type Supabase struct {
	client *storage_go.Client
	bucket string
	log    *logrus.Entry
}

func NewSupabase(url, apiKey, bucket string, log *logrus.Logger) *Supabase {
	return &Supabase{
		client: storage_go.NewClient(url+"/storage/v1", apiKey, nil),
		bucket: bucket,
		log:    log.WithField("component", "storage"),
	}
}

func (s *Supabase) Upload(localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(localPath), err)
	}
	defer f.Close()

	contentType := "video/mp4"
	_, err = s.client.UploadFile(s.bucket, remotePath, f, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	s.log.WithField("path", remotePath).Info("uploaded highlight file")
	return nil
}

func (s *Supabase) SignedURL(remotePath string, expiresInSec int) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, remotePath, expiresInSec)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", remotePath, err)
	}
	return resp.SignedURL, nil
}

func (s *Supabase) Remove(remotePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{remotePath})
	if err != nil {
		return fmt.Errorf("remove %s: %w", remotePath, err)
	}
	return nil
}
