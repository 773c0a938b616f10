package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/applyos/applyos/internal/models"
	"github.com/applyos/applyos/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService struct {
	DB    *gorm.DB
	Store storage.ObjectStore
	LLM   *LLMService
}

func NewDocumentService(db *gorm.DB, store storage.ObjectStore, llm *LLMService) *DocumentService {
	return &DocumentService{DB: db, Store: store, LLM: llm}
}

// Upload streams the file into object storage and records the metadata row.
func (s *DocumentService) Upload(ctx context.Context, fileName, mimeType, kind string, size int64, r io.Reader) (*models.Document, error) {
	if kind == "" {
		kind = models.DocOther
	}
	id := uuid.NewString()
	key := id + "/" + filepath.Base(fileName)

	if err := s.Store.Upload(ctx, key, r, size, mimeType); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	doc := &models.Document{
		ID:         id,
		FileName:   filepath.Base(fileName),
		MimeType:   mimeType,
		SizeBytes:  size,
		Kind:       kind,
		StorageKey: key,
	}
	if err := s.DB.Create(doc).Error; err != nil {
		// best effort: don't leave an orphan object behind
		_ = s.Store.Delete(ctx, key)
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Get(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.DB.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) List() ([]models.Document, error) {
	var docs []models.Document
	err := s.DB.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// DownloadURL returns a presigned URL valid for one hour.
func (s *DocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return s.Store.PresignedURL(ctx, doc.StorageKey, time.Hour)
}

// Delete removes the object first, then the row. A missing object is not
// fatal; the row is the source of truth.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	_ = s.Store.Delete(ctx, doc.StorageKey)
	return s.DB.Delete(doc).Error
}

// Parse runs AI extraction over the stored document text and caches the
// structured profile on the row.
func (s *DocumentService) Parse(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	rc, err := s.Store.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	profile, err := s.LLM.ParseResume(ctx, string(raw))
	if err != nil {
		return nil, fmt.Errorf("resume parse failed: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{"parsed_profile": profile, "parsed_at": now}
	if err := s.DB.Model(doc).Updates(updates).Error; err != nil {
		return nil, err
	}
	doc.ParsedProfile = profile
	doc.ParsedAt = &now
	return doc, nil
}

// ProfileFor returns the parsed profile JSON for a document id, or empty
// string when the id is blank or the document has not been parsed.
func (s *DocumentService) ProfileFor(id string) string {
	if id == "" {
		return ""
	}
	doc, err := s.Get(id)
	if err != nil {
		return ""
	}
	return doc.ParsedProfile
}
