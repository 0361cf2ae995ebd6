package repositories

import (
	"context"
	"hauswart/internal/database"
	. "hauswart/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	NOTES_CACHE_PREFIX = "note_templates"
	NOTES_CACHE_KEY    = "all"
	NOTES_CACHE_EXPIRY = 24 * time.Hour
)

type NoteRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*NoteTemplate, error)
	Upsert(ctx context.Context, tx *gorm.DB, template *NoteTemplate) error
}

type noteRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewNoteRepository(cache database.CacheClient) NoteRepository {
	return &noteRepository{
		cache: cache,
		log:   logger.New("noteRepository"),
	}
}

func (r *noteRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*NoteTemplate, error) {
	log := r.log.Function("GetAll")

	var cached []*NoteTemplate
	found, err := database.NewCacheBuilder(r.cache, NOTES_CACHE_KEY).
		WithContext(ctx).
		WithHash(NOTES_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get note templates from cache", "error", err)
	}

	if found {
		return cached, nil
	}

	templates, err := gorm.G[*NoteTemplate](tx).
		Order("sort_order ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get note templates", err)
	}

	err = database.NewCacheBuilder(r.cache, NOTES_CACHE_KEY).
		WithContext(ctx).
		WithHash(NOTES_CACHE_PREFIX).
		WithStruct(templates).
		WithTTL(NOTES_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set note templates in cache", "error", err)
	}

	return templates, nil
}

func (r *noteRepository) Upsert(ctx context.Context, tx *gorm.DB, template *NoteTemplate) error {
	log := r.log.Function("Upsert")

	var existing NoteTemplate
	err := tx.WithContext(ctx).
		Where("category = ?", template.Category).
		First(&existing).Error
	if err == nil {
		template.ID = existing.ID
		if saveErr := tx.WithContext(ctx).Save(template).Error; saveErr != nil {
			return log.Err("failed to update note template", saveErr, "category", template.Category)
		}
	} else if err == gorm.ErrRecordNotFound {
		if createErr := gorm.G[NoteTemplate](tx).Create(ctx, template); createErr != nil {
			return log.Err("failed to create note template", createErr, "category", template.Category)
		}
	} else {
		return log.Err("failed to look up note template", err, "category", template.Category)
	}

	clearErr := database.NewCacheBuilder(r.cache, NOTES_CACHE_KEY).
		WithContext(ctx).
		WithHash(NOTES_CACHE_PREFIX).
		Delete()
	if clearErr != nil {
		log.Warn("failed to clear note template cache", "error", clearErr)
	}

	return nil
}
