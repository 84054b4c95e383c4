// Package knowledge loads the static knowledge document and renders it into the
// text block that grounds every model answer.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"consult-agent/internal/domain"
)

// Load reads, validates and decodes the record from src.
func Load(ctx context.Context, src Source) (domain.KnowledgeRecord, error) {
	if src == nil {
		return domain.KnowledgeRecord{}, errors.New("knowledge: source must not be nil")
	}
	raw, err := src.Read(ctx)
	if err != nil {
		return domain.KnowledgeRecord{}, err
	}
	if err := validate(raw); err != nil {
		return domain.KnowledgeRecord{}, err
	}
	var rec domain.KnowledgeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.KnowledgeRecord{}, fmt.Errorf("knowledge: decode document: %w", err)
	}
	return rec, nil
}

// LoadFormatted returns the formatted knowledge text, or "" when the document
// cannot be loaded. Failures are logged and never returned.
func LoadFormatted(ctx context.Context, src Source, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}
	rec, err := Load(ctx, src)
	if err != nil {
		name := "<nil>"
		if src != nil {
			name = src.String()
		}
		log.Error("failed to load knowledge document", zap.String("source", name), zap.Error(err))
		return ""
	}
	text := Format(rec)
	log.Info("knowledge document loaded",
		zap.String("source", src.String()),
		zap.Int("services", len(rec.Services)),
		zap.Int("faq", len(rec.FAQ)),
		zap.Int("bytes", len(text)),
	)
	return text
}
