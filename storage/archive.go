package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// ScorecardArchiver uploads the final scorecard bundle of a completed
// tournament and returns the object key under which it was stored.
type ScorecardArchiver interface {
	ArchiveScorecard(ctx context.Context, t *models.Tournament) (key string, err error)
	// DeleteScorecard removes a previously archived bundle by its key.
	DeleteScorecard(ctx context.Context, key string) error
}

type scorecardArchiver struct {
	uploader FileUploader
}

func NewScorecardArchiver(uploader FileUploader) ScorecardArchiver {
	return &scorecardArchiver{uploader: uploader}
}

func (a *scorecardArchiver) ArchiveScorecard(ctx context.Context, t *models.Tournament) (string, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode scorecard for tournament %d: %w", t.ID, err)
	}

	key := fmt.Sprintf("scorecards/tournament_%d.json", t.ID)
	if _, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return "", err
	}
	return key, nil
}

func (a *scorecardArchiver) DeleteScorecard(ctx context.Context, key string) error {
	return a.uploader.Delete(ctx, key)
}
