package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

// pendingOrderKey holds the one draft snapshot a visitor may have.
const pendingOrderKey = "pendingOrderData"

// DraftPersistence saves the draft across the login round trip. None of its
// operations fail: storage problems are logged and the draft is simply not kept.
type DraftPersistence struct {
	storage ports.Storage
	ttl     time.Duration
	log     zerolog.Logger
}

func NewDraftPersistence(storage ports.Storage, ttl time.Duration, log zerolog.Logger) *DraftPersistence {
	return &DraftPersistence{storage: storage, ttl: ttl, log: log}
}

// Save overwrites the snapshot with d, minus its attachments.
func (p *DraftPersistence) Save(ctx context.Context, d domain.OrderDraft) {
	raw, err := json.Marshal(domain.NewSnapshot(d))
	if err != nil {
		p.log.Error().Err(err).Msg("draft snapshot not encodable")
		return
	}
	if err := p.storage.Set(ctx, pendingOrderKey, string(raw), p.ttl); err != nil {
		p.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("draft snapshot not saved")
	}
}

// Load returns the saved snapshot. Missing and unreadable snapshots both
// report ok=false.
func (p *DraftPersistence) Load(ctx context.Context) (domain.DraftSnapshot, bool) {
	var snap domain.DraftSnapshot
	raw, found, err := p.storage.Get(ctx, pendingOrderKey)
	if err != nil {
		p.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("draft snapshot not loaded")
		return snap, false
	}
	if !found {
		return snap, false
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		p.log.Warn().Err(err).Msg("corrupt draft snapshot ignored")
		return domain.DraftSnapshot{}, false
	}
	return snap, true
}

// Clear removes the snapshot. Clearing twice is the same as clearing once.
func (p *DraftPersistence) Clear(ctx context.Context) {
	if err := p.storage.Delete(ctx, pendingOrderKey); err != nil {
		p.log.Warn().Err(fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)).Msg("draft snapshot not cleared")
	}
}
