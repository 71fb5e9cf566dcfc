package session

import (
	"context"
	"errors"

	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
)

// syncPublicDataAcrossSessions propagates the configured sync keys of data to
// every session record owned by the user. Only keys that are both configured
// and present in the incoming data are written; each record is loaded,
// JSON-merged, and stored individually, last-writer-wins.
func (m *Manager) syncPublicDataAcrossSessions(ctx context.Context, userID string, data PublicData) error {
	subset := PublicData{}
	for _, key := range m.cfg.PublicDataKeysToSyncAcrossSessions {
		if value, ok := data[key]; ok {
			subset[key] = value
		}
	}
	if len(subset) == 0 {
		return nil
	}

	recs, err := m.store.GetByUserID(ctx, userID)
	if err != nil {
		return errors.Join(ErrStore, err)
	}

	for _, rec := range recs {
		publicData, err := ParsePublicData(rec.PublicData)
		if err != nil {
			m.log.Warn("skipping session with unparseable public data during sync",
				logger.Component("session"), logger.Handle(rec.Handle), logger.Error(err))
			continue
		}

		mergedJSON, err := publicData.Merge(subset).JSON()
		if err != nil {
			return err
		}

		if err := m.store.Update(ctx, rec.Handle, RecordPatch{PublicData: &mergedJSON}); err != nil {
			if errors.Is(err, ErrNotFound) {
				// Session revoked between read and write.
				continue
			}
			return errors.Join(ErrStore, err)
		}

		m.log.Debug("synchronized public data across session",
			logger.Component("session"), logger.Handle(rec.Handle),
			logger.Event("public_data_synced"))
	}

	return nil
}
