package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"qber/internal/taxonomy"
)

// TocCache stores the last-fetched leaf groups per (project, questionnaire)
// so `qber toc --offline` works without the API. Payloads are JSON encoded
// and zstd compressed.
type TocCache struct {
	db *DB
}

// NewTocCache creates a cache instance over an open database.
func NewTocCache(db *DB) *TocCache {
	return &TocCache{db: db}
}

// Get retrieves cached leaf groups. Returns false when the entry is absent
// or expired; expired entries are deleted on read.
func (c *TocCache) Get(projectID, questionnaireID string) ([]taxonomy.LeafRecord, bool, error) {
	var payload []byte
	var expiresAt string

	err := c.db.conn.QueryRow(`
		SELECT payload, expires_at
		FROM toc_cache
		WHERE project_id = ? AND questionnaire_id = ?
	`, projectID, questionnaireID).Scan(&payload, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}

	expiresAtTime, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, fmt.Errorf("invalid expires_at format: %w", err)
	}
	if time.Now().After(expiresAtTime) {
		_, _ = c.db.conn.Exec(`DELETE FROM toc_cache WHERE project_id = ? AND questionnaire_id = ?`,
			projectID, questionnaireID)
		return nil, false, nil
	}

	records, err := decodePayload(payload)
	if err != nil {
		return nil, false, fmt.Errorf("cache payload corrupt: %w", err)
	}
	return records, true, nil
}

// Set stores leaf groups with the given TTL, replacing any previous entry.
func (c *TocCache) Set(projectID, questionnaireID string, records []taxonomy.LeafRecord, ttl time.Duration) error {
	payload, err := encodePayload(records)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	now := time.Now()
	_, err = c.db.conn.Exec(`
		INSERT OR REPLACE INTO toc_cache (project_id, questionnaire_id, payload, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, questionnaireID, payload,
		now.Add(ttl).Format(time.RFC3339), now.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for a questionnaire, if any.
func (c *TocCache) Invalidate(projectID, questionnaireID string) error {
	_, err := c.db.conn.Exec(`DELETE FROM toc_cache WHERE project_id = ? AND questionnaire_id = ?`,
		projectID, questionnaireID)
	return err
}

func encodePayload(records []taxonomy.LeafRecord) ([]byte, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func decodePayload(payload []byte) ([]taxonomy.LeafRecord, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, err
	}

	var records []taxonomy.LeafRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}
