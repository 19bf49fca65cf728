package plantdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"planttracker/internal/identify"
	"planttracker/internal/services"
)

const documentColumns = `document, notes`

// Fixed-width timestamps keep created_at ordering lexical.
const columnTime = "2006-01-02T15:04:05.000000000Z07:00"

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (identify.Response, error) {
	var (
		raw   string
		notes string
	)
	if err := row.Scan(&raw, &notes); err != nil {
		return identify.Response{}, err
	}
	var doc identify.Response
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return identify.Response{}, fmt.Errorf("decode document: %w", err)
	}
	doc.Notes = notes
	return doc, nil
}

func (s *Store) insert(ctx context.Context, doc *identify.Response, createdAt time.Time) error {
	stored := *doc
	stored.Notes = ""
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	timestamp := createdAt.UTC().Format(columnTime)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plants (id, user_id, document, notes, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, nullableString(doc.UserID), string(payload), doc.Notes, timestamp, timestamp,
	)
	if err != nil {
		return services.Wrap(services.ErrNetworkFailure, "plantdb", "identify", "insert document", err)
	}
	return nil
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return services.Wrap(services.ErrNetworkFailure, "plantdb", operation, "rows affected", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "plantdb", operation, fmt.Sprintf("no plant %q", id), nil)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
