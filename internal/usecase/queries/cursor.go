package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	cursorVersionV1  = "v1"
)

// PageKey is the keyset position of the last row of a page, ordered by (created_at, id) descending.
type PageKey struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeCursor(key PageKey) *Cursor {
	raw := fmt.Sprintf("%s:%d-%s", cursorVersionV1, key.CreatedAt.UnixMicro(), key.ID.String())
	return &Cursor{After: base64.URLEncoding.EncodeToString([]byte(raw))}
}

func DecodeCursor(c *Cursor) (*PageKey, error) {
	if c == nil || c.After == "" {
		return nil, nil
	}
	decoded, err := base64.URLEncoding.DecodeString(c.After)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	payload, ok := strings.CutPrefix(string(decoded), cursorVersionV1+":")
	if !ok {
		return nil, ErrInvalidCursor
	}

	micros, idPart, ok := strings.Cut(payload, "-")
	if !ok {
		return nil, ErrInvalidCursor
	}
	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &PageKey{CreatedAt: time.UnixMicro(ts).UTC(), ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
