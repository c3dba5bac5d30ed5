package mongo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cursorToken is the decoded form of a repository.Cursor: the sort-key pair
// (timestamp, _id) of the last document of the previous page. It round-trips
// through base64 so callers only ever see an opaque string.
type cursorToken struct {
	TimestampMillis int64  `json:"t"`
	ID              string `json:"id"`
}

func encodeCursor(ts primitive.DateTime, id primitive.ObjectID) repository.Cursor {
	raw, _ := json.Marshal(cursorToken{TimestampMillis: int64(ts), ID: id.Hex()})
	return repository.Cursor(base64.RawURLEncoding.EncodeToString(raw))
}

func decodeCursor(c repository.Cursor) (primitive.DateTime, primitive.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return 0, primitive.NilObjectID, fmt.Errorf("malformed cursor: %w", err)
	}
	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return 0, primitive.NilObjectID, fmt.Errorf("malformed cursor: %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(tok.ID)
	if err != nil {
		return 0, primitive.NilObjectID, fmt.Errorf("malformed cursor: %w", err)
	}
	return primitive.DateTime(tok.TimestampMillis), oid, nil
}
