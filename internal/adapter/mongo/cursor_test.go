package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nyius/HouseMarketplace/internal/port/repository"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := primitive.NewDateTimeFromTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	oid := primitive.NewObjectID()

	cursor := encodeCursor(ts, oid)
	require.NotEmpty(t, cursor)

	gotTS, gotOID, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, ts, gotTS)
	assert.Equal(t, oid, gotOID)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	cases := []string{
		"not base64 at all!!!",
		"bm90LWpzb24", // valid base64, not json
		"eyJ0IjoxfQ",  // json without an id
	}
	for _, c := range cases {
		_, _, err := decodeCursor(repository.Cursor(c))
		assert.Error(t, err, c)
	}
}
