package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func uniqueKeys(t *testing.T, models []mongo.IndexModel) []bson.D {
	t.Helper()
	var keys []bson.D
	for _, m := range models {
		require.NotNil(t, m.Options)
		require.NotNil(t, m.Options.Unique)
		assert.True(t, *m.Options.Unique)
		keys = append(keys, m.Keys.(bson.D))
	}
	return keys
}

func TestCollectionIndexesDeclareUniqueness(t *testing.T) {
	indexes := collectionIndexes()

	users := uniqueKeys(t, indexes["users"])
	require.Len(t, users, 1)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, users[0])

	donations := uniqueKeys(t, indexes["donations"])
	require.Len(t, donations, 1)
	assert.Equal(t, bson.D{{Key: "receipt_no", Value: 1}}, donations[0])

	creds := uniqueKeys(t, indexes["portal_credentials"])
	require.Len(t, creds, 1)
	assert.Equal(t, bson.D{{Key: "portal_key", Value: 1}, {Key: "username", Value: 1}}, creds[0])
}
