package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func stageNames(t *testing.T, p []bson.D) []string {
	t.Helper()
	names := make([]string, 0, len(p))
	for _, stage := range p {
		require.Len(t, stage, 1)
		names = append(names, stage[0].Key)
	}
	return names
}

func TestOrderStatsPipeline_StageOrder(t *testing.T) {
	p := orderStatsPipeline()
	assert.Equal(t,
		[]string{"$unwind", "$addFields", "$lookup", "$unwind", "$group", "$project", "$sort"},
		stageNames(t, p))
}

func TestOrderStatsPipeline_LooksUpMenuCollection(t *testing.T) {
	lookup := orderStatsPipeline()[2][0].Value.(bson.D)
	assert.Contains(t, lookup, bson.E{Key: "from", Value: CollMenu})
	assert.Contains(t, lookup, bson.E{Key: "foreignField", Value: "_id"})
}

func TestRevenuePipeline_GroupsEverythingTogether(t *testing.T) {
	p := revenuePipeline()
	require.Len(t, p, 1)
	group := p[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: nil}, group[0])
}

func TestParseID(t *testing.T) {
	id, err := ParseID("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", id.Hex())

	_, err = ParseID("not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestParseIDs_FailsOnFirstBadID(t *testing.T) {
	_, err := ParseIDs([]string{"64b7f0c2a1b2c3d4e5f60718", "zzz"})
	assert.ErrorIs(t, err, ErrInvalidID)

	ids, err := ParseIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
