package service

import (
	"bistro/internal/dto"
	"bistro/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func insertResult(id primitive.ObjectID) dto.InsertResult {
	return dto.InsertResult{Acknowledged: true, InsertedID: id.Hex()}
}

func updateResult(c repository.UpdateCounts) *dto.UpdateResult {
	res := &dto.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  c.Matched,
		ModifiedCount: c.Modified,
		UpsertedCount: c.Upserted,
	}
	if c.UpsertedID != nil {
		hex := c.UpsertedID.Hex()
		res.UpsertedID = &hex
	}
	return res
}

func deleteResult(n int64) dto.DeleteResult {
	return dto.DeleteResult{Acknowledged: true, DeletedCount: n}
}
