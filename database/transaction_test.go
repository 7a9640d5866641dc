package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoTransactorRetriesTransientErrors(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("write conflict reruns the unit of work", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    112,
				Name:    "WriteConflict",
				Message: "write conflict",
				Labels:  []string{"TransientTransactionError"},
			}),
			mtest.CreateSuccessResponse(), // abortTransaction
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(), // commitTransaction
		)

		attempts := 0
		err := NewMongoTransactor(mt.Client).WithinTransaction(context.Background(), func(ctx context.Context) error {
			attempts++
			_, err := mt.Coll.InsertOne(ctx, bson.D{{Key: "seq", Value: attempts}})
			return err
		})
		require.NoError(mt, err)
		assert.Equal(mt, 2, attempts)
	})

	mt.Run("plain errors are returned once", func(mt *mtest.T) {
		boom := errors.New("capacity gone")
		attempts := 0
		err := NewMongoTransactor(mt.Client).WithinTransaction(context.Background(), func(context.Context) error {
			attempts++
			return boom
		})
		assert.ErrorIs(mt, err, boom)
		assert.Equal(mt, 1, attempts)
	})
}
