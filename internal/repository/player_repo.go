package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"typerace/internal/model"
)

type PlayerRepo interface {
	Create(ctx context.Context, player *model.Player) error
	// UpsertByClientKey enrolls a player at most once per (room, clientKey):
	// a retried join returns the already-created player instead of a duplicate.
	UpsertByClientKey(ctx context.Context, player *model.Player) (*model.Player, error)
	GetByID(ctx context.Context, id string) (*model.Player, error)
	// UpdateProgress applies a last-write-wins set of progress and wpm. The
	// filter pins the owning room and skips players whose finishedAt is
	// already stamped; nothing is written when it does not match, and
	// (nil, nil) is returned in that case as well as for unknown IDs.
	UpdateProgress(ctx context.Context, roomCode, id string, progress, wpm int) (*model.Player, error)
	// StampFinished sets finishedAt once; a second stamp never matches.
	StampFinished(ctx context.Context, id string, at time.Time) (bool, error)
	// ListByRoom returns all players of a room ordered by descending wpm.
	ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error)
}

type playerRepo struct {
	collection *mongo.Collection
}

func NewPlayerRepo(db *mongo.Database) PlayerRepo {
	return &playerRepo{
		collection: db.Collection("players"),
	}
}

func (r *playerRepo) Create(ctx context.Context, player *model.Player) error {
	_, err := r.collection.InsertOne(ctx, player)
	return err
}

func (r *playerRepo) UpsertByClientKey(ctx context.Context, player *model.Player) (*model.Player, error) {
	filter := bson.M{"roomCode": player.RoomCode, "clientKey": player.ClientKey}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       player.ID,
		"roomCode":  player.RoomCode,
		"clientKey": player.ClientKey,
		"name":      player.Name,
		"progress":  player.Progress,
		"wpm":       player.WPM,
		"joinedAt":  player.JoinedAt,
	}}

	var out model.Player
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Player not found
		}
		return nil, err
	}

	return &player, nil
}

func (r *playerRepo) UpdateProgress(ctx context.Context, roomCode, id string, progress, wpm int) (*model.Player, error) {
	filter := bson.M{"_id": id, "roomCode": roomCode, "finishedAt": nil}
	update := bson.M{"$set": bson.M{"progress": progress, "wpm": wpm}}

	var player model.Player
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Unknown ID, or the player already finished
		}
		return nil, err
	}

	return &player, nil
}

func (r *playerRepo) StampFinished(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "finishedAt": nil},
		bson.M{"$set": bson.M{"finishedAt": at}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *playerRepo) ListByRoom(ctx context.Context, roomCode string) ([]*model.Player, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "wpm", Value: -1},
		{Key: "joinedAt", Value: 1},
	})
	cur, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var players []*model.Player
	if err := cur.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}
