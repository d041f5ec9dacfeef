package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"typerace/internal/model"
)

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByCode(ctx context.Context, code string) (*model.Room, error)
	// ClaimHost assigns the host exactly once: the update only matches a room
	// whose host slot is still empty. Reports whether this call won the claim.
	ClaimHost(ctx context.Context, code, playerID string) (bool, error)
	// Start transitions a startable room to in-progress and stamps startTime
	// atomically. Returns (nil, nil) when no startable room matched, so the
	// caller can distinguish replay from an unknown code by re-reading.
	Start(ctx context.Context, code string, at time.Time) (*model.Room, error)
	SetStatus(ctx context.Context, code string, status model.RoomStatus) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{
		collection: db.Collection("rooms"),
	}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

func (r *roomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Room not found
		}
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) ClaimHost(ctx context.Context, code, playerID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code, "hostId": ""},
		bson.M{"$set": bson.M{"hostId": playerID}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *roomRepo) Start(ctx context.Context, code string, at time.Time) (*model.Room, error) {
	filter := bson.M{
		"code":   code,
		"status": bson.M{"$in": []model.RoomStatus{model.RoomWaiting, model.RoomStarting}},
	}
	update := bson.M{"$set": bson.M{
		"status":    model.RoomInProgress,
		"startTime": at,
	}}

	var room model.Room
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Nothing startable matched
		}
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) SetStatus(ctx context.Context, code string, status model.RoomStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
