package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
)

type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	GetLatestByUser(ctx context.Context, userID int64) (*model.Session, error)

	// IncrementCounters bumps questions/correct in a single $inc update so
	// concurrent evaluations never lose a count. Completed sessions are
	// left untouched.
	IncrementCounters(ctx context.Context, id string, questions, correct int) error

	// Complete marks the session completed and clears any in-flight
	// pairing. Idempotent.
	Complete(ctx context.Context, id string) error
	CompleteActiveByUser(ctx context.Context, userID int64) error

	// SetCurrentQuestion records the in-flight pairing, overwriting any
	// prior pairing for the session.
	SetCurrentQuestion(ctx context.Context, id, questionID string) error

	// ConsumeCurrentQuestion clears the pairing only when it still
	// references questionID, and reports whether this call consumed it.
	// Exactly one of any number of racing consumers succeeds.
	ConsumeCurrentQuestion(ctx context.Context, id, questionID string) (bool, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) GetLatestByUser(ctx context.Context, userID int64) (*model.Session, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) IncrementCounters(ctx context.Context, id string, questions, correct int) error {
	filter := bson.M{"_id": id, "status": model.SessionActive}
	update := bson.M{"$inc": bson.M{
		"questions": questions,
		"correct":   correct,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *sessionRepo) Complete(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"status":          model.SessionCompleted,
		"currentQuestion": "",
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *sessionRepo) CompleteActiveByUser(ctx context.Context, userID int64) error {
	filter := bson.M{"userId": userID, "status": model.SessionActive}
	update := bson.M{"$set": bson.M{
		"status":          model.SessionCompleted,
		"currentQuestion": "",
	}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *sessionRepo) SetCurrentQuestion(ctx context.Context, id, questionID string) error {
	filter := bson.M{"_id": id, "status": model.SessionActive}
	update := bson.M{"$set": bson.M{"currentQuestion": questionID}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *sessionRepo) ConsumeCurrentQuestion(ctx context.Context, id, questionID string) (bool, error) {
	filter := bson.M{
		"_id":             id,
		"status":          model.SessionActive,
		"currentQuestion": questionID,
	}
	update := bson.M{"$set": bson.M{"currentQuestion": ""}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
