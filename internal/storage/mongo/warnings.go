package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// warningDoc — документ коллекции controversy_warnings.
type warningDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PostID     string             `bson:"post_id"`
	VoteCount  int                `bson:"vote_count"`
	Voters     []string           `bson:"voters"`
	Active     bool               `bson:"active"`
	CreatedAt  time.Time          `bson:"created_at"`
	ModifiedAt time.Time          `bson:"modified_at"`
}

func (d warningDoc) model() (models.ControversyWarning, error) {
	postID, err := uuid.Parse(d.PostID)
	if err != nil {
		return models.ControversyWarning{}, fmt.Errorf("post_id: %w", err)
	}

	voters := make([]uuid.UUID, 0, len(d.Voters))
	for _, v := range d.Voters {
		id, err := uuid.Parse(v)
		if err != nil {
			return models.ControversyWarning{}, fmt.Errorf("voter: %w", err)
		}
		voters = append(voters, id)
	}

	return models.ControversyWarning{
		ID:         d.ID.Hex(),
		PostID:     postID,
		VoteCount:  d.VoteCount,
		Voters:     voters,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt.UTC(),
		ModifiedAt: d.ModifiedAt.UTC(),
	}, nil
}

// CreateWarning создаёт предупреждение с нулём голосов; повтор — storage.ErrConflict.
func (m *Mongo) CreateWarning(ctx context.Context, postID uuid.UUID, active bool, at time.Time) (*models.ControversyWarning, error) {
	const op = "storage/mongo/CreateWarning"

	now := toMS(at)
	doc := warningDoc{
		PostID:     postID.String(),
		Voters:     []string{},
		Active:     active,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	res, err := m.warnings.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// AddVote — один FindOneAndUpdate с фильтром «voter ещё не в voters»:
// проверка повторного голоса, добавление, инкремент и активация выполняются
// сервером атомарно над одним документом. Возвращается состояние «до»,
// по нему тот же переход вычисляется локально вместе с признаком активации.
func (m *Mongo) AddVote(ctx context.Context, postID, voter uuid.UUID, threshold int, at time.Time) (*models.ControversyWarning, bool, error) {
	const op = "storage/mongo/AddVote"

	now := toMS(at)
	filter := bson.D{
		{Key: "post_id", Value: postID.String()},
		{Key: "voters", Value: bson.D{{Key: "$ne", Value: voter.String()}}},
	}

	update := bson.A{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "voters", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$voters", bson.A{}}}},
				bson.A{voter.String()},
			}}}},
			{Key: "vote_count", Value: bson.D{{Key: "$add", Value: bson.A{"$vote_count", 1}}}},
			{Key: "modified_at", Value: advanceExpr(now)},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "active", Value: bson.D{{Key: "$or", Value: bson.A{
				"$active",
				bson.D{{Key: "$gte", Value: bson.A{"$vote_count", threshold}}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before warningDoc
	err := m.warnings.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if !errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}

		// Документа нет вовсе или голос уже учтён — различаем отдельным запросом.
		n, cntErr := m.warnings.CountDocuments(ctx, bson.D{{Key: "post_id", Value: postID.String()}})
		if cntErr != nil {
			return nil, false, fmt.Errorf("%s: count: %w", op, cntErr)
		}

		if n == 0 {
			return nil, false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, false, fmt.Errorf("%s: %w", op, storage.ErrAlreadyVoted)
	}

	prev, err := before.model()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	next, activated := prev.Voted(voter, threshold, advance(now, prev.ModifiedAt))

	return &next, activated, nil
}

// WarningByPost возвращает предупреждение поста.
func (m *Mongo) WarningByPost(ctx context.Context, postID uuid.UUID) (*models.ControversyWarning, error) {
	const op = "storage/mongo/WarningByPost"

	var doc warningDoc
	if err := m.warnings.FindOne(ctx, bson.D{{Key: "post_id", Value: postID.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := doc.model()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// ListWarnings возвращает предупреждения. Сортировка: modified_at DESC, _id DESC.
func (m *Mongo) ListWarnings(ctx context.Context, f models.WarningFilter) ([]models.ControversyWarning, error) {
	const op = "storage/mongo/ListWarnings"

	if f.PostIDs != nil && len(f.PostIDs) == 0 {
		return []models.ControversyWarning{}, nil
	}

	filter := bson.D{}
	if f.PostIDs != nil {
		filter = append(filter, bson.E{Key: "post_id", Value: bson.D{{Key: "$in", Value: uuidStrings(f.PostIDs)}}})
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "modified_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.warnings.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []models.ControversyWarning{}
	for cur.Next(ctx) {
		var doc warningDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		w, err := doc.model()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, w)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// DeleteWarningByPost удаляет предупреждение поста.
func (m *Mongo) DeleteWarningByPost(ctx context.Context, postID uuid.UUID) error {
	const op = "storage/mongo/DeleteWarningByPost"

	res, err := m.warnings.DeleteOne(ctx, bson.D{{Key: "post_id", Value: postID.String()}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
