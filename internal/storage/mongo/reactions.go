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

// reactionDoc — документ коллекции reactions. UUID хранятся строками.
type reactionDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PostID     string             `bson:"post_id"`
	AuthorID   string             `bson:"author_id"`
	Emotion    string             `bson:"emotion"`
	CreatedAt  time.Time          `bson:"created_at"`
	ModifiedAt time.Time          `bson:"modified_at"`
}

func (d reactionDoc) model() (models.Reaction, error) {
	postID, err := uuid.Parse(d.PostID)
	if err != nil {
		return models.Reaction{}, fmt.Errorf("post_id: %w", err)
	}

	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return models.Reaction{}, fmt.Errorf("author_id: %w", err)
	}

	return models.Reaction{
		ID:         d.ID.Hex(),
		PostID:     postID,
		AuthorID:   authorID,
		Emotion:    models.Emotion(d.Emotion),
		CreatedAt:  d.CreatedAt.UTC(),
		ModifiedAt: d.ModifiedAt.UTC(),
	}, nil
}

func reactionKey(postID, authorID uuid.UUID) bson.D {
	return bson.D{
		{Key: "post_id", Value: postID.String()},
		{Key: "author_id", Value: authorID.String()},
	}
}

// CreateReaction вставляет реакцию. Уникальный индекс (post_id, author_id) даёт storage.ErrConflict.
func (m *Mongo) CreateReaction(ctx context.Context, r models.Reaction, at time.Time) (*models.Reaction, error) {
	const op = "storage/mongo/CreateReaction"

	now := toMS(at)
	doc := reactionDoc{
		PostID:     r.PostID.String(),
		AuthorID:   r.AuthorID.String(),
		Emotion:    string(r.Emotion),
		CreatedAt:  now,
		ModifiedAt: now,
	}

	res, err := m.reactions.InsertOne(ctx, doc)
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

// UpdateReaction меняет emotion и modified_at, created_at не трогается.
// modified_at всегда продвигается вперёд, даже внутри той же миллисекунды.
func (m *Mongo) UpdateReaction(ctx context.Context, postID, authorID uuid.UUID, emotion models.Emotion, at time.Time) (*models.Reaction, error) {
	const op = "storage/mongo/UpdateReaction"

	update := bson.A{bson.D{{Key: "$set", Value: bson.D{
		{Key: "emotion", Value: string(emotion)},
		{Key: "modified_at", Value: advanceExpr(at)},
	}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc reactionDoc
	if err := m.reactions.FindOneAndUpdate(ctx, reactionKey(postID, authorID), update, opts).Decode(&doc); err != nil {
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

// DeleteReaction удаляет реакцию; повтор — storage.ErrNotFound.
func (m *Mongo) DeleteReaction(ctx context.Context, postID, authorID uuid.UUID) error {
	const op = "storage/mongo/DeleteReaction"

	res, err := m.reactions.DeleteOne(ctx, reactionKey(postID, authorID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ReactionByPostAndAuthor возвращает реакцию пользователя на пост.
func (m *Mongo) ReactionByPostAndAuthor(ctx context.Context, postID, authorID uuid.UUID) (*models.Reaction, error) {
	const op = "storage/mongo/ReactionByPostAndAuthor"

	var doc reactionDoc
	if err := m.reactions.FindOne(ctx, reactionKey(postID, authorID)).Decode(&doc); err != nil {
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

// ListReactions возвращает реакции по фильтру.
// Сортировка: post_id, emotion, created_at, _id (все ASC).
func (m *Mongo) ListReactions(ctx context.Context, f models.ReactionFilter) ([]models.Reaction, error) {
	const op = "storage/mongo/ListReactions"

	if f.PostIDs != nil && len(f.PostIDs) == 0 {
		return []models.Reaction{}, nil
	}

	filter := bson.D{}
	if f.PostIDs != nil {
		filter = append(filter, bson.E{Key: "post_id", Value: bson.D{{Key: "$in", Value: uuidStrings(f.PostIDs)}}})
	}
	if f.AuthorID != uuid.Nil {
		filter = append(filter, bson.E{Key: "author_id", Value: f.AuthorID.String()})
	}

	findOpts := options.Find().SetSort(bson.D{
		{Key: "post_id", Value: 1},
		{Key: "emotion", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cur, err := m.reactions.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []models.Reaction{}
	for cur.Next(ctx) {
		var doc reactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		r, err := doc.model()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, r)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// DeleteReactionsByPost удаляет все реакции поста.
func (m *Mongo) DeleteReactionsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	const op = "storage/mongo/DeleteReactionsByPost"

	res, err := m.reactions.DeleteMany(ctx, bson.D{{Key: "post_id", Value: postID.String()}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount, nil
}

// DeleteReactionsByAuthor удаляет все реакции пользователя.
func (m *Mongo) DeleteReactionsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	const op = "storage/mongo/DeleteReactionsByAuthor"

	res, err := m.reactions.DeleteMany(ctx, bson.D{{Key: "author_id", Value: authorID.String()}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount, nil
}
