package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/fritter-signals/internal/storage"
)

// Коллекции users и freets принадлежат основному приложению и здесь только читаются.
type userDoc struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
}

type freetDoc struct {
	ID       string `bson:"_id"`
	AuthorID string `bson:"author_id"`
}

// caseInsensitive — сравнение строк без учёта регистра.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// UserIDByUsername ищет пользователя по имени без учёта регистра.
func (m *Mongo) UserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	const op = "storage/mongo/UserIDByUsername"

	var doc userDoc
	opts := options.FindOne().SetCollation(caseInsensitive)
	err := m.users.FindOne(ctx, bson.D{{Key: "username", Value: strings.TrimSpace(username)}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: user id: %w", op, err)
	}

	return id, nil
}

// PostAuthor подтверждает существование поста и возвращает его автора.
func (m *Mongo) PostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	const op = "storage/mongo/PostAuthor"

	var doc freetDoc
	if err := m.freets.FindOne(ctx, bson.D{{Key: "_id", Value: postID.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: author id: %w", op, err)
	}

	return id, nil
}

// PostsByAuthor возвращает идентификаторы постов автора.
func (m *Mongo) PostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	const op = "storage/mongo/PostsByAuthor"

	findOpts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "author_id", Value: 1}})

	cur, err := m.freets.Find(ctx, bson.D{{Key: "author_id", Value: authorID.String()}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	ids := []uuid.UUID{}
	for cur.Next(ctx) {
		var doc freetDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: post id: %w", op, err)
		}
		ids = append(ids, id)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return ids, nil
}
