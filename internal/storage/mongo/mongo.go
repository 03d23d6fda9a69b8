// Package mongo — авторитетное хранилище реакций и предупреждений в MongoDB.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pribylovaa/fritter-signals/internal/config"
	"github.com/pribylovaa/fritter-signals/internal/storage"
)

const (
	reactionsCollection = "reactions"
	warningsCollection  = "controversy_warnings"
	usersCollection     = "users"
	freetsCollection    = "freets"
	defaultDBName       = "fritter"

	closeTimeout = 5 * time.Second
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg       *config.Config
	client    *mongodriver.Client
	db        *mongodriver.Database
	reactions *mongodriver.Collection
	warnings  *mongodriver.Collection
	users     *mongodriver.Collection
	freets    *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:       cfg,
		client:    cli,
		db:        db,
		reactions: db.Collection(reactionsCollection),
		warnings:  db.Collection(warningsCollection),
		users:     db.Collection(usersCollection),
		freets:    db.Collection(freetsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		m.Close()
		return nil, err
	}

	return m, nil
}

// Close отключает клиента.
func (m *Mongo) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	_ = m.client.Disconnect(ctx)
}

// ensureIndexes создает индексы, необходимые сервису сигналов.
// - реакции: уникальная пара post_id + author_id, выборки по автору и по свежести;
// - предупреждения: не более одного на post_id, выборка по свежести.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	reactionModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "author_id", Value: 1}},
			Options: options.Index().SetName("post_author_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("author"),
		},
		{
			Keys:    bson.D{{Key: "modified_at", Value: -1}},
			Options: options.Index().SetName("modified_desc"),
		},
	}

	if _, err := m.reactions.Indexes().CreateMany(ctx, reactionModels); err != nil {
		return fmt.Errorf("mongo ensure indexes (reactions): %w", err)
	}

	warningModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}},
			Options: options.Index().SetName("post_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "modified_at", Value: -1}},
			Options: options.Index().SetName("modified_desc"),
		},
	}

	if _, err := m.warnings.Indexes().CreateMany(ctx, warningModels); err != nil {
		return fmt.Errorf("mongo ensure indexes (warnings): %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

// toMS приводит время к точности MongoDB DateTime (миллисекунды, UTC).
func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// advance — новое modified_at: не раньше now и строго позже prev.
// При миллисекундной точности изменение в ту же миллисекунду иначе не сдвинуло бы отметку.
func advance(now, prev time.Time) time.Time {
	now = toMS(now)
	if floor := toMS(prev).Add(time.Millisecond); now.Before(floor) {
		return floor
	}

	return now
}

// advanceExpr — серверный аналог advance для pipeline-обновлений.
func advanceExpr(now time.Time) bson.D {
	return bson.D{{Key: "$max", Value: bson.A{
		toMS(now),
		bson.D{{Key: "$add", Value: bson.A{"$modified_at", 1}}},
	}}}
}

func uuidStrings(ids []uuid.UUID) bson.A {
	out := make(bson.A, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}

// Проверка на соответствие интерфейсам.
var (
	_ storage.Storage   = (*Mongo)(nil)
	_ storage.Directory = (*Mongo)(nil)
)
