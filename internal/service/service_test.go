package service

// Тесты сервисного слоя (internal/service).
//
//  Проверяем:
//  - валидацию входов и нормализацию emotion;
//  - маппинг ошибок storage -> service (InvalidArgument / NotFound / Conflict / AlreadyVoted / Internal);
//  - работу с кэшем предупреждений (read-through, write-through, сбои кэша не ломают операцию);
//  - сценарии и конкурентные свойства на хранилище в памяти.
//
// Моки: mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//       mockgen -source=./internal/cache/cache.go -destination=./mocks/cache.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/fritter-signals/internal/config"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/storage"
	"github.com/pribylovaa/fritter-signals/mocks"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type mockDeps struct {
	storage *mocks.MockStorage
	dir     *mocks.MockDirectory
	cache   *mocks.MockWarningCache
}

// newServiceWithMocks — поднимает сервис с моками стораджа, справочника и кэша.
func newServiceWithMocks(t *testing.T, cfg config.SignalsConfig) (*Service, mockDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := mockDeps{
		storage: mocks.NewMockStorage(ctrl),
		dir:     mocks.NewMockDirectory(ctrl),
		cache:   mocks.NewMockWarningCache(ctrl),
	}

	s := New(d.storage, cfg,
		WithDirectory(d.dir),
		WithCache(d.cache),
		WithClock(func() time.Time { return fixedNow }),
	)

	return s, d
}

func defaultSignals() config.SignalsConfig {
	return config.SignalsConfig{ActivationThreshold: 3}
}

func TestNew_ClampsThreshold(t *testing.T) {
	s := New(nil, config.SignalsConfig{ActivationThreshold: 0})
	require.Equal(t, 1, s.Threshold())
}

func TestService_React_Validation(t *testing.T) {
	s, _ := newServiceWithMocks(t, defaultSignals())
	ctx := context.Background()

	_, err := s.React(ctx, uuid.Nil, uuid.New(), "happy")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.React(ctx, uuid.New(), uuid.Nil, "happy")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.React(ctx, uuid.New(), uuid.New(), "meh")
	require.ErrorIs(t, err, ErrInvalidEmotion)

	_, err = s.UpdateReaction(ctx, uuid.New(), uuid.New(), "")
	require.ErrorIs(t, err, ErrInvalidEmotion)
}

func TestService_React_NormalizesEmotion(t *testing.T) {
	s, d := newServiceWithMocks(t, defaultSignals())

	postID, userID := uuid.New(), uuid.New()

	d.dir.EXPECT().PostAuthor(gomock.Any(), postID).Return(uuid.New(), nil)
	d.storage.EXPECT().
		CreateReaction(gomock.Any(), gomock.Any(), fixedNow).
		DoAndReturn(func(_ context.Context, r models.Reaction, at time.Time) (*models.Reaction, error) {
			require.Equal(t, models.EmotionShocked, r.Emotion)
			require.Equal(t, postID, r.PostID)
			require.Equal(t, userID, r.AuthorID)
			r.ID = "r1"
			r.CreatedAt, r.ModifiedAt = at, at
			return &r, nil
		})

	got, err := s.React(context.Background(), postID, userID, "  Shocked ")
	require.NoError(t, err)
	require.Equal(t, "r1", got.ID)
}

func TestService_React_Errors(t *testing.T) {
	s, d := newServiceWithMocks(t, defaultSignals())
	ctx := context.Background()
	postID, userID := uuid.New(), uuid.New()

	// пост не найден в справочнике
	d.dir.EXPECT().PostAuthor(gomock.Any(), postID).Return(uuid.Nil, storage.ErrNotFound)
	_, err := s.React(ctx, postID, userID, "happy")
	require.ErrorIs(t, err, ErrNotFound)

	// конфликт уникальности
	d.dir.EXPECT().PostAuthor(gomock.Any(), postID).Return(uuid.New(), nil).Times(3)
	d.storage.EXPECT().CreateReaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storage.ErrConflict)
	_, err = s.React(ctx, postID, userID, "happy")
	require.ErrorIs(t, err, ErrConflict)

	// прочая ошибка
	d.storage.EXPECT().CreateReaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	_, err = s.React(ctx, postID, userID, "happy")
	require.ErrorIs(t, err, ErrInternal)

	// дедлайн сохраняется рядом с ErrInternal
	d.storage.EXPECT().CreateReaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)
	_, err = s.React(ctx, postID, userID, "happy")
	require.ErrorIs(t, err, ErrInternal)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_UpdateRemoveFind(t *testing.T) {
	s, d := newServiceWithMocks(t, defaultSignals())
	ctx := context.Background()
	postID, userID := uuid.New(), uuid.New()

	d.storage.EXPECT().UpdateReaction(gomock.Any(), postID, userID, models.EmotionSad, fixedNow).Return(nil, storage.ErrNotFound)
	_, err := s.UpdateReaction(ctx, postID, userID, "SAD")
	require.ErrorIs(t, err, ErrNotFound)

	d.storage.EXPECT().DeleteReaction(gomock.Any(), postID, userID).Return(storage.ErrNotFound)
	require.ErrorIs(t, s.RemoveReaction(ctx, postID, userID), ErrNotFound)

	d.storage.EXPECT().DeleteReaction(gomock.Any(), postID, userID).Return(nil)
	require.NoError(t, s.RemoveReaction(ctx, postID, userID))

	d.storage.EXPECT().ReactionByPostAndAuthor(gomock.Any(), postID, userID).Return(nil, storage.ErrNotFound)
	got, ok, err := s.FindReaction(ctx, postID, userID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)

	want := &models.Reaction{ID: "r", PostID: postID, AuthorID: userID, Emotion: models.EmotionHappy}
	d.storage.EXPECT().ReactionByPostAndAuthor(gomock.Any(), postID, userID).Return(want, nil)
	got, ok, err = s.FindReaction(ctx, postID, userID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	d.storage.EXPECT().ReactionByPostAndAuthor(gomock.Any(), postID, userID).Return(nil, errors.New("boom"))
	_, _, err = s.FindReaction(ctx, postID, userID)
	require.ErrorIs(t, err, ErrInternal)
}

func TestService_ListReactions_Filters(t *testing.T) {
	s, d := newServiceWithMocks(t, defaultSignals())
	ctx := context.Background()

	aliceID, p1, p2 := uuid.New(), uuid.New(), uuid.New()

	// без фильтров: сортировка по свежести
	older := models.Reaction{ID: "a", ModifiedAt: fixedNow.Add(-time.Hour)}
	newer := models.Reaction{ID: "b", ModifiedAt: fixedNow}
	d.storage.EXPECT().ListReactions(gomock.Any(), models.ReactionFilter{}).Return([]models.Reaction{older, newer}, nil)
	got, err := s.ListReactions(ctx, ReactionQuery{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, []string{got[0].ID, got[1].ID})

	// по автору постов (имя) с пересечением с post_id
	d.dir.EXPECT().UserIDByUsername(gomock.Any(), "alice").Return(aliceID, nil)
	d.dir.EXPECT().PostsByAuthor(gomock.Any(), aliceID).Return([]uuid.UUID{p1, p2}, nil)
	d.storage.EXPECT().ListReactions(gomock.Any(), models.ReactionFilter{PostIDs: []uuid.UUID{p2}}).Return([]models.Reaction{}, nil)
	_, err = s.ListReactions(ctx, ReactionQuery{PostID: p2, PostAuthor: "alice"})
	require.NoError(t, err)

	// по автору реакций (UUID — без обращения к справочнику)
	d.storage.EXPECT().ListReactions(gomock.Any(), models.ReactionFilter{AuthorID: aliceID}).Return([]models.Reaction{}, nil)
	_, err = s.ListReactions(ctx, ReactionQuery{Author: aliceID.String()})
	require.NoError(t, err)

	// неизвестное имя
	d.dir.EXPECT().UserIDByUsername(gomock.Any(), "ghost").Return(uuid.Nil, storage.ErrNotFound)
	_, err = s.ListReactions(ctx, ReactionQuery{Author: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListReactions_NoDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)
	s := New(ms, defaultSignals())

	_, err := s.ListReactions(context.Background(), ReactionQuery{Author: "alice"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.ListWarnings(context.Background(), WarningQuery{PostAuthor: uuid.NewString()})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestService_CreateWarning(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	t.Run("deny preactivated", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, config.SignalsConfig{ActivationThreshold: 3, DenyPreactivated: true})
		_, err := s.CreateWarning(ctx, postID, true)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("conflict", func(t *testing.T) {
		s, d := newServiceWithMocks(t, defaultSignals())
		d.dir.EXPECT().PostAuthor(gomock.Any(), postID).Return(uuid.New(), nil)
		d.storage.EXPECT().CreateWarning(gomock.Any(), postID, false, fixedNow).Return(nil, storage.ErrConflict)

		_, err := s.CreateWarning(ctx, postID, false)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("ok writes through cache", func(t *testing.T) {
		s, d := newServiceWithMocks(t, defaultSignals())
		w := &models.ControversyWarning{ID: "w", PostID: postID, Voters: []uuid.UUID{}, Active: true}

		d.dir.EXPECT().PostAuthor(gomock.Any(), postID).Return(uuid.New(), nil)
		d.storage.EXPECT().CreateWarning(gomock.Any(), postID, true, fixedNow).Return(w, nil)
		d.cache.EXPECT().Set(gomock.Any(), w).Return(errors.New("redis down"))

		got, err := s.CreateWarning(ctx, postID, true)
		require.NoError(t, err)
		require.Equal(t, w, got)
	})
}

func TestService_CastVote(t *testing.T) {
	ctx := context.Background()
	postID, userID := uuid.New(), uuid.New()

	s, d := newServiceWithMocks(t, defaultSignals())

	_, err := s.CastVote(ctx, postID, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	d.storage.EXPECT().AddVote(gomock.Any(), postID, userID, 3, fixedNow).Return(nil, false, storage.ErrNotFound)
	_, err = s.CastVote(ctx, postID, userID)
	require.ErrorIs(t, err, ErrNotFound)

	d.storage.EXPECT().AddVote(gomock.Any(), postID, userID, 3, fixedNow).Return(nil, false, storage.ErrAlreadyVoted)
	_, err = s.CastVote(ctx, postID, userID)
	require.ErrorIs(t, err, ErrAlreadyVoted)

	w := &models.ControversyWarning{PostID: postID, VoteCount: 3, Voters: []uuid.UUID{uuid.New(), uuid.New(), userID}, Active: true}
	d.storage.EXPECT().AddVote(gomock.Any(), postID, userID, 3, fixedNow).Return(w, true, nil)
	d.cache.EXPECT().Set(gomock.Any(), w).Return(nil)
	got, err := s.CastVote(ctx, postID, userID)
	require.NoError(t, err)
	require.True(t, got.Active)
}

func TestService_FindWarning_Cache(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	w := &models.ControversyWarning{ID: "w", PostID: postID, Voters: []uuid.UUID{}}

	t.Run("hit skips storage", func(t *testing.T) {
		s, d := newServiceWithMocks(t, defaultSignals())
		d.cache.EXPECT().Get(gomock.Any(), postID).Return(w, true, nil)

		got, ok, err := s.FindWarning(ctx, postID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, w, got)
	})

	t.Run("miss reads through", func(t *testing.T) {
		s, d := newServiceWithMocks(t, defaultSignals())
		gomock.InOrder(
			d.cache.EXPECT().Get(gomock.Any(), postID).Return(nil, false, nil),
			d.storage.EXPECT().WarningByPost(gomock.Any(), postID).Return(w, nil),
			d.cache.EXPECT().Set(gomock.Any(), w).Return(nil),
		)

		got, ok, err := s.FindWarning(ctx, postID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, w, got)
	})

	t.Run("cache error falls back, absence is not an error", func(t *testing.T) {
		s, d := newServiceWithMocks(t, defaultSignals())
		d.cache.EXPECT().Get(gomock.Any(), postID).Return(nil, false, errors.New("redis down"))
		d.storage.EXPECT().WarningByPost(gomock.Any(), postID).Return(nil, storage.ErrNotFound)

		got, ok, err := s.FindWarning(ctx, postID)
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, got)
	})
}

func TestService_PurgePost(t *testing.T) {
	s, d := newServiceWithMocks(t, defaultSignals())
	ctx := context.Background()
	postID := uuid.New()

	d.storage.EXPECT().DeleteReactionsByPost(gomock.Any(), postID).Return(int64(4), nil)
	d.storage.EXPECT().DeleteWarningByPost(gomock.Any(), postID).Return(storage.ErrNotFound)
	d.cache.EXPECT().Delete(gomock.Any(), postID).Return(nil)

	n, err := s.PurgePost(ctx, postID)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	d.storage.EXPECT().DeleteReactionsByAuthor(gomock.Any(), postID).Return(int64(0), errors.New("boom"))
	_, err = s.PurgeAuthor(ctx, postID)
	require.ErrorIs(t, err, ErrInternal)

	_, err = s.PurgePost(ctx, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
