package mirror

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func reaction(post, author uuid.UUID, e models.Emotion, sec int) models.Reaction {
	return models.Reaction{
		ID:         uuid.NewString(),
		PostID:     post,
		AuthorID:   author,
		Emotion:    e,
		CreatedAt:  base.Add(time.Duration(sec) * time.Second),
		ModifiedAt: base.Add(time.Duration(sec) * time.Second),
	}
}

func warning(post uuid.UUID, voters ...uuid.UUID) models.ControversyWarning {
	return models.ControversyWarning{
		ID:        uuid.NewString(),
		PostID:    post,
		VoteCount: len(voters),
		Voters:    voters,
	}
}

func TestReplace_GroupsByPost(t *testing.T) {
	m := New()
	p1, p2 := uuid.New(), uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	err := m.Replace(
		[]models.Reaction{
			reaction(p1, u1, models.EmotionSad, 1),
			reaction(p2, u1, models.EmotionHappy, 2),
			reaction(p1, u2, models.EmotionAngry, 3),
		},
		[]models.ControversyWarning{warning(p2, u2)},
	)
	require.NoError(t, err)

	s := m.Snapshot()
	require.Equal(t, 2, s.Len())
	require.EqualValues(t, 1, s.Version())

	rs := s.Reactions(p1)
	require.Len(t, rs, 2)
	require.Equal(t, models.EmotionAngry, rs[0].Emotion) // emotion ASC
	require.Equal(t, models.EmotionSad, rs[1].Emotion)

	_, ok := s.Warning(p1)
	require.False(t, ok)
	w, ok := s.Warning(p2)
	require.True(t, ok)
	require.Equal(t, 1, w.VoteCount)

	require.Equal(t, map[models.Emotion]int{models.EmotionAngry: 1, models.EmotionSad: 1}, s.Counts(p1))

	ids := s.PostIDs()
	require.Len(t, ids, 2)
	require.ElementsMatch(t, []uuid.UUID{p1, p2}, ids)
}

func TestReplace_MalformedLeavesMirrorUnchanged(t *testing.T) {
	p, u := uuid.New(), uuid.New()

	tcs := []struct {
		name      string
		reactions []models.Reaction
		warnings  []models.ControversyWarning
	}{
		{"duplicate reaction", []models.Reaction{reaction(p, u, models.EmotionSad, 1), reaction(p, u, models.EmotionHappy, 2)}, nil},
		{"missing id", []models.Reaction{{PostID: p, AuthorID: u, Emotion: models.EmotionSad}}, nil},
		{"missing post", []models.Reaction{{ID: "x", AuthorID: u, Emotion: models.EmotionSad}}, nil},
		{"missing author", []models.Reaction{{ID: "x", PostID: p, Emotion: models.EmotionSad}}, nil},
		{"bad emotion", []models.Reaction{{ID: "x", PostID: p, AuthorID: u, Emotion: "bored"}}, nil},
		{"duplicate warning", nil, []models.ControversyWarning{warning(p), warning(p)}},
		{"count mismatch", nil, []models.ControversyWarning{{ID: "w", PostID: p, VoteCount: 2, Voters: []uuid.UUID{u}}}},
		{"duplicate voter", nil, []models.ControversyWarning{warning(p, u, u)}},
		{"warning without post", nil, []models.ControversyWarning{{ID: "w"}}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			m := New()
			good := reaction(uuid.New(), uuid.New(), models.EmotionShocked, 1)
			require.NoError(t, m.Replace([]models.Reaction{good}, nil))
			before := m.Snapshot()

			err := m.Replace(tc.reactions, tc.warnings)
			require.ErrorIs(t, err, ErrMalformedSnapshot)
			require.Same(t, before, m.Snapshot())

			err = m.ReplaceReactions(tc.reactions)
			if tc.reactions != nil {
				require.ErrorIs(t, err, ErrMalformedSnapshot)
			}
			err = m.ReplaceWarnings(tc.warnings)
			if tc.warnings != nil {
				require.ErrorIs(t, err, ErrMalformedSnapshot)
			}
		})
	}
}

func TestReplacePartial_KeepsOtherHalf(t *testing.T) {
	m := New()
	p1, p2 := uuid.New(), uuid.New()
	u := uuid.New()

	require.NoError(t, m.Replace([]models.Reaction{reaction(p1, u, models.EmotionSad, 1)}, []models.ControversyWarning{warning(p2)}))

	require.NoError(t, m.ReplaceReactions([]models.Reaction{reaction(p2, u, models.EmotionHappy, 2)}))
	s := m.Snapshot()
	require.Empty(t, s.Reactions(p1))
	require.Len(t, s.Reactions(p2), 1)
	_, ok := s.Warning(p2)
	require.True(t, ok)
	require.Equal(t, 1, s.Len())

	require.NoError(t, m.ReplaceWarnings(nil))
	s = m.Snapshot()
	_, ok = s.Warning(p2)
	require.False(t, ok)
	require.Len(t, s.Reactions(p2), 1)
}

func TestApplyReaction_CopyOnWrite(t *testing.T) {
	m := New()
	p1, p2 := uuid.New(), uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	r1 := reaction(p1, u1, models.EmotionHappy, 1)
	r2 := reaction(p2, u1, models.EmotionSad, 2)
	require.NoError(t, m.Replace([]models.Reaction{r1, r2}, nil))

	held := m.Snapshot()
	heldP1 := held.posts[p1].Reactions
	heldP2 := held.posts[p2].Reactions

	// Замена реакции того же автора и добавление новой.
	changed := r1
	changed.Emotion = models.EmotionAngry
	changed.ModifiedAt = base.Add(time.Hour)
	require.NoError(t, m.ApplyReaction(changed))
	require.NoError(t, m.ApplyReaction(reaction(p1, u2, models.EmotionConfused, 3)))

	// Старый снимок не изменился.
	require.Equal(t, []models.Reaction{r1}, held.Reactions(p1))
	require.Equal(t, []models.Reaction{r1}, heldP1)
	require.Equal(t, uint64(1), held.Version())

	cur := m.Snapshot()
	require.Equal(t, uint64(3), cur.Version())
	rs := cur.Reactions(p1)
	require.Len(t, rs, 2)
	require.Equal(t, models.EmotionAngry, rs[0].Emotion)
	require.Equal(t, models.EmotionConfused, rs[1].Emotion)

	// Срез незатронутого поста разделяется, а не копируется.
	require.Same(t, &heldP2[0], &cur.posts[p2].Reactions[0])

	got, ok := cur.Reaction(p1, u1)
	require.True(t, ok)
	require.Equal(t, models.EmotionAngry, got.Emotion)
}

func TestApplyReaction_Invalid(t *testing.T) {
	m := New()
	before := m.Snapshot()

	err := m.ApplyReaction(models.Reaction{ID: "x", PostID: uuid.New(), AuthorID: uuid.New(), Emotion: "meh"})
	require.ErrorIs(t, err, ErrMalformedSnapshot)
	require.Same(t, before, m.Snapshot())
}

func TestRemoveReaction(t *testing.T) {
	m := New()
	p := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	r1 := reaction(p, u1, models.EmotionHappy, 1)
	r2 := reaction(p, u2, models.EmotionSad, 2)
	require.NoError(t, m.Replace([]models.Reaction{r1, r2}, nil))
	held := m.Snapshot()

	require.True(t, m.RemoveReaction(p, u1))
	require.Equal(t, []models.Reaction{r2}, m.Snapshot().Reactions(p))
	require.Equal(t, []models.Reaction{r1, r2}, held.Reactions(p))

	require.False(t, m.RemoveReaction(p, u1))
	require.False(t, m.RemoveReaction(uuid.New(), u1))

	require.True(t, m.RemoveReaction(p, u2))
	require.Equal(t, 0, m.Snapshot().Len())
}

func TestApplyWarning(t *testing.T) {
	m := New()
	p := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	created := warning(p)
	require.NoError(t, m.ApplyWarning(created))
	held := m.Snapshot()

	voted := warning(p, u1, u2)
	voted.ID = created.ID
	voted.Active = true
	require.NoError(t, m.ApplyWarning(voted))

	w, ok := m.Snapshot().Warning(p)
	require.True(t, ok)
	require.Equal(t, 2, w.VoteCount)
	require.True(t, w.Active)

	old, ok := held.Warning(p)
	require.True(t, ok)
	require.Equal(t, 0, old.VoteCount)

	// Устаревшая запись того же предупреждения игнорируется.
	stale := warning(p, u1)
	stale.ID = created.ID
	version := m.Snapshot().Version()
	require.NoError(t, m.ApplyWarning(stale))
	require.Equal(t, version, m.Snapshot().Version())

	// Активность не откатывается.
	same := warning(p, u1, u2)
	same.ID = created.ID
	require.NoError(t, m.ApplyWarning(same))
	w, _ = m.Snapshot().Warning(p)
	require.True(t, w.Active)

	// Мутация возвращённой копии не задевает снимок.
	w.Voters[0] = uuid.New()
	again, _ := m.Snapshot().Warning(p)
	require.Equal(t, u1, again.Voters[0])

	require.ErrorIs(t, m.ApplyWarning(warning(p, u1, u1)), ErrMalformedSnapshot)
}

func TestApplyWarning_RecreatedAfterPurge(t *testing.T) {
	m := New()
	p := uuid.New()

	old := warning(p, uuid.New(), uuid.New(), uuid.New())
	old.Active = true
	require.NoError(t, m.ApplyWarning(old))

	// Пост очищен, предупреждение создано заново: новый ID, ноль голосов.
	fresh := warning(p)
	require.NoError(t, m.ApplyWarning(fresh))

	w, ok := m.Snapshot().Warning(p)
	require.True(t, ok)
	require.Equal(t, fresh.ID, w.ID)
	require.Equal(t, 0, w.VoteCount)
	require.False(t, w.Active)
	require.Empty(t, w.Voters)
}

func TestMirror_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	m := New()
	p := uuid.New()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				s := m.Snapshot()
				rs := s.Reactions(p)
				// Каждый снимок согласован с собственной версией.
				if uint64(len(rs)) != s.Version() {
					t.Errorf("version %d has %d reactions", s.Version(), len(rs))
					return
				}
			}
		}()
	}

	for i := range 50 {
		require.NoError(t, m.ApplyReaction(reaction(p, uuid.New(), models.EmotionHappy, i)))
	}
	close(stop)
	wg.Wait()

	require.Len(t, m.Snapshot().Reactions(p), 50)
}
