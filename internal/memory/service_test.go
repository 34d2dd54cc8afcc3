package memory

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashEmbedder produces deterministic unit vectors from a text hash so
// identical texts land at distance zero from each other.
type hashEmbedder struct {
	dims int
	err  error
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dims)
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// memStore is an in-memory Store with cosine distance, mirroring the SQL
// store's contract: account scoping, exclusion, distance-then-id ordering.
type memStore struct {
	nextID  int64
	records []Record
	err     error
}

func (s *memStore) Insert(_ context.Context, rec *Record) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	rec.ID = s.nextID
	rec.CreatedAt = time.Now().UTC()
	s.records = append(s.records, *rec)
	return nil
}

func (s *memStore) Search(_ context.Context, accountID, excludeEventID string, embedding []float32, topK int) ([]Hit, error) {
	if s.err != nil {
		return nil, s.err
	}

	var hits []Hit
	for _, rec := range s.records {
		if rec.AccountID != accountID {
			continue
		}
		if excludeEventID != "" && rec.EventID == excludeEventID {
			continue
		}
		hits = append(hits, Hit{
			ID:        rec.ID,
			AccountID: rec.AccountID,
			EventID:   rec.EventID,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
			Distance:  cosineDistance(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func newTestService(store Store, embedder Embedder, enabled bool) *Service {
	return NewService(store, embedder, nil, enabled, 5)
}

func TestService_RememberThenRecall(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8}, true)
	ctx := context.Background()

	require.NoError(t, svc.Remember(ctx, "ACC1", "EVT1", "hello world"))

	hits, err := svc.RecallSimilar(ctx, "ACC1", "", "hello world", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "ACC1", hits[0].AccountID)
	assert.Equal(t, "EVT1", hits[0].EventID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6, "identical text should be nearest")
}

func TestService_RecallExcludesEventID(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8}, true)
	ctx := context.Background()

	require.NoError(t, svc.Remember(ctx, "ACC1", "EVT1", "wire transfer to new payee"))
	require.NoError(t, svc.Remember(ctx, "ACC1", "EVT2", "card payment at grocery store"))

	// EVT1 is the nearest neighbor of its own content but must be skipped.
	hits, err := svc.RecallSimilar(ctx, "ACC1", "EVT1", "wire transfer to new payee", 5)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "EVT1", h.EventID)
	}
	require.Len(t, hits, 1)
	assert.Equal(t, "EVT2", hits[0].EventID)
}

func TestService_RecallScopedByAccount(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8}, true)
	ctx := context.Background()

	require.NoError(t, svc.Remember(ctx, "ACC1", "EVT1", "salary deposit"))
	require.NoError(t, svc.Remember(ctx, "ACC2", "EVT2", "salary deposit"))

	hits, err := svc.RecallSimilar(ctx, "ACC1", "", "salary deposit", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ACC1", hits[0].AccountID)
}

func TestService_RecallHitsSortedByDistance(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8}, true)
	ctx := context.Background()

	contents := []string{
		"unusual login from new device",
		"monthly rent payment",
		"international wire transfer",
		"coffee shop purchase",
	}
	for i, c := range contents {
		require.NoError(t, svc.Remember(ctx, "ACC1", "EVT"+string(rune('A'+i)), c))
	}

	hits, err := svc.RecallSimilar(ctx, "ACC1", "", "unusual login attempt", 10)
	require.NoError(t, err)
	require.Len(t, hits, len(contents))
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance,
			"hits must be in non-decreasing distance order")
	}
}

func TestService_Disabled(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8}, false)
	ctx := context.Background()

	require.NoError(t, svc.Remember(ctx, "ACC1", "EVT1", "hello"))
	assert.Empty(t, store.records, "disabled service must not insert")

	hits, err := svc.RecallSimilar(ctx, "ACC1", "", "hello", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestService_EmbedderFailurePropagates(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, &hashEmbedder{dims: 8, err: ErrNoVectors}, true)
	ctx := context.Background()

	err := svc.Remember(ctx, "ACC1", "EVT1", "hello")
	require.ErrorIs(t, err, ErrNoVectors)
	assert.Empty(t, store.records, "nothing may be stored without a vector")

	_, err = svc.RecallSimilar(ctx, "ACC1", "", "hello", 5)
	require.ErrorIs(t, err, ErrNoVectors)
}

func TestService_StoreFailurePropagates(t *testing.T) {
	store := &memStore{err: errors.New("connection reset")}
	svc := newTestService(store, &hashEmbedder{dims: 8}, true)

	err := svc.Remember(context.Background(), "ACC1", "EVT1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestService_RecallDefaultTopK(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, &hashEmbedder{dims: 8}, nil, true, 2)
	ctx := context.Background()

	for _, id := range []string{"E1", "E2", "E3"} {
		require.NoError(t, svc.Remember(ctx, "ACC1", id, "payment "+id))
	}

	hits, err := svc.RecallSimilar(ctx, "ACC1", "", "payment", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2, "topK<=0 falls back to the configured default")
}
