package sessions

import (
	"campus-route-service/internal/adapters/directions"
	"campus-route-service/internal/adapters/render"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/services"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storePlaces = []domain.Place{{Name: "Union", Lat: 38.959, Lng: -95.243}}

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	provider := directions.NewMockDirectionsProvider(storePlaces)
	s := NewStore(func() (*services.Orchestrator, *render.GeoJSONRenderer, error) {
		r := render.NewGeoJSONRenderer(render.View{})
		o, err := services.NewOrchestrator(storePlaces, provider, r)
		return o, r, err
	})

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStoreCreateGetDelete(t *testing.T) {
	s, _ := newTestStore(t)

	sess, err := s.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Orchestrator)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, s.Delete(sess.ID))
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete(sess.ID), ErrSessionNotFound)
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	s, _ := newTestStore(t)

	a, err := s.Create()
	require.NoError(t, err)
	b, err := s.Create()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.Orchestrator.AddPlace("Union"))
	assert.Len(t, a.Orchestrator.Route().Stops, 1)
	assert.Empty(t, b.Orchestrator.Route().Stops)
}

func TestStoreSweepRemovesIdleSessions(t *testing.T) {
	s, now := newTestStore(t)

	idle, err := s.Create()
	require.NoError(t, err)
	active, err := s.Create()
	require.NoError(t, err)

	*now = now.Add(90 * time.Minute)
	_, err = s.Get(active.ID)
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, s.Sweep(time.Hour))

	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestStoreCreatePropagatesFactoryError(t *testing.T) {
	s := NewStore(func() (*services.Orchestrator, *render.GeoJSONRenderer, error) {
		return nil, nil, errors.New("catalogue offline")
	})

	_, err := s.Create()
	assert.ErrorContains(t, err, "catalogue offline")
	assert.Equal(t, 0, s.Len())
}
