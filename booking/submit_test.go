package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cine-booking-cli/catalog"
	"cine-booking-cli/model"
	"cine-booking-cli/service"
)

type fakeIdentity struct {
	user *model.User
}

func (f fakeIdentity) Identity() (model.User, bool) {
	if f.user == nil {
		return model.User{}, false
	}
	return *f.user, true
}

type fakeAPI struct {
	calls int
	req   model.PurchaseRequest
	res   model.PurchaseResponse
	err   error
}

func (f *fakeAPI) CreatePurchase(_ context.Context, req model.PurchaseRequest) (model.PurchaseResponse, error) {
	f.calls++
	f.req = req
	return f.res, f.err
}

func loggedIn() fakeIdentity {
	return fakeIdentity{user: &model.User{ID: 1, Username: "maria"}}
}

func newSubmitter(api PurchaseAPI, identity IdentitySource, slot Slot) *Submitter {
	s := NewSubmitter(api, identity, catalog.Default(), slot, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC) }
	return s
}

func selectedSession(t *testing.T, seats ...string) *Session {
	t.Helper()
	s := newShowtimeSession()
	for _, label := range seats {
		_, err := s.ToggleSeat(label, nil)
		require.NoError(t, err)
	}
	return s
}

func TestSubmit_EmptySelection(t *testing.T) {
	api := &fakeAPI{}
	slot := &MemorySlot{}
	_, err := newSubmitter(api, loggedIn(), slot).Submit(context.Background(), newShowtimeSession())

	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Zero(t, api.calls)
	_, ok, _ := slot.Take()
	assert.False(t, ok)
	assert.Equal(t, "Selecione pelo menos uma poltrona!", UserMessage(err))
}

func TestSubmit_WithoutIdentityPersistsSelection(t *testing.T) {
	api := &fakeAPI{}
	slot := &MemorySlot{}
	session := selectedSession(t, "A1", "A2")

	_, err := newSubmitter(api, fakeIdentity{}, slot).Submit(context.Background(), session)

	require.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Zero(t, api.calls)

	restored, ok, err := RestorePending(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session, restored)
}

func TestSubmit_BuildsRecordFromCatalog(t *testing.T) {
	api := &fakeAPI{res: model.PurchaseResponse{
		Message:  "Compra realizada com sucesso",
		Purchase: model.Purchase{ID: 42, Status: model.PurchaseActive},
	}}
	session := selectedSession(t, "A1", "A2", "B5")
	session.FilmName = "edited by hand"
	session.RoomName = "Sala VIP"

	conf, err := newSubmitter(api, loggedIn(), &MemorySlot{}).Submit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls)
	assert.Equal(t, model.PurchaseRequest{
		FilmeID:    1,
		FilmeNome:  "Vingadores: Ultimato",
		SalaID:     1,
		SalaNome:   "Sala 1",
		Horario:    "14:00",
		DataSessao: "2024-05-02",
		Poltronas:  []string{"A1", "A2", "B5"},
		ValorTotal: 75,
	}, api.req)
	assert.Equal(t, 42, conf.Purchase.ID)
	assert.Equal(t, "Compra realizada com sucesso", conf.Message)
}

func TestSubmit_CatalogMismatch(t *testing.T) {
	tests := map[string]func(*Session){
		"unknown film":         func(s *Session) { s.FilmID = 99 },
		"room of another film": func(s *Session) { s.RoomID = 3 },
		"showtime not offered": func(s *Session) { s.Showtime = "23:59" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{}
			session := selectedSession(t, "A1")
			mutate(session)

			_, err := newSubmitter(api, loggedIn(), &MemorySlot{}).Submit(context.Background(), session)
			require.ErrorIs(t, err, catalog.ErrNotFound)
			assert.Zero(t, api.calls)
		})
	}
}

func TestSubmit_RefusesOccupiedSeatFromStaleBlob(t *testing.T) {
	api := &fakeAPI{}
	session, err := Restore(`{"film_id":1,"room_id":1,"showtime":"14:00","seats":["A5"]}`)
	require.NoError(t, err)

	_, err = newSubmitter(api, loggedIn(), &MemorySlot{}).Submit(context.Background(), session)
	var validationErr *service.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Zero(t, api.calls)
}

func TestSubmit_ServerRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Campo poltronas é obrigatório"}`))
	}))
	defer server.Close()

	client := service.NewClient(server.URL, server.Client(), nil)
	_, err := newSubmitter(client, loggedIn(), &MemorySlot{}).Submit(context.Background(), selectedSession(t, "A1"))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "Campo poltronas é obrigatório", UserMessage(err))
}

func TestSubmit_ExpiredSessionPersistsSelection(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Usuário não autenticado"}`))
	}))
	defer server.Close()

	client := service.NewClient(server.URL, server.Client(), nil)
	slot := &MemorySlot{}
	session := selectedSession(t, "C7")

	_, err := newSubmitter(client, loggedIn(), slot).Submit(context.Background(), session)
	require.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.EqualValues(t, 1, hits)

	restored, ok, err := RestorePending(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session, restored)
}

func TestSubmit_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := service.NewClient(url, nil, nil)
	_, err := newSubmitter(client, loggedIn(), &MemorySlot{}).Submit(context.Background(), selectedSession(t, "A1"))

	assert.True(t, service.IsConnection(err))
	assert.Equal(t, "Erro de conexão. Tente novamente.", UserMessage(err))
}
