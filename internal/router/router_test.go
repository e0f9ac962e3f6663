package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
)

type memoryStore struct {
	reservations map[uint64]*model.Reservation
	tables       map[uint64]*model.Table
	nextRes      uint64
	nextTbl      uint64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		reservations: map[uint64]*model.Reservation{},
		tables:       map[uint64]*model.Table{},
		nextRes:      1,
		nextTbl:      1,
	}
}

func (s *memoryStore) Create(_ context.Context, res *model.Reservation) error {
	res.ID = s.nextRes
	s.nextRes++
	stored := *res
	s.reservations[stored.ID] = &stored
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	res, ok := s.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	out := *res
	return &out, nil
}

func (s *memoryStore) ListByDate(_ context.Context, date string) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, res := range s.reservations {
		if res.ReservationDate == date && res.Status != model.StatusFinished && res.Status != model.StatusCancelled {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (s *memoryStore) SearchByPhone(_ context.Context, _ string) ([]model.Reservation, error) {
	return []model.Reservation{}, nil
}

func (s *memoryStore) Update(_ context.Context, res *model.Reservation) error {
	if _, ok := s.reservations[res.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	stored := *res
	s.reservations[stored.ID] = &stored
	return nil
}

type memoryTables struct{ store *memoryStore }

func (t memoryTables) Create(_ context.Context, tbl *model.Table) error {
	tbl.ID = t.store.nextTbl
	t.store.nextTbl++
	stored := *tbl
	t.store.tables[stored.ID] = &stored
	return nil
}

func (t memoryTables) List(_ context.Context) ([]model.Table, error) {
	out := []model.Table{}
	for _, tbl := range t.store.tables {
		out = append(out, *tbl)
	}
	return out, nil
}

func (t memoryTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	tbl, ok := t.store.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	out := *tbl
	if tbl.ReservationID != nil {
		occupant := *tbl.ReservationID
		out.ReservationID = &occupant
	}
	return &out, nil
}

func (t memoryTables) Seat(_ context.Context, tableID, reservationID uint64) error {
	occupant := reservationID
	t.store.tables[tableID].ReservationID = &occupant
	t.store.reservations[reservationID].Status = model.StatusSeated
	return nil
}

func (t memoryTables) Finish(_ context.Context, tableID, reservationID uint64) error {
	t.store.tables[tableID].ReservationID = nil
	t.store.reservations[reservationID].Status = model.StatusFinished
	return nil
}

var _ handler.ReservationStore = (*memoryStore)(nil)
var _ handler.TableStore = memoryTables{}

func newServer() (*echo.Echo, *memoryStore) {
	store := newMemoryStore()
	loc := time.FixedZone("UTC-8", -8*60*60)
	rh := handler.NewReservationHandler(store, loc)
	rh.Now = func() time.Time { return time.Date(2030, 1, 10, 12, 0, 0, 0, loc) }
	th := handler.NewTableHandler(memoryTables{store}, store, nil)

	e := echo.New()
	e.HTTPErrorHandler = router.HTTPErrorHandler
	router.Register(e, rh, th, nil)
	return e, store
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// TestVisitLifecycle drives a full visit through the API: book a
// reservation, seat it at a table, finish the visit, then verify the
// finished reservation is immutable and the table is free again.
func TestVisitLifecycle(t *testing.T) {
	e, store := newServer()

	rec := do(e, http.MethodPost, "/reservations", `{"data":{
		"first_name":"Ada","last_name":"Lovelace","mobile_number":"(555) 010-7788",
		"reservation_date":"2030-01-12","reservation_time":"18:00","people":4}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data model.Reservation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.StatusBooked, created.Data.Status)

	rec = do(e, http.MethodPost, "/tables", `{"data":{"table_name":"T1","capacity":4}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	seatPath := "/tables/1/seat"
	rec = do(e, http.MethodPut, seatPath, fmt.Sprintf(`{"data":{"reservation_id":%d}}`, created.Data.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusSeated, store.reservations[created.Data.ID].Status)
	require.NotNil(t, store.tables[1].ReservationID)
	assert.Equal(t, created.Data.ID, *store.tables[1].ReservationID)

	// Seating a seated reservation again must fail without moving it.
	rec = do(e, http.MethodPut, seatPath, fmt.Sprintf(`{"data":{"reservation_id":%d}}`, created.Data.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, seatPath, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"data":{}}`, rec.Body.String())
	assert.Nil(t, store.tables[1].ReservationID)
	assert.Equal(t, model.StatusFinished, store.reservations[created.Data.ID].Status)

	rec = do(e, http.MethodPut, fmt.Sprintf("/reservations/%d", created.Data.ID), `{"data":{
		"first_name":"Ada","last_name":"Lovelace","mobile_number":"(555) 010-7788",
		"reservation_date":"2030-01-12","reservation_time":"19:00","people":4}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "finished")

	rec = do(e, http.MethodDelete, seatPath, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	e, _ := newServer()

	rec := do(e, http.MethodDelete, "/reservations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"DELETE not allowed for /reservations"}`, rec.Body.String())
}

func TestUnknownPathEnvelope(t *testing.T) {
	e, _ := newServer()

	rec := do(e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}
