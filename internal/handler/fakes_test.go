package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// fakeReservationStore is an in-memory handler.ReservationStore that
// records which operations ran so tests can assert nothing was persisted
// on a rejected request.
type fakeReservationStore struct {
	byID          map[uint64]*model.Reservation
	nextID        uint64
	createCalls   int
	updateCalls   int
	listDates     []string
	searchQueries []string
	searchResult  []model.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byID: map[uint64]*model.Reservation{}, nextID: 1}
}

func (f *fakeReservationStore) add(res model.Reservation) *model.Reservation {
	if res.ID == 0 {
		res.ID = f.nextID
	}
	if res.ID >= f.nextID {
		f.nextID = res.ID + 1
	}
	stored := res
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.createCalls++
	res.ID = f.nextID
	f.nextID++
	stored := *res
	f.byID[stored.ID] = &stored
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	out := *res
	return &out, nil
}

func (f *fakeReservationStore) ListByDate(_ context.Context, date string) ([]model.Reservation, error) {
	f.listDates = append(f.listDates, date)
	out := []model.Reservation{}
	for _, res := range f.byID {
		if res.ReservationDate == date && res.Status != model.StatusFinished && res.Status != model.StatusCancelled {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) SearchByPhone(_ context.Context, number string) ([]model.Reservation, error) {
	f.searchQueries = append(f.searchQueries, number)
	return f.searchResult, nil
}

func (f *fakeReservationStore) Update(_ context.Context, res *model.Reservation) error {
	if _, ok := f.byID[res.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	f.updateCalls++
	stored := *res
	f.byID[stored.ID] = &stored
	return nil
}

// fakeTableStore is an in-memory handler.TableStore. Seat and Finish
// mirror the production transaction by mutating the table and the linked
// reservation store together.
type fakeTableStore struct {
	byID         map[uint64]*model.Table
	nextID       uint64
	reservations *fakeReservationStore
	seatCalls    int
	finishCalls  int
}

func newFakeTableStore(reservations *fakeReservationStore) *fakeTableStore {
	return &fakeTableStore{byID: map[uint64]*model.Table{}, nextID: 1, reservations: reservations}
}

func (f *fakeTableStore) add(tbl model.Table) *model.Table {
	if tbl.ID == 0 {
		tbl.ID = f.nextID
	}
	if tbl.ID >= f.nextID {
		f.nextID = tbl.ID + 1
	}
	stored := tbl
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeTableStore) Create(_ context.Context, tbl *model.Table) error {
	tbl.ID = f.nextID
	f.nextID++
	stored := *tbl
	f.byID[stored.ID] = &stored
	return nil
}

func (f *fakeTableStore) List(_ context.Context) ([]model.Table, error) {
	out := []model.Table{}
	for _, tbl := range f.byID {
		out = append(out, *tbl)
	}
	return out, nil
}

func (f *fakeTableStore) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	tbl, ok := f.byID[id]
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

func (f *fakeTableStore) Seat(_ context.Context, tableID, reservationID uint64) error {
	f.seatCalls++
	occupant := reservationID
	f.byID[tableID].ReservationID = &occupant
	f.reservations.byID[reservationID].Status = model.StatusSeated
	return nil
}

func (f *fakeTableStore) Finish(_ context.Context, tableID, reservationID uint64) error {
	f.finishCalls++
	f.byID[tableID].ReservationID = nil
	f.reservations.byID[reservationID].Status = model.StatusFinished
	return nil
}

var _ handler.ReservationStore = (*fakeReservationStore)(nil)
var _ handler.TableStore = (*fakeTableStore)(nil)

// Fixed clock for handler tests: Thursday 2030-01-10 12:00 in a UTC-8
// restaurant zone.
var (
	testLoc = time.FixedZone("UTC-8", -8*60*60)
	testNow = time.Date(2030, 1, 10, 12, 0, 0, 0, testLoc)
)

func newReservationHandler(store *fakeReservationStore) *handler.ReservationHandler {
	h := handler.NewReservationHandler(store, testLoc)
	h.Now = func() time.Time { return testNow }
	return h
}

// newContext builds an echo context for a request with an optional JSON
// body and path parameters given as alternating name/value pairs.
func newContext(t *testing.T, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.Zero(t, len(params)%2, "params must be name/value pairs")
	names := make([]string, 0, len(params)/2)
	values := make([]string, 0, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

type reservationResponse struct {
	Data  *model.Reservation `json:"data"`
	Error string             `json:"error"`
}

type tableResponse struct {
	Data  *model.Table `json:"data"`
	Error string       `json:"error"`
}

func decodeReservation(t *testing.T, rec *httptest.ResponseRecorder) reservationResponse {
	t.Helper()
	var resp reservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeTable(t *testing.T, rec *httptest.ResponseRecorder) tableResponse {
	t.Helper()
	var resp tableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
