package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-night/config"
	"movie-night/models"
)

func TestValidateSeatRequest_HostSeatRejected(t *testing.T) {
	err := ValidateSeatRequest(1, "Anyone", "a@b.com")
	assert.ErrorIs(t, err, models.ErrSeatUnavailable)
}

func TestValidateSeatRequest_SeatOutOfRange(t *testing.T) {
	for _, seat := range []int{0, -1, 6, 99} {
		err := ValidateSeatRequest(seat, "Alice", "a@x.com")
		assert.ErrorIs(t, err, models.ErrSeatUnavailable, "seat %d", seat)
	}
}

func TestValidateSeatRequest_MissingFields(t *testing.T) {
	assert.ErrorIs(t, ValidateSeatRequest(2, "", "a@x.com"), models.ErrValidation)
	assert.ErrorIs(t, ValidateSeatRequest(2, "   ", "a@x.com"), models.ErrValidation)
	assert.ErrorIs(t, ValidateSeatRequest(2, "Alice", ""), models.ErrValidation)
	assert.ErrorIs(t, ValidateSeatRequest(2, "Alice", "not-an-email"), models.ErrValidation)
}

func TestValidateSeatRequest_AllGuestSeatsAccepted(t *testing.T) {
	for seat := models.FirstGuestSeat; seat <= models.SeatCount; seat++ {
		assert.NoError(t, ValidateSeatRequest(seat, "Alice", "a@x.com"), "seat %d", seat)
	}
}

func TestSeatMap_HostAlwaysPresent(t *testing.T) {
	m := SeatMap(nil, "Jim")
	assert.Equal(t, map[int]string{1: "Jim"}, m)
}

func TestSeatMap_GuestsShowFirstName(t *testing.T) {
	reservations := []models.SeatReservation{
		{Seat: 2, Name: "Alice Anderson"},
		{Seat: 4, Name: "Bob"},
	}
	m := SeatMap(reservations, "Jim")
	assert.Equal(t, "Alice", m[2])
	assert.Equal(t, "Bob", m[4])
	assert.Equal(t, "Jim", m[1])
	_, seat3 := m[3]
	assert.False(t, seat3)
}

func TestIsSoldOut(t *testing.T) {
	full := []models.SeatReservation{
		{Seat: 2}, {Seat: 3}, {Seat: 4}, {Seat: 5},
	}
	assert.True(t, IsSoldOut(full))
	assert.False(t, IsSoldOut(full[:3]))
	assert.False(t, IsSoldOut(nil))
}

func setupHoldService() (*ReservationService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	cfg := &config.Config{SeatHoldTTL: 10 * time.Second}
	return &ReservationService{Redis: db, cfg: cfg}, mock
}

func TestAcquireHold_Granted(t *testing.T) {
	service, mock := setupHoldService()
	defer mock.ClearExpect()

	mock.ExpectSetNX("hold:seat:scr123:2", seatHoldValue, 10*time.Second).SetVal(true)

	acquired, err := service.acquireHold(context.Background(), "scr123", 2)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireHold_Contended(t *testing.T) {
	service, mock := setupHoldService()
	defer mock.ClearExpect()

	mock.ExpectSetNX("hold:seat:scr123:2", seatHoldValue, 10*time.Second).SetVal(false)

	acquired, err := service.acquireHold(context.Background(), "scr123", 2)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseHold(t *testing.T) {
	service, mock := setupHoldService()
	defer mock.ClearExpect()

	mock.ExpectDel("hold:seat:scr123:2").SetVal(1)

	service.releaseHold(context.Background(), "scr123", 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_SecondGuestGetsSeatTaken(t *testing.T) {
	app := newStoreTestApp(t)
	screening := createTestScreening(t, app, "Heat")

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	service := NewReservationService(app, db, &config.Config{SeatHoldTTL: 10 * time.Second})

	holdKey := seatHoldKey(screening.Id, 2)
	mock.ExpectSetNX(holdKey, seatHoldValue, 10*time.Second).SetVal(true)
	mock.ExpectDel(holdKey).SetVal(1)
	mock.ExpectSetNX(holdKey, seatHoldValue, 10*time.Second).SetVal(true)
	mock.ExpectDel(holdKey).SetVal(1)

	first, err := service.Reserve(context.Background(), screening.Id, 2, "Alice Anderson", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Seat)

	_, err = service.Reserve(context.Background(), screening.Id, 2, "Bob Barker", "bob@example.com")
	assert.ErrorIs(t, err, models.ErrSeatTaken)

	// Alice keeps the seat and no duplicate record exists.
	stored, err := service.Reservations(context.Background(), screening.Id)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Alice Anderson", stored[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_OtherSeatStillOpen(t *testing.T) {
	app := newStoreTestApp(t)
	screening := createTestScreening(t, app, "Heat")

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	service := NewReservationService(app, db, &config.Config{SeatHoldTTL: 10 * time.Second})

	for _, seat := range []int{2, 3} {
		holdKey := seatHoldKey(screening.Id, seat)
		mock.ExpectSetNX(holdKey, seatHoldValue, 10*time.Second).SetVal(true)
		mock.ExpectDel(holdKey).SetVal(1)
	}

	_, err := service.Reserve(context.Background(), screening.Id, 2, "Alice Anderson", "alice@example.com")
	require.NoError(t, err)
	_, err = service.Reserve(context.Background(), screening.Id, 3, "Bob Barker", "bob@example.com")
	require.NoError(t, err)

	stored, err := service.Reservations(context.Background(), screening.Id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 2, stored[0].Seat)
	assert.Equal(t, 3, stored[1].Seat)
}

func TestRelease_FreesSeatForReuse(t *testing.T) {
	app := newStoreTestApp(t)
	screening := createTestScreening(t, app, "Heat")

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	service := NewReservationService(app, db, &config.Config{SeatHoldTTL: 10 * time.Second})

	holdKey := seatHoldKey(screening.Id, 4)
	mock.ExpectSetNX(holdKey, seatHoldValue, 10*time.Second).SetVal(true)
	mock.ExpectDel(holdKey).SetVal(1)
	mock.ExpectSetNX(holdKey, seatHoldValue, 10*time.Second).SetVal(true)
	mock.ExpectDel(holdKey).SetVal(1)

	_, err := service.Reserve(context.Background(), screening.Id, 4, "Alice Anderson", "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, service.Release(context.Background(), screening.Id, 4))
	// Releasing an already empty seat stays a no-op.
	require.NoError(t, service.Release(context.Background(), screening.Id, 4))

	_, err = service.Reserve(context.Background(), screening.Id, 4, "Carol Chen", "carol@example.com")
	require.NoError(t, err)

	stored, err := service.Reservations(context.Background(), screening.Id)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Carol Chen", stored[0].Name)
}

func TestReserve_UnknownScreening(t *testing.T) {
	app := newStoreTestApp(t)

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	service := NewReservationService(app, db, &config.Config{SeatHoldTTL: 10 * time.Second})

	_, err := service.Reserve(context.Background(), "missing", 2, "Alice Anderson", "alice@example.com")
	assert.ErrorIs(t, err, models.ErrScreeningNotFound)
}
