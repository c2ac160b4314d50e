package settlement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/settlement"
)

// --- Mocks ---

type gatewayFunc func(ctx context.Context, ch payment.Charge) (payment.Result, error)

func (f gatewayFunc) Attempt(ctx context.Context, ch payment.Charge) (payment.Result, error) {
	return f(ctx, ch)
}

type mockWriter struct {
	mu       sync.Mutex
	writes   []payment.Settlement
	settled  bool
	attempts int
}

func newMockWriter() *mockWriter {
	return &mockWriter{settled: true}
}

func (w *mockWriter) RecordSettlement(_ context.Context, s payment.Settlement) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempts++
	w.writes = append(w.writes, s)
	return w.settled, nil
}

func (w *mockWriter) all() []payment.Settlement {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]payment.Settlement(nil), w.writes...)
}

type mockEmitter struct {
	mu     sync.Mutex
	events []audit.Event
}

func (e *mockEmitter) Dispatch(ev audit.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

type mockReceipts struct {
	mu       sync.Mutex
	archived []uuid.UUID
}

func (r *mockReceipts) Archive(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived = append(r.archived, p.ID)
	return nil
}

// --- Setup ---

var fixedNow = time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC)

func approve(_ context.Context, _ payment.Charge) (payment.Result, error) {
	return payment.Result{Outcome: payment.OutcomeSucceeded}, nil
}

func job(number string, save bool, user *uuid.UUID) settlement.Job {
	return settlement.Job{
		ReservationID: uuid.New(),
		UserID:        user,
		Amount:        45000,
		Currency:      "PEN",
		Method:        "credit_card",
		Card: &payment.CardData{
			Number:      number,
			HolderName:  "Ana Quispe",
			ExpiryMonth: 12,
			ExpiryYear:  2030,
			SaveCard:    save,
		},
	}
}

func runPool(
	t *testing.T,
	gw payment.Gateway,
	writer *mockWriter,
	opts settlement.Options,
	jobs ...settlement.Job,
) *mockEmitter {
	t.Helper()

	events := &mockEmitter{}
	pool := settlement.NewPool(gw, writer, opts,
		settlement.WithEvents(events),
		settlement.WithClock(func() time.Time { return fixedNow }),
	)
	pool.Start(context.Background())

	for _, j := range jobs {
		pool.Submit(j)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))

	return events
}

// --- Tests ---

func TestSettlementSuccessWritesOnce(t *testing.T) {
	writer := newMockWriter()
	user := uuid.New()
	j := job("4111 1111 1111 1111", true, &user)

	events := runPool(t, gatewayFunc(approve), writer, settlement.Options{Workers: 2}, j)

	writes := writer.all()
	require.Len(t, writes, 1)

	pay := writes[0].Payment
	assert.Equal(t, j.ReservationID, pay.ReservationID)
	assert.Equal(t, "completed", pay.Status)
	assert.Equal(t, int64(45000), pay.Amount)
	assert.Equal(t, "1111", pay.CardLast4)
	assert.Equal(t, "visa", pay.CardType)
	assert.Equal(t, payment.TransactionID(pay.ID, fixedNow), pay.TransactionID)
	require.NotNil(t, pay.PaymentDate)
	assert.Equal(t, fixedNow, *pay.PaymentDate)

	require.NotNil(t, writes[0].SaveMethod)
	assert.Equal(t, user, writes[0].SaveMethod.UserID)
	assert.Equal(t, "1111", writes[0].SaveMethod.CardLast4)

	require.Len(t, events.events, 1)
	assert.Equal(t, "payment_completed", events.events[0].Action)
}

func TestSettlementKeepsGatewayTransactionID(t *testing.T) {
	writer := newMockWriter()
	gw := gatewayFunc(func(context.Context, payment.Charge) (payment.Result, error) {
		return payment.Result{Outcome: payment.OutcomeSucceeded, TransactionID: "mp-998"}, nil
	})

	runPool(t, gw, writer, settlement.Options{}, job("4111111111111111", false, nil))

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, "mp-998", writes[0].Payment.TransactionID)
}

func TestSettlementDeclinedWritesFailed(t *testing.T) {
	writer := newMockWriter()
	user := uuid.New()
	gw := gatewayFunc(func(context.Context, payment.Charge) (payment.Result, error) {
		return payment.Result{Outcome: payment.OutcomeFailed, Reason: payment.ReasonInsufficientFunds}, nil
	})

	runPool(t, gw, writer, settlement.Options{}, job("4000000000009995", true, &user))

	writes := writer.all()
	require.Len(t, writes, 1)

	pay := writes[0].Payment
	assert.Equal(t, "failed", pay.Status)
	assert.Equal(t, payment.ReasonInsufficientFunds, pay.FailureReason)
	assert.Equal(t, "Error en el pago: Fondos insuficientes", pay.Notes)
	assert.Empty(t, pay.TransactionID)
	assert.Nil(t, pay.PaymentDate)

	// cartão só é salvo em sucesso
	assert.Nil(t, writes[0].SaveMethod)
}

func TestSettlementWithoutUserNeverSavesCard(t *testing.T) {
	writer := newMockWriter()

	runPool(t, gatewayFunc(approve), writer, settlement.Options{}, job("4111111111111111", true, nil))

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, "completed", writes[0].Payment.Status)
	assert.Nil(t, writes[0].SaveMethod)
	assert.Nil(t, writes[0].Payment.UserID)
}

func TestSettlementTokenOnlyCardIsNotSaved(t *testing.T) {
	writer := newMockWriter()
	user := uuid.New()

	j := job("", true, &user)
	j.Card.Token = "tok_1"

	runPool(t, gatewayFunc(approve), writer, settlement.Options{}, j)

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, "completed", writes[0].Payment.Status)
	assert.Nil(t, writes[0].SaveMethod)
}

func TestSettlementTimeoutIsFailure(t *testing.T) {
	writer := newMockWriter()
	gw := gatewayFunc(func(ctx context.Context, _ payment.Charge) (payment.Result, error) {
		<-ctx.Done()
		return payment.Result{}, ctx.Err()
	})

	runPool(t, gw, writer, settlement.Options{Timeout: 20 * time.Millisecond}, job("4111111111111111", false, nil))

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, "failed", writes[0].Payment.Status)
	assert.Equal(t, payment.ReasonTimedOut, writes[0].Payment.FailureReason)
}

func TestSettlementGatewayPanicIsContained(t *testing.T) {
	writer := newMockWriter()
	gw := gatewayFunc(func(context.Context, payment.Charge) (payment.Result, error) {
		panic("gateway exploded")
	})

	runPool(t, gw, writer, settlement.Options{},
		job("4111111111111111", false, nil),
		job("4111111111111111", false, nil),
	)

	writes := writer.all()
	require.Len(t, writes, 2)
	for _, w := range writes {
		assert.Equal(t, payment.ReasonProcessingError, w.Payment.FailureReason)
	}
}

func TestSettlementEveryJobWritesExactlyOnce(t *testing.T) {
	writer := newMockWriter()

	jobs := make([]settlement.Job, 0, 20)
	for i := 0; i < 20; i++ {
		jobs = append(jobs, job("4111111111111111", false, nil))
	}

	runPool(t, gatewayFunc(approve), writer, settlement.Options{Workers: 4, QueueSize: 50}, jobs...)

	seen := map[uuid.UUID]int{}
	for _, w := range writer.all() {
		seen[w.Payment.ReservationID]++
	}
	require.Len(t, seen, 20)
	for id, n := range seen {
		assert.Equal(t, 1, n, id.String())
	}
}

func TestSettlementQueueFullFailsImmediately(t *testing.T) {
	writer := newMockWriter()
	pool := settlement.NewPool(gatewayFunc(approve), writer, settlement.Options{QueueSize: 1})

	// sem Start: a fila enche no segundo job
	first := job("4111111111111111", false, nil)
	second := job("4111111111111111", false, nil)
	pool.Submit(first)
	pool.Submit(second)

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, second.ReservationID, writes[0].Payment.ReservationID)
	assert.Equal(t, "failed", writes[0].Payment.Status)
	assert.Equal(t, payment.ReasonUnavailable, writes[0].Payment.FailureReason)

	// o primeiro ainda é processado normalmente
	pool.Start(context.Background())
	require.NoError(t, pool.Shutdown(context.Background()))

	writes = writer.all()
	require.Len(t, writes, 2)
	assert.Equal(t, first.ReservationID, writes[1].Payment.ReservationID)
	assert.Equal(t, "completed", writes[1].Payment.Status)
}

func TestSettlementAfterShutdownFails(t *testing.T) {
	writer := newMockWriter()
	pool := settlement.NewPool(gatewayFunc(approve), writer, settlement.Options{})
	pool.Start(context.Background())
	require.NoError(t, pool.Shutdown(context.Background()))

	pool.Submit(job("4111111111111111", false, nil))

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, payment.ReasonUnavailable, writes[0].Payment.FailureReason)
}

func TestSettlementShutdownBeforeStartFailsQueuedJobs(t *testing.T) {
	writer := newMockWriter()
	pool := settlement.NewPool(gatewayFunc(approve), writer, settlement.Options{QueueSize: 5})

	queued := []settlement.Job{
		job("4111111111111111", false, nil),
		job("4111111111111111", false, nil),
	}
	for _, j := range queued {
		pool.Submit(j)
	}
	require.Empty(t, writer.all())

	require.NoError(t, pool.Shutdown(context.Background()))

	writes := writer.all()
	require.Len(t, writes, 2)
	for i, w := range writes {
		assert.Equal(t, queued[i].ReservationID, w.Payment.ReservationID)
		assert.Equal(t, "failed", w.Payment.Status)
		assert.Equal(t, payment.ReasonUnavailable, w.Payment.FailureReason)
	}
}

func TestSettlementCancelledWorkersLeaveNoJobBehind(t *testing.T) {
	writer := newMockWriter()

	// o gateway só responde quando o processo cancela
	blocking := gatewayFunc(func(ctx context.Context, _ payment.Charge) (payment.Result, error) {
		<-ctx.Done()
		return payment.Result{}, ctx.Err()
	})

	pool := settlement.NewPool(blocking, writer, settlement.Options{Workers: 1, QueueSize: 10})
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	ids := map[uuid.UUID]bool{}
	for i := 0; i < 5; i++ {
		j := job("4111111111111111", false, nil)
		ids[j.ReservationID] = true
		pool.Submit(j)
	}

	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, pool.Shutdown(shutdownCtx))

	seen := map[uuid.UUID]int{}
	for _, w := range writer.all() {
		seen[w.Payment.ReservationID]++
		assert.Equal(t, "failed", w.Payment.Status)
	}
	require.Len(t, seen, len(ids))
	for id, n := range seen {
		assert.True(t, ids[id])
		assert.Equal(t, 1, n, id.String())
	}
}

func TestSettlementLostUpdateStillReports(t *testing.T) {
	writer := newMockWriter()
	writer.settled = false

	events := runPool(t, gatewayFunc(approve), writer, settlement.Options{}, job("4111111111111111", false, nil))

	assert.Equal(t, 1, writer.attempts)
	require.Len(t, events.events, 1)
	meta, ok := events.events[0].Metadata.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, meta["applied"])
}

func TestSettlementArchivesReceipts(t *testing.T) {
	writer := newMockWriter()
	receipts := &mockReceipts{}

	pool := settlement.NewPool(gatewayFunc(approve), writer, settlement.Options{},
		settlement.WithReceipts(receipts),
	)
	pool.Start(context.Background())
	pool.Submit(job("4111111111111111", false, nil))
	require.NoError(t, pool.Shutdown(context.Background()))

	writes := writer.all()
	require.Len(t, writes, 1)
	assert.Equal(t, []uuid.UUID{writes[0].Payment.ID}, receipts.archived)
}
