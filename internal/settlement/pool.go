package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

// Job é a instrução de pagamento de uma reserva recém-criada.
type Job struct {
	ReservationID uuid.UUID
	UserID        *uuid.UUID

	Amount     int64
	Currency   string
	Method     string
	Card       *payment.CardData
	PayerEmail string
}

type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

type ReceiptStore interface {
	Archive(ctx context.Context, p *models.Payment) error
}

type Option func(*Pool)

func WithReceipts(r ReceiptStore) Option {
	return func(p *Pool) { p.receipts = r }
}

func WithEvents(e audit.Emitter) Option {
	return func(p *Pool) { p.events = e }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// ======================================================
// POOL
// ======================================================

type Pool struct {
	gateway  payment.Gateway
	writer   payment.SettlementWriter
	receipts ReceiptStore
	events   audit.Emitter
	now      func() time.Time

	opts  Options
	queue chan Job

	mu      sync.RWMutex
	closed  bool
	started bool
	group   *errgroup.Group
}

func NewPool(
	gateway payment.Gateway,
	writer payment.SettlementWriter,
	opts Options,
	options ...Option,
) *Pool {

	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	p := &Pool{
		gateway: gateway,
		writer:  writer,
		now:     func() time.Time { return time.Now().UTC() },
		opts:    opts,
		queue:   make(chan Job, opts.QueueSize),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Start sobe os workers. ctx é o tempo de vida do processo, não da request.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.opts.Workers; i++ {
		g.Go(func() error {
			return p.worker(gctx)
		})
	}
	p.group = g
}

func (p *Pool) worker(ctx context.Context) error {
	for {
		select {
		case job, ok := <-p.queue:
			if !ok {
				return nil
			}
			p.process(ctx, job)
		case <-ctx.Done():
			p.drainPending()
			return ctx.Err()
		}
	}
}

// drainPending fecha como failed o que ainda está na fila, sem bloquear.
func (p *Pool) drainPending() {
	for {
		select {
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			p.reject(job, "shutdown")
		default:
			return
		}
	}
}

// Submit nunca bloqueia. Sem vaga na fila, a tentativa termina em failed.
func (p *Pool) Submit(job Job) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.reject(job, "pool closed")
		return
	}

	select {
	case p.queue <- job:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		p.reject(job, "queue full")
	}
}

// Shutdown fecha a fila e espera os workers drenarem.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	g := p.group
	p.mu.Unlock()

	// nunca iniciado: nada vai consumir a fila
	if g == nil {
		p.drainPending()
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		// workers parados pelo ctx podem ter deixado jobs para trás
		p.drainPending()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		p.drainPending()
		return ctx.Err()
	}
}

// ======================================================
// PROCESS
// ======================================================

func (p *Pool) reject(job Job, why string) {
	log.WithFields(log.Fields{
		"reservation_id": job.ReservationID,
		"why":            why,
	}).Warn("settlement not scheduled")

	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	p.record(ctx, job, uuid.New(), payment.Result{
		Outcome: payment.OutcomeFailed,
		Reason:  payment.ReasonUnavailable,
	})
}

func (p *Pool) process(ctx context.Context, job Job) {
	paymentID := uuid.New()

	attemptCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	res, err := p.attempt(attemptCtx, job, paymentID)
	cancel()

	if err != nil {
		reason := payment.ReasonProcessingError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = payment.ReasonTimedOut
		}

		log.WithError(err).
			WithField("reservation_id", job.ReservationID).
			Warn("settlement attempt failed")

		res = payment.Result{Outcome: payment.OutcomeFailed, Reason: reason}
	}

	// a escrita não herda o timeout da tentativa
	writeCtx, cancelWrite := context.WithTimeout(context.WithoutCancel(ctx), p.opts.Timeout)
	defer cancelWrite()

	p.record(writeCtx, job, paymentID, res)
}

// attempt isola o gateway: pânico vira erro, uma única chamada.
func (p *Pool) attempt(
	ctx context.Context,
	job Job,
	paymentID uuid.UUID,
) (res payment.Result, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()

	return p.gateway.Attempt(ctx, payment.Charge{
		PaymentID:     paymentID,
		ReservationID: job.ReservationID,
		Amount:        job.Amount,
		Currency:      job.Currency,
		Method:        job.Method,
		Card:          job.Card,
		PayerEmail:    job.PayerEmail,
	})
}

func (p *Pool) record(
	ctx context.Context,
	job Job,
	paymentID uuid.UUID,
	res payment.Result,
) {

	now := p.now()
	pay := buildPayment(job, paymentID, res, now)

	s := payment.Settlement{Payment: pay}
	if res.Outcome == payment.OutcomeSucceeded {
		s.SaveMethod = savedCard(job, now)
	}

	fields := log.Fields{
		"reservation_id": job.ReservationID,
		"payment_id":     paymentID,
		"payment_status": pay.Status,
	}

	applied, err := p.writer.RecordSettlement(ctx, s)
	if err != nil {
		log.WithError(err).WithFields(fields).Error("settlement write-back failed")
		return
	}
	if !applied {
		log.WithFields(fields).Warn("settlement lost update: reservation payment no longer settleable")
	} else {
		log.WithFields(fields).Info("settlement recorded")
	}

	if p.receipts != nil {
		if err := p.receipts.Archive(ctx, pay); err != nil {
			log.WithError(err).WithFields(fields).Warn("receipt archive failed")
		}
	}

	if p.events != nil {
		entityID := job.ReservationID
		p.events.Dispatch(audit.Event{
			ActorID:  job.UserID,
			Role:     "system",
			Action:   "payment_" + pay.Status,
			Entity:   "reservation",
			EntityID: &entityID,
			Metadata: map[string]any{
				"payment_id":     pay.ID,
				"transaction_id": pay.TransactionID,
				"reason":         pay.FailureReason,
				"applied":        applied,
			},
		})
	}
}

var failureText = map[string]string{
	payment.ReasonDeclined:          "Tarjeta rechazada",
	payment.ReasonInsufficientFunds: "Fondos insuficientes",
	payment.ReasonProcessingError:   "Error de procesamiento",
	payment.ReasonTimedOut:          "Tiempo de espera agotado",
	payment.ReasonUnavailable:       "Servicio de pagos no disponible",
}

func buildPayment(
	job Job,
	paymentID uuid.UUID,
	res payment.Result,
	now time.Time,
) *models.Payment {

	pay := &models.Payment{
		ID:            paymentID,
		ReservationID: job.ReservationID,
		UserID:        job.UserID,
		Amount:        job.Amount,
		Currency:      job.Currency,
		Method:        job.Method,
	}

	if job.Card != nil {
		pay.CardLast4 = payment.Last4(job.Card.Number)
		pay.CardType = string(payment.DetectCardType(job.Card.Number))
	}

	if res.Outcome == payment.OutcomeSucceeded {
		pay.Status = string(reservation.PaymentCompleted)
		pay.TransactionID = res.TransactionID
		if pay.TransactionID == "" {
			pay.TransactionID = payment.TransactionID(paymentID, now)
		}
		pay.PaymentDate = &now
		pay.Notes = "Pago procesado exitosamente"
		return pay
	}

	reason := res.Reason
	if reason == "" {
		reason = payment.ReasonProcessingError
	}
	text, ok := failureText[reason]
	if !ok {
		text = reason
	}

	pay.Status = string(reservation.PaymentFailed)
	pay.FailureReason = reason
	pay.Notes = "Error en el pago: " + text
	return pay
}

// savedCard só existe com usuário explícito; sem ele, nada é salvo.
func savedCard(job Job, now time.Time) *models.PaymentMethod {
	if job.Card == nil || !job.Card.SaveCard {
		return nil
	}
	if job.UserID == nil || *job.UserID == uuid.Nil {
		log.WithField("reservation_id", job.ReservationID).
			Warn("card not saved: settlement has no user")
		return nil
	}
	// só token: sem final nem bandeira para guardar
	if job.Card.Number == "" {
		return nil
	}

	return &models.PaymentMethod{
		ID:             uuid.New(),
		UserID:         *job.UserID,
		Type:           string(payment.MethodCreditCard),
		CardLast4:      payment.Last4(job.Card.Number),
		CardType:       string(payment.DetectCardType(job.Card.Number)),
		CardHolderName: job.Card.HolderName,
		ExpiryMonth:    job.Card.ExpiryMonth,
		ExpiryYear:     job.Card.ExpiryYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
