package reservation_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/settlement"
)

// ======================================================
// In-memory store (commit copia o estado, erro descarta)
// ======================================================

type memState struct {
	clients      map[uuid.UUID]models.Client
	providers    map[uuid.UUID]models.Provider
	vehicles     map[uuid.UUID]models.Vehicle
	reservations map[uuid.UUID]models.Reservation
}

func newMemState() *memState {
	return &memState{
		clients:      map[uuid.UUID]models.Client{},
		providers:    map[uuid.UUID]models.Provider{},
		vehicles:     map[uuid.UUID]models.Vehicle{},
		reservations: map[uuid.UUID]models.Reservation{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.providers {
		c.providers[k] = v
	}
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

type memRepo struct {
	st        *memState
	createErr error
}

type memStore struct {
	memRepo

	mu        sync.Mutex
	txCount   int
	rollbacks int
	lastTx    domain.TxOptions
}

func newMemStore() *memStore {
	return &memStore{memRepo: memRepo{st: newMemState()}}
}

func (s *memStore) WithinTx(
	_ context.Context,
	opts domain.TxOptions,
	fn func(tx domain.Repository) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++
	s.lastTx = opts

	tx := &memRepo{st: s.st.clone(), createErr: s.createErr}
	if err := fn(tx); err != nil {
		s.rollbacks++
		return err
	}
	s.st = tx.st
	return nil
}

func (r *memRepo) GetClientByUserID(_ context.Context, userID uuid.UUID) (*models.Client, error) {
	c, ok := r.st.clients[userID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.KindNotFound, "client_not_found")
	}
	return &c, nil
}

func (r *memRepo) GetProviderByUserID(_ context.Context, userID uuid.UUID) (*models.Provider, error) {
	p, ok := r.st.providers[userID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.KindNotFound, "provider_not_found")
	}
	return &p, nil
}

func (r *memRepo) GetVehicle(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	v, ok := r.st.vehicles[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.KindNotFound, "vehicle_not_found")
	}
	return &v, nil
}

func (r *memRepo) SetVehicleStatus(_ context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	v, ok := r.st.vehicles[id]
	if !ok {
		return httperr.ErrBusiness(httperr.KindNotFound, "vehicle_not_found")
	}
	v.Status = string(status)
	r.st.vehicles[id] = v
	return nil
}

func (r *memRepo) CreateReservation(_ context.Context, res *models.Reservation) error {
	if r.createErr != nil {
		return httperr.Infra(r.createErr, "reservation.create")
	}
	r.st.reservations[res.ID] = *res
	return nil
}

func (r *memRepo) HasOverlap(_ context.Context, q domain.OverlapQuery) (bool, error) {
	for _, res := range r.st.reservations {
		if res.VehicleID != q.VehicleID {
			continue
		}
		if q.ExcludeID != nil && res.ID == *q.ExcludeID {
			continue
		}
		if q.ClientID != nil && res.ClientID != *q.ClientID {
			continue
		}
		for _, st := range q.Statuses {
			if string(st) == res.Status && domain.Overlaps(res.StartDate, res.EndDate, q.Start, q.End) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *memRepo) load(id uuid.UUID) (*models.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.KindNotFound, "reservation_not_found")
	}
	res.Vehicle = r.st.vehicles[res.VehicleID]
	for _, c := range r.st.clients {
		if c.ID == res.ClientID {
			res.Client = c
		}
	}
	return &res, nil
}

func (r *memRepo) GetReservationForClient(_ context.Context, id, clientID uuid.UUID) (*models.Reservation, error) {
	res, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if res.ClientID != clientID {
		return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "reservation_not_owned")
	}
	return res, nil
}

func (r *memRepo) GetReservationForProvider(_ context.Context, id, providerID uuid.UUID) (*models.Reservation, error) {
	res, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if res.ProviderID != providerID {
		return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "reservation_not_owned")
	}
	return res, nil
}

func (r *memRepo) ListByClient(_ context.Context, clientID uuid.UUID, status *domain.Status) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.st.reservations {
		if res.ClientID != clientID {
			continue
		}
		if status != nil && res.Status != string(*status) {
			continue
		}
		out = append(out, res)
	}
	sortByCreated(out)
	return out, nil
}

func (r *memRepo) ListByProvider(_ context.Context, f domain.ProviderFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.st.reservations {
		if res.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != nil && res.Status != string(*f.Status) {
			continue
		}
		if f.VehicleID != nil && res.VehicleID != *f.VehicleID {
			continue
		}
		if f.From != nil && res.EndDate.Before(*f.From) {
			continue
		}
		if f.To != nil && res.StartDate.After(*f.To) {
			continue
		}
		out = append(out, res)
	}
	sortByCreated(out)
	return out, nil
}

func (r *memRepo) UpdateReservation(_ context.Context, res *models.Reservation) error {
	if _, ok := r.st.reservations[res.ID]; !ok {
		return httperr.ErrBusiness(httperr.KindNotFound, "reservation_not_found")
	}
	stored := *res
	stored.Vehicle = models.Vehicle{}
	stored.Client = models.Client{}
	r.st.reservations[res.ID] = stored
	return nil
}

func sortByCreated(list []models.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

var _ domain.Store = (*memStore)(nil)

// ======================================================
// Collaborators
// ======================================================

type mockSubmitter struct {
	jobs []settlement.Job
}

func (m *mockSubmitter) Submit(job settlement.Job) {
	m.jobs = append(m.jobs, job)
}

type mockLocker struct {
	keys    []string
	unlocks int
	err     error
}

func (m *mockLocker) Lock(_ context.Context, key string) (func(), error) {
	if m.err != nil {
		return nil, m.err
	}
	m.keys = append(m.keys, key)
	return func() { m.unlocks++ }, nil
}

type mockEmitter struct {
	events []audit.Event
}

func (m *mockEmitter) Dispatch(ev audit.Event) {
	m.events = append(m.events, ev)
}

func (m *mockEmitter) actions() []string {
	out := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Action)
	}
	return out
}
