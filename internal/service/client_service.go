package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/fitcrm/internal/domain"
	"alcyxob/fitcrm/internal/repository"
	"alcyxob/fitcrm/internal/validation"
)

// --- Error Definitions ---
var (
	ErrClientNotFound = errors.New("client not found")
)

// ClientInput carries the editable fields of a client record. ID and
// CreatedAt are always assigned by the service, never by the caller.
type ClientInput struct {
	Name      string
	Email     string
	Phone     string
	Goal      string
	StartDate string
	History   string
}

// ClientService is the client store: CRUD plus search over the single
// persisted collection.
//
// Reads never write. Every mutation performs exactly one full-collection
// write to the slot. Unreadable or corrupt slot content is treated as an
// empty collection; slot write errors propagate to the caller untouched.
type ClientService interface {
	ListAll(ctx context.Context) []domain.Client
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) []domain.Client
}

// clientService implements the ClientService interface.
type clientService struct {
	slot repository.CollectionSlot

	// Mutations are load-modify-save over the whole collection, so they
	// must not interleave.
	mu sync.Mutex

	// Injected for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewClientService creates a client store over the given slot.
func NewClientService(slot repository.CollectionSlot) ClientService {
	return &clientService{
		slot:  slot,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewClientID,
	}
}

// NewClientID generates a fresh client id from the current time plus
// random entropy: "c_<unix-millis base36>_<uuid fragment>". Effectively
// unique within this tool's single-user scope; ids are never re-checked
// against existing records before insert.
func NewClientID() string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return "c_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "_" + entropy
}

// loadClients decodes the persisted collection. An absent slot, a read
// error, or content that does not decode to an array all yield an empty
// collection — availability over strict correctness for a local cache.
func (s *clientService) loadClients(ctx context.Context) []domain.Client {
	data, err := s.slot.Load(ctx)
	if err != nil || len(data) == 0 {
		return []domain.Client{}
	}
	var clients []domain.Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return []domain.Client{}
	}
	if clients == nil {
		return []domain.Client{}
	}
	return clients
}

// saveClients persists the full collection, replacing prior slot content.
func (s *clientService) saveClients(ctx context.Context, clients []domain.Client) error {
	data, err := json.Marshal(clients)
	if err != nil {
		return err
	}
	return s.slot.Save(ctx, data)
}

// ListAll returns every client in insertion order.
func (s *clientService) ListAll(ctx context.Context) []domain.Client {
	return s.loadClients(ctx)
}

// FindByID returns the client with the given id, or ErrClientNotFound.
func (s *clientService) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	for _, c := range s.loadClients(ctx) {
		if c.ID == id {
			client := c
			return &client, nil
		}
	}
	return nil, ErrClientNotFound
}

// Create validates the input, assigns a fresh id and creation timestamp,
// appends the record and persists the collection. On validation failure
// nothing is written and the validation error is returned.
func (s *clientService) Create(ctx context.Context, input ClientInput) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client := domain.Client{
		ID:        s.newID(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Goal:      input.Goal,
		StartDate: input.StartDate,
		History:   input.History,
		CreatedAt: s.now(),
	}

	if err := validation.Validate(client); err != nil {
		return nil, err
	}

	clients := append(s.loadClients(ctx), client)
	if err := s.saveClients(ctx, clients); err != nil {
		return nil, err
	}
	return &client, nil
}

// Update merges input over the existing record. ID and CreatedAt are
// retained, UpdatedAt is refreshed, and the record keeps its position in
// the collection. On validation failure nothing is written.
func (s *clientService) Update(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.loadClients(ctx)
	idx := -1
	for i, c := range clients {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrClientNotFound
	}

	updatedAt := s.now()
	updated := domain.Client{
		ID:        clients[idx].ID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Goal:      input.Goal,
		StartDate: input.StartDate,
		History:   input.History,
		CreatedAt: clients[idx].CreatedAt,
		UpdatedAt: &updatedAt,
	}

	if err := validation.Validate(updated); err != nil {
		return nil, err
	}

	clients[idx] = updated
	if err := s.saveClients(ctx, clients); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the client with the given id and persists the result.
// Deleting an absent id is a no-op, not an error.
func (s *clientService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.loadClients(ctx)
	kept := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.saveClients(ctx, kept)
}

// Search returns clients whose name contains the query, case-insensitive.
// An empty or whitespace-only query returns the full listing. Relative
// order among matches is preserved.
func (s *clientService) Search(ctx context.Context, query string) []domain.Client {
	clients := s.loadClients(ctx)

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clients
	}

	matches := []domain.Client{}
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matches = append(matches, c)
		}
	}
	return matches
}
