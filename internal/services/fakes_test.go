package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/database"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64   { return &i }

// fakeGateway simula Culqi registrando cada llamada
type fakeGateway struct {
	calls []string

	createCustomerReq  *culqi.CustomerCreate
	createCustomerResp *culqi.Customer
	createCustomerErr  error

	updateCustomerID   string
	updateCustomerReq  *culqi.CustomerUpdate
	updateCustomerResp *culqi.Customer
	updateCustomerErr  error

	createCardReq  *culqi.CardCreate
	createCardResp *culqi.Card
	createCardErr  error

	updateCardReq  *culqi.CardUpdate
	updateCardResp *culqi.Card
	updateCardErr  error

	deleteCardErr error

	createSubReq  *culqi.SubscriptionCreate
	createSubResp *culqi.Subscription
	createSubErr  error

	getSubResp *culqi.Subscription
	getSubRaw  json.RawMessage
	getSubErr  error

	deleteSubErr error

	listSubsCustomer string
	listSubsResp     json.RawMessage
	listSubsErr      error

	listPlansFilters url.Values
	listPlansResp    *culqi.PlanList
	listPlansErr     error
}

func (g *fakeGateway) CreateCustomer(_ context.Context, req *culqi.CustomerCreate) (*culqi.Customer, error) {
	g.calls = append(g.calls, "CreateCustomer")
	g.createCustomerReq = req
	return g.createCustomerResp, g.createCustomerErr
}

func (g *fakeGateway) UpdateCustomer(_ context.Context, id string, req *culqi.CustomerUpdate) (*culqi.Customer, error) {
	g.calls = append(g.calls, "UpdateCustomer")
	g.updateCustomerID = id
	g.updateCustomerReq = req
	if g.updateCustomerErr != nil {
		return nil, g.updateCustomerErr
	}
	if g.updateCustomerResp == nil {
		return &culqi.Customer{ID: id}, nil
	}
	return g.updateCustomerResp, nil
}

func (g *fakeGateway) CreateCard(_ context.Context, req *culqi.CardCreate) (*culqi.Card, error) {
	g.calls = append(g.calls, "CreateCard")
	g.createCardReq = req
	return g.createCardResp, g.createCardErr
}

func (g *fakeGateway) UpdateCard(_ context.Context, id string, req *culqi.CardUpdate) (*culqi.Card, error) {
	g.calls = append(g.calls, "UpdateCard")
	g.updateCardReq = req
	if g.updateCardErr != nil {
		return nil, g.updateCardErr
	}
	if g.updateCardResp == nil {
		return &culqi.Card{ID: id}, nil
	}
	return g.updateCardResp, nil
}

func (g *fakeGateway) DeleteCard(_ context.Context, _ string) error {
	g.calls = append(g.calls, "DeleteCard")
	return g.deleteCardErr
}

func (g *fakeGateway) CreateSubscription(_ context.Context, req *culqi.SubscriptionCreate) (*culqi.Subscription, error) {
	g.calls = append(g.calls, "CreateSubscription")
	g.createSubReq = req
	return g.createSubResp, g.createSubErr
}

func (g *fakeGateway) GetSubscription(_ context.Context, _ string) (*culqi.Subscription, json.RawMessage, error) {
	g.calls = append(g.calls, "GetSubscription")
	return g.getSubResp, g.getSubRaw, g.getSubErr
}

func (g *fakeGateway) DeleteSubscription(_ context.Context, _ string) error {
	g.calls = append(g.calls, "DeleteSubscription")
	return g.deleteSubErr
}

func (g *fakeGateway) ListSubscriptions(_ context.Context, customerID string) (json.RawMessage, error) {
	g.calls = append(g.calls, "ListSubscriptions")
	g.listSubsCustomer = customerID
	return g.listSubsResp, g.listSubsErr
}

func (g *fakeGateway) ListPlans(_ context.Context, filters url.Values) (*culqi.PlanList, error) {
	g.calls = append(g.calls, "ListPlans")
	g.listPlansFilters = filters
	return g.listPlansResp, g.listPlansErr
}

func upstreamFailure(status int, message string) error {
	return &culqi.Error{StatusCode: status, Object: "error", MerchantMessage: message}
}

func notFoundErr(what string) error {
	return fmt.Errorf("error querying %s: %w", what, database.ErrNotFound)
}

// fakeCustomerStore guarda copias para que los tests puedan comparar antes/después
type fakeCustomerStore struct {
	byUser    map[uuid.UUID]models.Customer
	createErr error
	updateErr error
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{byUser: map[uuid.UUID]models.Customer{}}
}

func (s *fakeCustomerStore) Create(_ context.Context, c *models.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.byUser[c.UserID] = *c
	return nil
}

func (s *fakeCustomerStore) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Customer, error) {
	c, ok := s.byUser[userID]
	if !ok {
		return nil, notFoundErr("customer")
	}
	return &c, nil
}

func (s *fakeCustomerStore) GetByCulqiID(_ context.Context, userID uuid.UUID, culqiID string) (*models.Customer, error) {
	c, ok := s.byUser[userID]
	if !ok || c.CulqiID == nil || *c.CulqiID != culqiID {
		return nil, notFoundErr("customer")
	}
	return &c, nil
}

func (s *fakeCustomerStore) UpdateProfile(_ context.Context, c *models.Customer) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.byUser[c.UserID] = *c
	return nil
}

type fakeCardStore struct {
	cards     map[uuid.UUID]models.Card
	createErr error
	updateErr error
	deleteErr error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: map[uuid.UUID]models.Card{}}
}

func (s *fakeCardStore) Create(_ context.Context, c *models.Card) error {
	if s.createErr != nil {
		return s.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.cards[c.ID] = *c
	return nil
}

func (s *fakeCardStore) GetByCardID(_ context.Context, userID uuid.UUID, cardID string) (*models.Card, error) {
	for _, c := range s.cards {
		if c.UserID == userID && c.CardID == cardID {
			c := c
			return &c, nil
		}
	}
	return nil, notFoundErr("card")
}

func (s *fakeCardStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Card, error) {
	cards := []models.Card{}
	for _, c := range s.cards {
		if c.UserID == userID {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (s *fakeCardStore) UpdateMetadata(_ context.Context, id uuid.UUID, metadata models.JSONMap) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	c, ok := s.cards[id]
	if !ok {
		return database.ErrNotFound
	}
	c.Metadata = metadata
	s.cards[id] = c
	return nil
}

func (s *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.cards, id)
	return nil
}

type fakeSubscriptionStore struct {
	subs      []models.Subscription
	createErr error
	deleteErr error
}

func (s *fakeSubscriptionStore) Create(_ context.Context, sub *models.Subscription) error {
	if s.createErr != nil {
		return s.createErr
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	s.subs = append(s.subs, *sub)
	return nil
}

func (s *fakeSubscriptionStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	for _, sub := range s.subs {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (s *fakeSubscriptionStore) DeleteBySubscriptionID(_ context.Context, userID uuid.UUID, subscriptionID string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	for i, sub := range s.subs {
		if sub.UserID == userID && sub.SubscriptionID == subscriptionID {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type publishedEvent struct {
	Name string
	Data map[string]interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (e *fakeEvents) Publish(_ context.Context, name string, data map[string]interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, publishedEvent{Name: name, Data: data})
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("error creating user: %w: users_username_key", database.ErrDuplicate)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, notFoundErr("user")
	}
	return &u, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, notFoundErr("user")
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

type fakeTokenStore struct {
	byUser   map[uuid.UUID]models.AuthToken
	users    *fakeUserStore
	lookups  int
	lastUsed []string
}

func newFakeTokenStore(users *fakeUserStore) *fakeTokenStore {
	return &fakeTokenStore{byUser: map[uuid.UUID]models.AuthToken{}, users: users}
}

func (s *fakeTokenStore) Upsert(_ context.Context, userID uuid.UUID, keyHash string) (*models.AuthToken, error) {
	token := models.AuthToken{ID: uuid.New(), UserID: userID, KeyHash: keyHash, CreatedAt: time.Now()}
	s.byUser[userID] = token
	return &token, nil
}

func (s *fakeTokenStore) GetByUserID(_ context.Context, userID uuid.UUID) (*models.AuthToken, error) {
	t, ok := s.byUser[userID]
	if !ok {
		return nil, notFoundErr("auth token")
	}
	return &t, nil
}

func (s *fakeTokenStore) GetUserByHash(ctx context.Context, keyHash string) (*models.User, error) {
	s.lookups++
	for _, t := range s.byUser {
		if t.KeyHash == keyHash {
			return s.users.GetByID(ctx, t.UserID)
		}
	}
	return nil, notFoundErr("auth token")
}

func (s *fakeTokenStore) UpdateLastUsed(_ context.Context, keyHash string) error {
	s.lastUsed = append(s.lastUsed, keyHash)
	return nil
}

type fakeTokenCache struct {
	entries map[string]uuid.UUID
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{entries: map[string]uuid.UUID{}}
}

func (c *fakeTokenCache) CacheToken(_ context.Context, keyHash string, userID uuid.UUID, _ time.Duration) error {
	c.entries[keyHash] = userID
	return nil
}

func (c *fakeTokenCache) CachedTokenUser(_ context.Context, keyHash string) (uuid.UUID, error) {
	return c.entries[keyHash], nil
}

func (c *fakeTokenCache) EvictToken(_ context.Context, keyHash string) error {
	delete(c.entries, keyHash)
	return nil
}
