package http

import (
	"context"
	"net/http"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/auth"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// routerStubs exposes the stub services wired behind a test router so tests
// can steer behavior and inspect captured inputs.
type routerStubs struct {
	catalog   *stubCatalog
	purchases *stubPurchases
	tickets   *stubTicketViewer
	auth      *stubAuthService
}

func newTestRouter() (http.Handler, *routerStubs) {
	stubs := &routerStubs{
		catalog:   &stubCatalog{},
		purchases: &stubPurchases{},
		tickets:   &stubTicketViewer{},
		auth:      &stubAuthService{},
	}
	handler := NewRouter(Deps{
		Catalog:     stubs.catalog,
		Purchases:   stubs.purchases,
		Tickets:     stubs.tickets,
		Auth:        stubs.auth,
		Verifier:    stubVerifier{},
		CORSOrigins: []string{"http://localhost:5173"},
	})
	return handler, stubs
}

type stubCatalog struct {
	events     []domain.Event
	event      domain.Event
	categories []string
	err        error

	gotInput   app.EventInput
	gotEventID string
}

func (s *stubCatalog) ListEvents(_ context.Context, _ app.EventFilter) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubCatalog) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	s.gotEventID = eventID
	return s.event, s.err
}

func (s *stubCatalog) ListCategories(context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *stubCatalog) CreateEvent(_ context.Context, in app.EventInput) (domain.Event, error) {
	s.gotInput = in
	return s.event, s.err
}

func (s *stubCatalog) UpdateEvent(_ context.Context, eventID string, in app.EventInput) (domain.Event, error) {
	s.gotEventID = eventID
	s.gotInput = in
	return s.event, s.err
}

func (s *stubCatalog) DeleteEvent(_ context.Context, eventID string) error {
	s.gotEventID = eventID
	return s.err
}

type stubPurchases struct {
	ticket      domain.Ticket
	purchaseErr error
	cancelErr   error

	gotPurchase app.PurchaseInput
	gotCancel   app.CancelInput
}

func (s *stubPurchases) Purchase(_ context.Context, in app.PurchaseInput) (domain.Ticket, error) {
	s.gotPurchase = in
	return s.ticket, s.purchaseErr
}

func (s *stubPurchases) Cancel(_ context.Context, in app.CancelInput) error {
	s.gotCancel = in
	return s.cancelErr
}

type stubTicketViewer struct {
	list   []domain.TicketWithEvent
	ticket domain.TicketWithEvent
	stats  domain.UserStats
	err    error
}

func (s *stubTicketViewer) ListByUser(context.Context, string) ([]domain.TicketWithEvent, error) {
	return s.list, s.err
}

func (s *stubTicketViewer) GetByIDForUser(context.Context, string, string) (domain.TicketWithEvent, error) {
	return s.ticket, s.err
}

func (s *stubTicketViewer) StatsForUser(context.Context, string) (domain.UserStats, error) {
	return s.stats, s.err
}

type stubAuthService struct {
	user  domain.User
	token string
	err   error

	gotRegister auth.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, in auth.RegisterInput) (domain.User, string, error) {
	s.gotRegister = in
	return s.user, s.token, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubAuthService) GetUser(context.Context, string) (domain.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) UpdateProfile(context.Context, string, string, string) (domain.User, error) {
	return s.user, s.err
}
