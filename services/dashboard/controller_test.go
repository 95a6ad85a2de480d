package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/notification"
	"hoofix/services/realtime"
	"hoofix/services/session"
	"hoofix/services/viewmodel"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingNav struct {
	mu      sync.Mutex
	targets []string
}

func (n *countingNav) Redirect(path string) {
	n.mu.Lock()
	n.targets = append(n.targets, path)
	n.mu.Unlock()
}

func (n *countingNav) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

// backend is a fake marketplace API that counts hits per route.
type backend struct {
	mux  *http.ServeMux
	hits sync.Map
}

func newBackend() *backend {
	return &backend{mux: http.NewServeMux()}
}

func (b *backend) handle(pattern string, fn http.HandlerFunc) {
	counter := new(int32)
	b.hits.Store(pattern, counter)
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(counter, 1)
		fn(w, r)
	})
}

func (b *backend) json(pattern string, status int, body string) {
	b.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (b *backend) count(pattern string) int {
	v, ok := b.hits.Load(pattern)
	if !ok {
		return 0
	}
	return int(atomic.LoadInt32(v.(*int32)))
}

type fixture struct {
	ctrl     *Controller
	nav      *countingNav
	creds    session.CredentialStore
	notifier *notification.DefaultNotificationService
}

// fixtureOptions swaps collaborators that most tests leave at their defaults.
type fixtureOptions struct {
	creds       session.CredentialStore
	push        notification.PushSender
	deviceToken string
}

func newFixture(t *testing.T, be *backend, identity models.Identity) *fixture {
	t.Helper()
	return newFixtureWith(t, be, identity, fixtureOptions{})
}

func newFixtureWith(t *testing.T, be *backend, identity models.Identity, opts fixtureOptions) *fixture {
	t.Helper()
	srv := httptest.NewServer(be.mux)
	t.Cleanup(srv.Close)

	creds := opts.creds
	if creds == nil {
		mem := session.NewMemoryStore()
		require.NoError(t, mem.Set(context.Background(), "tok-abc"))
		creds = mem
	}

	notifier, err := notification.NewDefaultNotificationService(notification.NewCenter(time.Minute), opts.push, opts.deviceToken, identity.Role, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	nav := &countingNav{}
	ctrl := NewController(ctx, identity, api.NewClient(srv.URL, creds, zap.NewNop()), viewmodel.NewStore(), notifier, nav, Options{}, zap.NewNop())
	return &fixture{ctrl: ctrl, nav: nav, creds: creds, notifier: notifier}
}

func (f *fixture) messages() []string {
	var out []string
	for _, n := range f.notifier.Active() {
		out = append(out, n.Message)
	}
	return out
}

var (
	customer = models.Identity{ID: "u1", Name: "Asha Rao", Email: "asha@example.com", Role: models.RoleUser}
	provider = models.Identity{ID: "p1", Name: "Ravi", Role: models.RoleProvider}
)

func TestUnauthorizedRedirectsOnce(t *testing.T) {
	be := newBackend()
	be.json("GET /bookings/user", http.StatusUnauthorized, `{"error":"expired"}`)
	be.json("GET /api/wallet", http.StatusUnauthorized, `{"error":"expired"}`)
	f := newFixture(t, be, customer)

	err := f.ctrl.LoadCustomer(context.Background())
	require.Error(t, err)
	assert.Equal(t, api.Unauthorized, api.KindOf(err))

	// A later failure must not redirect again.
	err = f.ctrl.ReloadBookings(context.Background())
	assert.Equal(t, api.Unauthorized, api.KindOf(err))

	assert.Equal(t, []string{"/login"}, f.nav.Targets())
	_, err = f.creds.Get(context.Background())
	assert.ErrorIs(t, err, session.ErrNoCredential)
	select {
	case <-f.ctrl.Done():
	default:
		t.Fatal("session should have ended")
	}
}

// flakyStore fails the next n reads while still holding its credential.
type flakyStore struct {
	*session.MemoryStore
	failures int32
}

func (s *flakyStore) Get(ctx context.Context) (string, error) {
	if atomic.AddInt32(&s.failures, -1) >= 0 {
		return "", errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	}
	return s.MemoryStore.Get(ctx)
}

func TestUnreadableCredentialKeepsSession(t *testing.T) {
	be := newBackend()
	be.json("GET /bookings/user", http.StatusOK, `[{"id":"b2","service_name":"Cleaning","status":"Pending","price":300,"has_payment":false}]`)
	mem := session.NewMemoryStore()
	require.NoError(t, mem.Set(context.Background(), "tok-abc"))
	store := &flakyStore{MemoryStore: mem, failures: 1}
	f := newFixtureWith(t, be, customer, fixtureOptions{creds: store})
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusPending}})

	err := f.ctrl.ReloadBookings(context.Background())
	assert.Equal(t, api.NetworkError, api.KindOf(err))
	assert.Empty(t, f.nav.Targets())
	assert.Contains(t, f.messages(), "Error loading bookings")
	assert.Equal(t, 0, be.count("GET /bookings/user"))

	bookings := f.ctrl.Store().Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
	token, err := mem.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	select {
	case <-f.ctrl.Done():
		t.Fatal("session should survive a failed credential read")
	default:
	}

	require.NoError(t, f.ctrl.ReloadBookings(context.Background()))
	assert.Equal(t, 1, be.count("GET /bookings/user"))
	assert.Equal(t, "b2", f.ctrl.Store().Bookings()[0].ID)
}

func TestNotFoundListingIsEmpty(t *testing.T) {
	be := newBackend()
	be.json("GET /bookings/user", http.StatusNotFound, `{"error":"no bookings"}`)
	f := newFixture(t, be, customer)
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "stale", Status: models.StatusPending}})

	require.NoError(t, f.ctrl.ReloadBookings(context.Background()))
	assert.Empty(t, f.ctrl.Store().Bookings())
	assert.Empty(t, f.messages())
}

func TestPayWithWalletShortfallSkipsBackend(t *testing.T) {
	be := newBackend()
	be.json("POST /api/wallet/pay-booking", http.StatusOK, `{"success":true}`)
	f := newFixture(t, be, customer)

	rating := 4.0
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusCompleted, Price: 500, Rating: &rating}})
	f.ctrl.Store().SetWallet(models.WalletSummary{Credits: 400})

	err := f.ctrl.PayWithWallet(context.Background(), "b1")
	require.Error(t, err)
	assert.Equal(t, api.InsufficientFunds, api.KindOf(err))
	assert.Equal(t, 0, be.count("POST /api/wallet/pay-booking"))
	assert.Contains(t, f.messages(), "Insufficient wallet balance. Add 100.00 more credits to pay.")
}

func TestPayWithWalletBackendRefusal(t *testing.T) {
	be := newBackend()
	be.json("POST /api/wallet/pay-booking", http.StatusBadRequest, `{"error":"Insufficient credits"}`)
	be.json("GET /api/wallet", http.StatusOK, `{"credits":120,"transactions":[]}`)
	f := newFixture(t, be, customer)

	rating := 5.0
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusCompleted, Price: 300, Rating: &rating}})
	f.ctrl.Store().SetWallet(models.WalletSummary{Credits: 400})

	err := f.ctrl.PayWithWallet(context.Background(), "b1")
	assert.Equal(t, api.InsufficientFunds, api.KindOf(err))
	assert.Equal(t, 1, be.count("POST /api/wallet/pay-booking"))
	assert.Equal(t, 120.0, *f.ctrl.Store().WalletBalance())
}

func TestRateRejectsOutOfRangeWithoutCalling(t *testing.T) {
	be := newBackend()
	be.json("POST /bookings/b1/rate", http.StatusOK, `{}`)
	be.json("GET /bookings/user", http.StatusOK, `[{"id":"b1","service_name":"Plumbing","status":"Completed","price":500,"rating":5,"has_payment":false}]`)
	f := newFixture(t, be, customer)

	for _, r := range []int{0, 6} {
		err := f.ctrl.Rate(context.Background(), "b1", r, "")
		assert.Equal(t, api.InvalidInput, api.KindOf(err), "rating %d", r)
	}
	assert.Equal(t, 0, be.count("POST /bookings/b1/rate"))

	require.NoError(t, f.ctrl.Rate(context.Background(), "b1", 5, ""))
	assert.Equal(t, 1, be.count("POST /bookings/b1/rate"))
	assert.Equal(t, 1, be.count("GET /bookings/user"))

	b, ok := f.ctrl.Store().Booking("b1")
	require.True(t, ok)
	assert.True(t, b.RatingShown())
}

func TestCompleteJobValidatesBeforeUpload(t *testing.T) {
	be := newBackend()
	be.json("POST /completion/upload", http.StatusOK, `{}`)
	f := newFixture(t, be, provider)

	err := f.ctrl.CompleteJob(context.Background(), "b1", "  ", nil)
	require.Error(t, err)
	assert.Equal(t, api.InvalidInput, api.KindOf(err))
	assert.Equal(t, 0, be.count("POST /completion/upload"))
}

func TestCompleteJobUploadsAndReloads(t *testing.T) {
	be := newBackend()
	be.handle("POST /completion/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil || r.FormValue("completion_notes") != "Replaced the valve" || len(r.MultipartForm.File["images"]) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{}`)
	})
	be.json("GET /bookings/provider", http.StatusOK, `[{"id":"b1","service_name":"Plumbing","status":"Completed","price":200,"has_payment":false}]`)
	f := newFixture(t, be, provider)
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusInProgress, Price: 200}})

	err := f.ctrl.CompleteJob(context.Background(), "b1", "Replaced the valve", []models.FileUpload{{Name: "after.jpg", Data: []byte("jpeg")}})
	require.NoError(t, err)
	assert.Equal(t, 1, be.count("POST /completion/upload"))
	assert.Equal(t, 1, be.count("GET /bookings/provider"))
	assert.Contains(t, f.messages(), "Service completed and uploaded!")

	b, ok := f.ctrl.Store().Booking("b1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, b.Status)
}

func TestLogoutClearsCredentialEvenWhenServerFails(t *testing.T) {
	be := newBackend()
	be.json("POST /logout", http.StatusInternalServerError, `{"error":"boom"}`)
	f := newFixture(t, be, customer)

	f.ctrl.Logout(context.Background())

	_, err := f.creds.Get(context.Background())
	assert.ErrorIs(t, err, session.ErrNoCredential)
	assert.Equal(t, []string{"/login"}, f.nav.Targets())
	assert.Equal(t, 1, be.count("POST /logout"))
}

func TestToggleAvailabilityKeepsStateOnFailure(t *testing.T) {
	be := newBackend()
	be.json("POST /api/provider/availability", http.StatusInternalServerError, `{"error":"down"}`)
	f := newFixture(t, be, provider)
	f.ctrl.Store().SetAvailability(true)

	got, err := f.ctrl.ToggleAvailability(context.Background())
	require.Error(t, err)
	assert.True(t, got)
	assert.True(t, f.ctrl.Store().Availability())
	assert.Contains(t, f.messages(), "Failed to update availability")
}

func TestProviderIncomingIncludesChatPreviews(t *testing.T) {
	be := newBackend()
	be.json("GET /bookings/provider", http.StatusOK, `[
		{"id":"b1","service_name":"Plumbing","status":"Pending","price":200,"has_payment":false},
		{"id":"b2","service_name":"Cleaning","status":"Accepted","price":300,"has_payment":false},
		{"id":"b3","service_name":"Painting","status":"In Progress","price":900,"has_payment":false}
	]`)
	be.json("GET /api/chat/b2/messages", http.StatusOK, `{"messages":[{"message":"first"},{"message":"on my way"}]}`)
	be.json("GET /api/chat/b3/messages", http.StatusInternalServerError, `{"error":"down"}`)
	f := newFixture(t, be, provider)

	require.NoError(t, f.ctrl.ReloadProviderBookings(context.Background()))
	incoming := f.ctrl.Store().Incoming()
	require.Len(t, incoming, 2)
	assert.Equal(t, models.IncomingBooking, incoming[0].Kind)
	assert.Equal(t, "b1", incoming[0].Booking.ID)
	assert.Equal(t, models.IncomingChat, incoming[1].Kind)
	assert.Equal(t, "on my way", incoming[1].LastMessage.Text())
}

func TestTrackProviderURL(t *testing.T) {
	f := newFixture(t, newBackend(), customer)
	f.ctrl.Store().ReplaceBookings([]models.Booking{
		{ID: "b1", Status: models.StatusAccepted, ProviderID: "p9"},
		{ID: "b2", Status: models.StatusCompleted},
	})

	lat, lon := 12.5, 77.25
	u, err := f.ctrl.TrackProviderURL("b1", &lat, &lon)
	require.NoError(t, err)
	assert.Equal(t, "/track-provider?booking_id=b1&provider_id=p9&user_lat=12.5&user_lon=77.25", u)

	_, err = f.ctrl.TrackProviderURL("b2", nil, nil)
	assert.ErrorIs(t, err, ErrNotOffered)
}

func TestEventsUpdateView(t *testing.T) {
	f := newFixture(t, newBackend(), provider)
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusAccepted, Price: 100}})
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(`{"event":"booking_created","data":{"id":"b2","service_name":"AC Repair","status":"Pending","price":750,"has_payment":false}}`)))
	require.NoError(t, router.Route([]byte(`{"event":"booking_status_updated","data":{"booking_id":"b1","price":150}}`)))
	require.NoError(t, router.Route([]byte(`{"event":"notification","data":{"message":"Maintenance tonight","type":"warning"}}`)))

	bookings := f.ctrl.Store().Bookings()
	require.Len(t, bookings, 2)
	assert.Equal(t, "b2", bookings[0].ID)
	assert.Equal(t, 150.0, bookings[1].Price)
	assert.Equal(t, models.StatusAccepted, bookings[1].Status)

	incoming := f.ctrl.Store().Incoming()
	require.Len(t, incoming, 1)
	assert.Equal(t, "b2", incoming[0].Booking.ID)

	msgs := f.messages()
	assert.Contains(t, msgs, "New booking assigned to you!")
	assert.Contains(t, msgs, "Maintenance tonight")
}

func TestStatusEventForUnknownBookingAddsIt(t *testing.T) {
	f := newFixture(t, newBackend(), customer)
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(`{"event":"booking_status","data":{"id":"b7","status":"Cancelled"}}`)))

	b, ok := f.ctrl.Store().Booking("b7")
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, b.Status)
	assert.Contains(t, f.messages(), "Booking status updated to Cancelled")
}

func TestStatusEventWithoutStatusStillNotifies(t *testing.T) {
	f := newFixture(t, newBackend(), customer)
	f.ctrl.Store().ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusAccepted, Price: 100}})
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(`{"event":"booking_status","data":{"id":"b1","price":120}}`)))

	b, ok := f.ctrl.Store().Booking("b1")
	require.True(t, ok)
	assert.Equal(t, 120.0, b.Price)
	assert.Equal(t, models.StatusAccepted, b.Status)
	assert.Contains(t, f.messages(), "Booking updated")
}

func TestPendingStatusEventForUnknownBookingIsIncoming(t *testing.T) {
	f := newFixture(t, newBackend(), provider)
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(`{"event":"booking_status_updated","data":{"booking_id":"b9","status":"Pending","service_name":"Painting"}}`)))

	incoming := f.ctrl.Store().Incoming()
	require.Len(t, incoming, 1)
	assert.Equal(t, "b9", incoming[0].Booking.ID)
	assert.Equal(t, models.IncomingBooking, incoming[0].Kind)

	require.NoError(t, router.Route([]byte(`{"event":"booking_status_updated","data":{"booking_id":"b9","status":"Accepted"}}`)))
	assert.Empty(t, f.ctrl.Store().Incoming())
}

func TestRatedAndMessageEventsReloadBookings(t *testing.T) {
	be := newBackend()
	be.json("GET /bookings/provider", http.StatusOK, `[{"id":"b1","service_name":"Plumbing","status":"Completed","price":200,"rating":5,"has_payment":false}]`)
	f := newFixture(t, be, provider)
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(`{"event":"booking_rated","data":{"booking_id":"b1","user_name":"Asha","rating":5}}`)))
	assert.Contains(t, f.messages(), "Asha rated your service 5/5 stars!")
	require.Eventually(t, func() bool { return be.count("GET /bookings/provider") == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		b, ok := f.ctrl.Store().Booking("b1")
		return ok && b.RatingShown()
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, router.Route([]byte(`{"event":"new_message","data":{"booking_id":"b1","sender_name":"Asha","message":"Thanks!"}}`)))
	assert.Contains(t, f.messages(), "New message from Asha: Thanks!")
	require.Eventually(t, func() bool { return be.count("GET /bookings/provider") == 2 }, time.Second, 10*time.Millisecond)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []*messaging.Message
}

func (s *recordingSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return "projects/p/messages/1", nil
}

func (s *recordingSender) Sent() []*messaging.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*messaging.Message(nil), s.sent...)
}

const serviceRequestEvent = `{"event":"new_service_request","data":{"request_id":"r1","service_category":"plumbing","title":"Leaking tap","description":"Kitchen tap drips"}}`

func TestServiceRequestEventPushesAndReloadsVisibleList(t *testing.T) {
	be := newBackend()
	be.json("GET /api/provider/service-requests", http.StatusOK, `{"service_requests":[{"id":"r1","service_name":"Plumbing"}]}`)
	sender := &recordingSender{}
	f := newFixtureWith(t, be, provider, fixtureOptions{push: sender, deviceToken: "device-1"})
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	// The jobs view is showing, so the request list is left alone.
	require.NoError(t, router.Route([]byte(serviceRequestEvent)))
	require.Len(t, sender.Sent(), 1)
	pushed := sender.Sent()[0]
	assert.Equal(t, "device-1", pushed.Token)
	assert.Equal(t, "Leaking tap", pushed.Notification.Title)
	assert.Equal(t, "r1", pushed.Data["request_id"])
	assert.Contains(t, f.messages(), "New service request near you: Leaking tap")

	f.ctrl.SetView(ViewServiceRequests)
	require.NoError(t, router.Route([]byte(serviceRequestEvent)))
	assert.Len(t, sender.Sent(), 2)
	require.Eventually(t, func() bool { return be.count("GET /api/provider/service-requests") == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(f.ctrl.Store().ServiceRequests()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestServiceRequestEventWithoutPushPermission(t *testing.T) {
	f := newFixture(t, newBackend(), provider)
	router := realtime.NewRouter(f.ctrl, zap.NewNop())

	require.NoError(t, router.Route([]byte(serviceRequestEvent)))
	assert.Contains(t, f.messages(), "New service request near you: Leaking tap")
}
