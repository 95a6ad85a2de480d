package viewmodel

import (
	"sync"

	"hoofix/models"
)

// Store is the per-session view-model. Every mutation takes the lock for its
// whole duration so readers never observe a half-applied update.
type Store struct {
	mu sync.RWMutex

	bookings        []models.Booking
	incoming        []models.IncomingRequest
	wallet          *models.WalletSummary
	profile         *models.Profile
	addresses       []models.Address
	serviceRequests []models.ServiceRequest
	availability    bool

	version     uint64
	subscribers []func(version uint64)
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every mutation. fn runs outside the
// lock and must not block.
func (s *Store) Subscribe(fn func(version uint64)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Version increases by one with each mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// mutate runs fn under the write lock, then notifies subscribers.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	v := s.version
	subs := append([]func(uint64){}, s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
}

func (s *Store) ReplaceBookings(bookings []models.Booking) {
	cp := append([]models.Booking{}, bookings...)
	s.mutate(func() { s.bookings = cp })
}

// Bookings returns a copy in display order.
func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking{}, s.bookings...)
}

func (s *Store) Booking(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// MergeBooking shallow-merges delta into the booking with the same id. An
// unknown id is materialised and prepended. The return value reports whether
// the booking was new.
func (s *Store) MergeBooking(delta models.BookingDelta) (merged models.Booking, created bool) {
	s.mutate(func() {
		for i := range s.bookings {
			if s.bookings[i].ID == delta.ID {
				delta.Apply(&s.bookings[i])
				merged = s.bookings[i]
				return
			}
		}
		merged = delta.Booking()
		created = true
		s.bookings = append([]models.Booking{merged}, s.bookings...)
	})
	return merged, created
}

// PrependBooking puts b at the front. A booking with the same id is replaced
// in place instead of duplicated.
func (s *Store) PrependBooking(b models.Booking) {
	s.mutate(func() {
		for i := range s.bookings {
			if s.bookings[i].ID == b.ID {
				s.bookings[i] = b
				return
			}
		}
		s.bookings = append([]models.Booking{b}, s.bookings...)
	})
}

func (s *Store) RemoveBooking(id string) {
	s.mutate(func() {
		kept := s.bookings[:0:0]
		for _, b := range s.bookings {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		s.bookings = kept
	})
}

func (s *Store) ReplaceIncoming(reqs []models.IncomingRequest) {
	cp := append([]models.IncomingRequest{}, reqs...)
	s.mutate(func() { s.incoming = cp })
}

func (s *Store) Incoming() []models.IncomingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.IncomingRequest{}, s.incoming...)
}

func (s *Store) PrependIncoming(req models.IncomingRequest) {
	s.mutate(func() {
		for i := range s.incoming {
			if s.incoming[i].ID() == req.ID() {
				s.incoming[i] = req
				return
			}
		}
		s.incoming = append([]models.IncomingRequest{req}, s.incoming...)
	})
}

// RemoveIncoming drops every inbox entry for the booking id.
func (s *Store) RemoveIncoming(bookingID string) {
	s.mutate(func() {
		kept := s.incoming[:0:0]
		for _, r := range s.incoming {
			if r.Booking.ID != bookingID {
				kept = append(kept, r)
			}
		}
		s.incoming = kept
	})
}

func (s *Store) SetWallet(w models.WalletSummary) {
	w.Transactions = append([]models.Transaction{}, w.Transactions...)
	s.mutate(func() { s.wallet = &w })
}

// Wallet returns the last loaded summary; ok is false before the first load.
func (s *Store) Wallet() (models.WalletSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return models.WalletSummary{}, false
	}
	w := *s.wallet
	w.Transactions = append([]models.Transaction{}, s.wallet.Transactions...)
	return w, true
}

// WalletBalance is nil when no wallet has been loaded.
func (s *Store) WalletBalance() *float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil
	}
	v := s.wallet.Credits
	return &v
}

func (s *Store) SetProfile(p models.Profile) {
	s.mutate(func() {
		s.profile = &p
		if p.ProviderProfile != nil && p.ProviderProfile.Availability != nil {
			s.availability = *p.ProviderProfile.Availability
		}
	})
}

func (s *Store) Profile() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// Skills returns the provider's skills from the loaded profile.
func (s *Store) Skills() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil || s.profile.ProviderProfile == nil {
		return nil
	}
	return append([]string{}, s.profile.ProviderProfile.Skills...)
}

func (s *Store) DailyRates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]float64{}
	if s.profile == nil || s.profile.ProviderProfile == nil {
		return out
	}
	for k, v := range s.profile.ProviderProfile.DailyRates {
		out[k] = v
	}
	return out
}

func (s *Store) SetAvailability(available bool) {
	s.mutate(func() { s.availability = available })
}

func (s *Store) Availability() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availability
}

func (s *Store) ReplaceAddresses(addrs []models.Address) {
	cp := append([]models.Address{}, addrs...)
	s.mutate(func() { s.addresses = cp })
}

func (s *Store) Addresses() []models.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Address{}, s.addresses...)
}

func (s *Store) ReplaceServiceRequests(reqs []models.ServiceRequest) {
	cp := append([]models.ServiceRequest{}, reqs...)
	s.mutate(func() { s.serviceRequests = cp })
}

func (s *Store) ServiceRequests() []models.ServiceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ServiceRequest{}, s.serviceRequests...)
}

// Reset drops everything, used at logout.
func (s *Store) Reset() {
	s.mutate(func() {
		s.bookings = nil
		s.incoming = nil
		s.wallet = nil
		s.profile = nil
		s.addresses = nil
		s.serviceRequests = nil
		s.availability = false
	})
}
