package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"listing-service/internal/core/domain"
)

type fakeDrafts struct {
	mu      sync.Mutex
	items   map[uuid.UUID]domain.Draft
	deleted []uuid.UUID
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{items: map[uuid.UUID]domain.Draft{}}
}

func (f *fakeDrafts) Create(_ context.Context, d domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[d.ID] = d
	return nil
}

func (f *fakeDrafts) Get(_ context.Context, id uuid.UUID, owner string) (*domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.items[id]
	if !ok || d.OwnerEmail != owner {
		return nil, domain.ErrNotFound
	}
	d.Record = d.Record.Clone()
	return &d, nil
}

func (f *fakeDrafts) Delete(_ context.Context, id uuid.UUID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeExtracts struct {
	mu      sync.Mutex
	items   map[string]map[string]any
	loadErr error
}

func newFakeExtracts() *fakeExtracts {
	return &fakeExtracts{items: map[string]map[string]any{}}
}

func extractKey(email string, id uuid.UUID) string { return email + "/" + id.String() }

func (f *fakeExtracts) Save(_ context.Context, email string, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[extractKey(email, id)] = fields
	return nil
}

func (f *fakeExtracts) Load(_ context.Context, email string, id uuid.UUID) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.items[extractKey(email, id)], nil
}

func (f *fakeExtracts) Delete(_ context.Context, email string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, extractKey(email, id))
	return nil
}

type fakeListings struct {
	mu       sync.Mutex
	items    []domain.Listing
	archived time.Time
	archiveN int64
	lastFind domain.SearchQuery
}

func (f *fakeListings) Create(_ context.Context, l domain.Listing) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = int64(len(f.items) + 1)
	f.items = append(f.items, l)
	return l.ID, nil
}

func (f *fakeListings) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.items {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeListings) ListByOwner(_ context.Context, owner string, limit int) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Listing
	for _, l := range f.items {
		if l.OwnerEmail == owner && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) ListRecentApproved(_ context.Context, limit int) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Listing
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].Status == domain.ListingApproved {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeListings) FindCandidates(_ context.Context, q domain.SearchQuery, limit int) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFind = q
	var out []domain.Listing
	for _, l := range f.items {
		if l.Status == domain.ListingApproved && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) ArchiveExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = now
	return f.archiveN, nil
}

type fakeWanted struct {
	mu    sync.Mutex
	items []domain.WantedRequest
	last  domain.WantedFilter
}

func (f *fakeWanted) Create(_ context.Context, w domain.WantedRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = int64(len(f.items) + 1)
	f.items = append(f.items, w)
	return w.ID, nil
}

func (f *fakeWanted) GetByID(_ context.Context, id int64) (*domain.WantedRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.items {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWanted) ListOpen(_ context.Context, filter domain.WantedFilter) ([]domain.WantedRequest, error) {
	f.mu.Lock()
	f.last = filter
	f.mu.Unlock()
	return f.ListAllOpen(context.Background())
}

func (f *fakeWanted) ListAllOpen(_ context.Context) ([]domain.WantedRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WantedRequest
	for _, w := range f.items {
		if w.Status == domain.WantedOpen {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWanted) ListByUser(_ context.Context, email string, _ int) ([]domain.WantedRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WantedRequest
	for _, w := range f.items {
		if w.UserEmail == email {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWanted) Close(_ context.Context, id int64, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.items {
		if w.ID == id && w.UserEmail == email && w.Status == domain.WantedOpen {
			f.items[i].Status = domain.WantedClosed
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSearches struct {
	mu    sync.Mutex
	items []domain.SavedSearch
}

func (f *fakeSearches) Create(_ context.Context, s domain.SavedSearch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = int64(len(f.items) + 1)
	f.items = append(f.items, s)
	return s.ID, nil
}

func (f *fakeSearches) ListByUser(_ context.Context, email string) ([]domain.SavedSearch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SavedSearch
	for _, s := range f.items {
		if s.UserEmail == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSearches) ListAll(_ context.Context) ([]domain.SavedSearch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SavedSearch(nil), f.items...), nil
}

func (f *fakeSearches) Delete(_ context.Context, id int64, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.items {
		if s.ID == id && s.UserEmail == email {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeNotifications dedupes on DedupeKey like the unique index does.
type fakeNotifications struct {
	mu    sync.Mutex
	items []domain.Notification
	err   error
}

func (f *fakeNotifications) Insert(_ context.Context, n domain.Notification) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.items {
		if existing.DedupeKey == n.DedupeKey {
			return false, nil
		}
	}
	n.ID = int64(len(f.items) + 1)
	f.items = append(f.items, n)
	return true, nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, email string, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.items {
		if n.TargetEmail == email && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) ofType(t domain.NotificationType) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.items {
		if n.Type == t {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DedupeKey < out[j].DedupeKey })
	return out
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeEvents struct {
	published []domain.Listing
	err       error
}

func (f *fakeEvents) PublishListingSubmitted(_ context.Context, l domain.Listing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, l)
	return nil
}

type fakeClassifier struct {
	category domain.Category
	calls    int
}

func (f *fakeClassifier) Classify(_ context.Context, _, _ string) domain.Category {
	f.calls++
	return f.category
}

type fakeAI struct {
	answer string
	err    error
	input  string
}

func (f *fakeAI) Generate(_ context.Context, _, input string) (string, error) {
	f.input = input
	return f.answer, f.err
}

type fakeMetrics struct {
	mu        sync.Mutex
	fallbacks []string
	evaluated map[string]int
	created   int
	archived  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{evaluated: map[string]int{}}
}

func (f *fakeMetrics) CategoryClassified(string) {}

func (f *fakeMetrics) AIFallback(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbacks = append(f.fallbacks, op)
}

func (f *fakeMetrics) MatchEvaluated(kind string, _ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluated[kind]++
}

func (f *fakeMetrics) NotificationCreated(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
}

func (f *fakeMetrics) ListingsArchived(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived += n
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func vehicleListing(owner, title, location string, price float64, year int, model string) domain.Listing {
	return domain.Listing{
		OwnerEmail: owner,
		Title:      title,
		Category:   domain.CategoryVehicle,
		Status:     domain.ListingApproved,
		Record: domain.StructuredRecord{
			Location:        location,
			Price:           ptr(price),
			PricingType:     domain.PricingNegotiable,
			ModelName:       model,
			ManufactureYear: ptr(year),
			SubCategory:     "Car",
		},
	}
}
