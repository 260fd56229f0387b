package webhook

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"outbound_ai_backend/internal/events"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/platform/phone"
)

// fakeLeadStore mimics the Postgres adapter's query semantics in memory.
type fakeLeadStore struct {
	leads []repository.Lead

	exactErr  error
	suffixErr error
	recentErr error
	nameErr   error
	updateErr error

	updates []string
}

func newFakeLeadStore(leads ...repository.Lead) *fakeLeadStore {
	return &fakeLeadStore{leads: leads}
}

func (f *fakeLeadStore) GetByID(_ context.Context, id string) (repository.Lead, error) {
	for _, lead := range f.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeLeadStore) GetByExactPhone(_ context.Context, p string) (repository.Lead, error) {
	if f.exactErr != nil {
		return repository.Lead{}, f.exactErr
	}
	for _, lead := range f.leads {
		if lead.PhoneNumber == p {
			return lead, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeLeadStore) ListByPhoneSuffix(_ context.Context, suffix string, limit int) ([]repository.Lead, error) {
	if f.suffixErr != nil {
		return nil, f.suffixErr
	}
	var out []repository.Lead
	for _, lead := range f.leads {
		if strings.Contains(phone.Digits(lead.PhoneNumber), suffix) && len(out) < limit {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeLeadStore) ListRecent(_ context.Context, limit int) ([]repository.Lead, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.leads) < limit {
		limit = len(f.leads)
	}
	return append([]repository.Lead(nil), f.leads[:limit]...), nil
}

func (f *fakeLeadStore) ListByNameLike(_ context.Context, pattern string, limit int) ([]repository.Lead, error) {
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	var out []repository.Lead
	for _, lead := range f.leads {
		if strings.Contains(strings.ToLower(lead.Name), strings.ToLower(pattern)) && len(out) < limit {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeLeadStore) Update(_ context.Context, id string, params repository.UpdateLeadParams) ([]repository.Lead, error) {
	f.updates = append(f.updates, id)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.leads {
		if f.leads[i].ID != id {
			continue
		}
		lead := &f.leads[i]
		if params.Status != nil {
			lead.Status = *params.Status
		}
		if params.Disposition != nil {
			v := *params.Disposition
			lead.Disposition = &v
		}
		if params.Duration != nil {
			v := *params.Duration
			lead.Duration = &v
		}
		if params.Cost != nil {
			v := *params.Cost
			lead.Cost = &v
		}
		if params.RecordingURL != nil {
			v := *params.RecordingURL
			lead.RecordingURL = &v
		}
		lead.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		return []repository.Lead{*lead}, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLeadStore) lead(id string) repository.Lead {
	l, _ := f.GetByID(context.Background(), id)
	return l
}

var errStoreDown = errors.New("store unavailable")

// stallingStore hangs on the selected calls until the caller's context ends.
type stallingStore struct {
	*fakeLeadStore
	stallExact  bool
	stallUpdate bool
}

func (s stallingStore) GetByExactPhone(ctx context.Context, p string) (repository.Lead, error) {
	if s.stallExact {
		<-ctx.Done()
		return repository.Lead{}, ctx.Err()
	}
	return s.fakeLeadStore.GetByExactPhone(ctx, p)
}

func (s stallingStore) Update(ctx context.Context, id string, params repository.UpdateLeadParams) ([]repository.Lead, error) {
	if s.stallUpdate {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.fakeLeadStore.Update(ctx, id, params)
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

// memoryGuard is an in-process DuplicateGuard.
type memoryGuard struct {
	seen    map[string]bool
	seenErr error
}

func (g *memoryGuard) Seen(_ context.Context, callID string) (bool, error) {
	if g.seenErr != nil {
		return false, g.seenErr
	}
	return g.seen[callID], nil
}

func (g *memoryGuard) Mark(_ context.Context, callID string) error {
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	g.seen[callID] = true
	return nil
}

var _ repository.LeadStore = (*fakeLeadStore)(nil)
