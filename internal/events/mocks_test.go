package events

import (
	"context"
	"sync"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm/events"
)

// FakeSubscriber captures subscriptions and lets tests deliver messages
// synchronously.
type FakeSubscriber struct {
	SubscribeErr error
	handlers     map[string]events.HandlerFunc
}

func NewFakeSubscriber() *FakeSubscriber {
	return &FakeSubscriber{handlers: make(map[string]events.HandlerFunc)}
}

func (f *FakeSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if f.SubscribeErr != nil {
		return f.SubscribeErr
	}
	f.handlers[topic] = handler
	return nil
}

func (f *FakeSubscriber) Deliver(ctx context.Context, topic string, msg []byte) error {
	handler, ok := f.handlers[topic]
	if !ok {
		return nil
	}
	return handler(ctx, msg)
}

// CountingLoader tracks which families were fetched. Counts are guarded
// because full reloads fetch families concurrently.
type CountingLoader struct {
	mu    sync.Mutex
	calls map[catalog.Family]int

	Items []catalog.Item
}

func NewCountingLoader() *CountingLoader {
	return &CountingLoader{calls: make(map[catalog.Family]int)}
}

func (l *CountingLoader) record(family catalog.Family) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[family]++
}

func (l *CountingLoader) Count(family catalog.Family) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[family]
}

func (l *CountingLoader) TotalCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, n := range l.calls {
		total += n
	}
	return total
}

func (l *CountingLoader) ListServices(ctx context.Context) ([]catalog.Service, error) {
	l.record(catalog.FamilyServices)
	return nil, nil
}

func (l *CountingLoader) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	l.record(catalog.FamilyCategories)
	return nil, nil
}

func (l *CountingLoader) ListSubCategories(ctx context.Context) ([]catalog.SubCategory, error) {
	l.record(catalog.FamilySubCategories)
	return nil, nil
}

func (l *CountingLoader) ListItems(ctx context.Context) ([]catalog.Item, error) {
	l.record(catalog.FamilyItems)
	return l.Items, nil
}

func (l *CountingLoader) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	l.record(catalog.FamilyTags)
	return nil, nil
}

func (l *CountingLoader) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	l.record(catalog.FamilyAddons)
	return nil, nil
}
