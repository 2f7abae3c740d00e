package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// DefaultLimit is used when a list is built with a non-positive limit.
const DefaultLimit = 10

// FetchFunc loads one page of items for query.
type FetchFunc[T any] func(ctx context.Context, query string, offset, limit int) (*models.Page[T], error)

// List is one paginated result list.
//
// Methods are safe for concurrent use; fetches are serialized.
type List[T any] struct {
	mu     sync.Mutex
	name   string
	fetch  FetchFunc[T]
	state  PageState
	query  string
	items  []T
	notice string
}

// NewList returns an empty list bound to fetch.
func NewList[T any](name string, limit int, fetch FetchFunc[T]) *List[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &List[T]{name: name, fetch: fetch, state: PageState{Limit: limit}}
}

// Name identifies the list in errors and output.
func (l *List[T]) Name() string {
	return l.name
}

// Load fetches the first page for query and replaces the list.
func (l *List[T]) Load(ctx context.Context, query string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetchAt(ctx, query, 0)
}

// Next moves forward one page. It reports whether the list moved.
func (l *List[T]) Next(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.HasNext() {
		return false, nil
	}
	if err := l.fetchAt(ctx, l.query, l.state.Offset+l.state.Limit); err != nil {
		return false, err
	}
	return true, nil
}

// Prev moves back one page. It reports whether the list moved.
func (l *List[T]) Prev(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.HasPrev() {
		return false, nil
	}
	if err := l.fetchAt(ctx, l.query, l.state.Offset-l.state.Limit); err != nil {
		return false, err
	}
	return true, nil
}

// Goto moves to the 1-based page, clamped to the last page.
func (l *List[T]) Goto(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", shared.ErrInvalidArgument, page)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	offset := min((page-1)*l.state.Limit, l.state.lastOffset())
	if offset == l.state.Offset {
		return nil
	}
	return l.fetchAt(ctx, l.query, offset)
}

// fetchAt commits the page at offset only when the fetch succeeds.
func (l *List[T]) fetchAt(ctx context.Context, query string, offset int) error {
	page, err := l.fetchPage(ctx, query, offset)
	if err != nil {
		return err
	}
	l.commit(query, offset, page)
	return nil
}

func (l *List[T]) fetchPage(ctx context.Context, query string, offset int) (*models.Page[T], error) {
	page, err := l.fetch(ctx, query, offset, l.state.Limit)
	if err != nil {
		if errors.Is(err, shared.ErrQueryFailure) || errors.Is(err, shared.ErrAuthRequired) {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrQueryFailure, l.name, err)
	}
	return page, nil
}

func (l *List[T]) commit(query string, offset int, page *models.Page[T]) {
	l.query = query
	l.items = page.Items
	l.notice = ""
	l.state.Total = max(page.Total, 0)
	l.state.Offset = min(offset, l.state.Total)
}

// loadBoth fetches the first page of a and b for query and commits neither unless both succeed.
func loadBoth[A, B any](ctx context.Context, a *List[A], b *List[B], query string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	pageA, errA := a.fetchPage(ctx, query, 0)
	pageB, errB := b.fetchPage(ctx, query, 0)
	if err := errors.Join(errA, errB); err != nil {
		return err
	}

	a.commit(query, 0, pageA)
	b.commit(query, 0, pageB)
	return nil
}

// Single shows exactly one item with a total of one.
func (l *List[T]) Single(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.query = ""
	l.items = []T{item}
	l.notice = ""
	l.state = PageState{Limit: l.state.Limit, Total: 1}
}

// Clear empties the list and resets its state.
func (l *List[T]) Clear() {
	l.Placeholder("")
}

// Placeholder empties the list and shows msg in place of results.
func (l *List[T]) Placeholder(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.query = ""
	l.items = nil
	l.notice = msg
	l.state = PageState{Limit: l.state.Limit}
}

// Select returns the item at the 0-based index of the current page.
func (l *List[T]) Select(i int) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, fmt.Errorf("%w: %s has no item %d", shared.ErrInvalidSelection, l.name, i+1)
	}
	return l.items[i], nil
}

// Items returns a copy of the current page.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]T, len(l.items))
	copy(items, l.items)
	return items
}

// State returns the pagination state.
func (l *List[T]) State() PageState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Query returns the query of the current page.
func (l *List[T]) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Notice returns the placeholder message, empty when the list holds results.
func (l *List[T]) Notice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notice
}
