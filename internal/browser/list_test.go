package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// numbers fetches from a fixed pool of n ints and counts calls.
type numbers struct {
	n     int
	calls int
	fail  error
}

func (s *numbers) fetch(ctx context.Context, query string, offset, limit int) (*models.Page[int], error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	page := &models.Page[int]{Total: s.n}
	for i := offset; i < min(offset+limit, s.n); i++ {
		page.Items = append(page.Items, i)
	}
	return page, nil
}

func TestPageState(t *testing.T) {
	tc := []struct {
		name    string
		state   PageState
		hasNext bool
		hasPrev bool
		page    int
		pages   int
	}{
		{name: "empty", state: PageState{Limit: 10}, page: 1, pages: 1},
		{name: "first of three", state: PageState{Offset: 0, Limit: 10, Total: 25}, hasNext: true, page: 1, pages: 3},
		{name: "middle", state: PageState{Offset: 10, Limit: 10, Total: 25}, hasNext: true, hasPrev: true, page: 2, pages: 3},
		{name: "last", state: PageState{Offset: 20, Limit: 10, Total: 25}, hasPrev: true, page: 3, pages: 3},
		{name: "exact fit", state: PageState{Offset: 10, Limit: 10, Total: 20}, hasPrev: true, page: 2, pages: 2},
		{name: "single", state: PageState{Limit: 10, Total: 1}, page: 1, pages: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.HasNext(); got != tt.hasNext {
				t.Errorf("HasNext() = %v, want %v", got, tt.hasNext)
			}
			if got := tt.state.HasPrev(); got != tt.hasPrev {
				t.Errorf("HasPrev() = %v, want %v", got, tt.hasPrev)
			}
			if got := tt.state.Page(); got != tt.page {
				t.Errorf("Page() = %d, want %d", got, tt.page)
			}
			if got := tt.state.Pages(); got != tt.pages {
				t.Errorf("Pages() = %d, want %d", got, tt.pages)
			}
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Load fetches first page", func(t *testing.T) {
		src := &numbers{n: 25}
		list := NewList("numbers", 10, src.fetch)

		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		state := list.State()
		if state.Offset != 0 || state.Limit != 10 || state.Total != 25 {
			t.Errorf("unexpected state %+v", state)
		}
		if items := list.Items(); len(items) != 10 || items[0] != 0 {
			t.Errorf("unexpected items %v", items)
		}
		if list.Query() != "q" {
			t.Errorf("expected query q, got %q", list.Query())
		}
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		list := NewList("numbers", 0, (&numbers{}).fetch)
		if list.State().Limit != DefaultLimit {
			t.Errorf("expected limit %d, got %d", DefaultLimit, list.State().Limit)
		}
	})

	t.Run("Next then Prev returns to the same page", func(t *testing.T) {
		src := &numbers{n: 25}
		list := NewList("numbers", 10, src.fetch)
		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before := list.Items()

		moved, err := list.Next(ctx)
		if err != nil || !moved {
			t.Fatalf("Next() = %v, %v", moved, err)
		}
		if list.State().Offset != 10 || list.Items()[0] != 10 {
			t.Errorf("expected second page, got %+v %v", list.State(), list.Items())
		}

		moved, err = list.Prev(ctx)
		if err != nil || !moved {
			t.Fatalf("Prev() = %v, %v", moved, err)
		}
		if after := list.Items(); fmt.Sprint(after) != fmt.Sprint(before) {
			t.Errorf("expected %v after round trip, got %v", before, after)
		}
	})

	t.Run("bounds are no-ops", func(t *testing.T) {
		src := &numbers{n: 15}
		list := NewList("numbers", 10, src.fetch)
		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if moved, err := list.Prev(ctx); moved || err != nil {
			t.Errorf("Prev() on first page = %v, %v", moved, err)
		}
		if _, err := list.Next(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		calls := src.calls
		if moved, err := list.Next(ctx); moved || err != nil {
			t.Errorf("Next() on last page = %v, %v", moved, err)
		}
		if src.calls != calls {
			t.Errorf("expected no fetch at the boundary, got %d extra", src.calls-calls)
		}
		if list.State().Offset != 10 {
			t.Errorf("expected offset 10, got %d", list.State().Offset)
		}
	})

	t.Run("failed fetch leaves state unchanged", func(t *testing.T) {
		src := &numbers{n: 25}
		list := NewList("numbers", 10, src.fetch)
		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before := list.State()

		src.fail = errors.New("boom")
		moved, err := list.Next(ctx)
		if moved {
			t.Error("expected no move on failure")
		}
		if !errors.Is(err, shared.ErrQueryFailure) {
			t.Errorf("expected ErrQueryFailure, got %v", err)
		}
		if list.State() != before || list.Items()[0] != 0 {
			t.Errorf("state changed after failure: %+v", list.State())
		}
	})

	t.Run("auth errors are not rewrapped", func(t *testing.T) {
		src := &numbers{fail: fmt.Errorf("%w: no session", shared.ErrAuthRequired)}
		list := NewList("numbers", 10, src.fetch)

		err := list.Load(ctx, "q")
		if !errors.Is(err, shared.ErrAuthRequired) || errors.Is(err, shared.ErrQueryFailure) {
			t.Errorf("expected only ErrAuthRequired, got %v", err)
		}
	})

	t.Run("Goto", func(t *testing.T) {
		tc := []struct {
			name   string
			page   int
			offset int
			err    error
		}{
			{name: "middle page", page: 2, offset: 10},
			{name: "last page", page: 3, offset: 20},
			{name: "beyond last clamps", page: 9, offset: 20},
			{name: "zero rejected", page: 0, offset: 0, err: shared.ErrInvalidArgument},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				list := NewList("numbers", 10, (&numbers{n: 25}).fetch)
				if err := list.Load(ctx, "q"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				err := list.Goto(ctx, tt.page)
				if tt.err != nil {
					if !errors.Is(err, tt.err) {
						t.Errorf("expected %v, got %v", tt.err, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if list.State().Offset != tt.offset {
					t.Errorf("expected offset %d, got %d", tt.offset, list.State().Offset)
				}
			})
		}
	})

	t.Run("Select", func(t *testing.T) {
		list := NewList("numbers", 10, (&numbers{n: 3}).fetch)
		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got, err := list.Select(2); err != nil || got != 2 {
			t.Errorf("Select(2) = %d, %v", got, err)
		}
		for _, i := range []int{-1, 3} {
			if _, err := list.Select(i); !errors.Is(err, shared.ErrInvalidSelection) {
				t.Errorf("Select(%d): expected ErrInvalidSelection, got %v", i, err)
			}
		}
	})

	t.Run("Single and Placeholder", func(t *testing.T) {
		list := NewList("numbers", 10, (&numbers{n: 25}).fetch)
		if err := list.Load(ctx, "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		list.Single(42)
		if state := list.State(); state.Total != 1 || state.Offset != 0 || state.HasNext() {
			t.Errorf("unexpected single state %+v", state)
		}
		if items := list.Items(); len(items) != 1 || items[0] != 42 {
			t.Errorf("unexpected items %v", items)
		}

		list.Placeholder("nothing here")
		if list.Notice() != "nothing here" || len(list.Items()) != 0 || list.State().Total != 0 {
			t.Errorf("unexpected placeholder state %q %v", list.Notice(), list.Items())
		}

		list.Clear()
		if list.Notice() != "" {
			t.Errorf("expected Clear to drop the notice, got %q", list.Notice())
		}
	})
}
