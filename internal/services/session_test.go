package services

import (
	"sync"
	"testing"

	"github.com/desertthunder/spotmp3/internal/models"
)

func TestSessionStore(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		store := NewSessionStore()
		if _, ok := store.Current(); ok {
			t.Error("new store should have no session")
		}
		if _, ok := store.Owns("alice"); ok {
			t.Error("empty store should own nothing")
		}
	})

	t.Run("Nil store", func(t *testing.T) {
		var store *SessionStore
		if _, ok := store.Current(); ok {
			t.Error("nil store should have no session")
		}
	})

	t.Run("Set replaces", func(t *testing.T) {
		store := NewSessionStore()
		store.Set(&Session{Account: models.Account{ID: "alice"}})
		store.Set(&Session{Account: models.Account{ID: "bob"}})

		session, ok := store.Current()
		if !ok || session.Account.ID != "bob" {
			t.Errorf("expected bob's session, got %+v", session)
		}
		if _, ok := store.Owns("alice"); ok {
			t.Error("replaced session should not own alice")
		}
		if _, ok := store.Owns("bob"); !ok {
			t.Error("expected session to own bob")
		}
		if _, ok := store.Owns(""); ok {
			t.Error("empty account id should never match")
		}
	})

	t.Run("Concurrent access", func(t *testing.T) {
		store := NewSessionStore()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				store.Set(&Session{Account: models.Account{ID: "alice"}})
			}()
			go func() {
				defer wg.Done()
				store.Current()
			}()
		}
		wg.Wait()
	})
}
