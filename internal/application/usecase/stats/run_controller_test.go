package stats

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRunController(t *testing.T) {
	t.Run("fresh token is live", func(t *testing.T) {
		controller := NewRunController()
		token := controller.StartRun(context.Background())
		defer token.Finish()

		if !token.Live() {
			t.Error("expected fresh token to be live")
		}
		if token.Context().Err() != nil {
			t.Errorf("expected usable context, got %v", token.Context().Err())
		}
	})

	t.Run("starting a new run supersedes the previous one", func(t *testing.T) {
		controller := NewRunController()
		first := controller.StartRun(context.Background())
		second := controller.StartRun(context.Background())
		defer second.Finish()

		if first.Live() {
			t.Error("expected superseded token to be dead")
		}
		if first.Context().Err() == nil {
			t.Error("expected superseded context to be canceled")
		}
		if !second.Live() {
			t.Error("expected newest token to be live")
		}
	})

	t.Run("finished token is not live", func(t *testing.T) {
		controller := NewRunController()
		token := controller.StartRun(context.Background())
		token.Finish()

		if token.Live() {
			t.Error("expected finished token to be dead")
		}
	})

	t.Run("parent cancellation kills the token", func(t *testing.T) {
		controller := NewRunController()
		ctx, cancel := context.WithCancel(context.Background())
		token := controller.StartRun(ctx)
		defer token.Finish()

		cancel()
		if token.Live() {
			t.Error("expected token under canceled parent to be dead")
		}
	})

	t.Run("only the newest of many runs survives", func(t *testing.T) {
		controller := NewRunController()
		tokens := make([]*RunToken, 0, 5)
		for i := 0; i < 5; i++ {
			tokens = append(tokens, controller.StartRun(context.Background()))
		}
		defer tokens[4].Finish()

		for i := 0; i < 4; i++ {
			if tokens[i].Live() {
				t.Errorf("expected token %d to be superseded", i)
			}
		}
		if !tokens[4].Live() {
			t.Error("expected newest token to be live")
		}
	})
}

func TestControllerRegistry(t *testing.T) {
	t.Run("returns the same controller per user", func(t *testing.T) {
		registry := NewControllerRegistry()
		userID := uuid.New()

		if registry.For(userID) != registry.For(userID) {
			t.Error("expected a stable controller per user")
		}
	})

	t.Run("runs of different users do not cancel each other", func(t *testing.T) {
		registry := NewControllerRegistry()
		alice := uuid.New()
		bob := uuid.New()

		aliceToken := registry.For(alice).StartRun(context.Background())
		defer aliceToken.Finish()
		bobToken := registry.For(bob).StartRun(context.Background())
		defer bobToken.Finish()

		if !aliceToken.Live() {
			t.Error("expected first user's run to survive the second user's run")
		}
		if !bobToken.Live() {
			t.Error("expected second user's run to be live")
		}
	})
}
