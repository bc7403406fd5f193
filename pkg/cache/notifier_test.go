package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"places-autocomplete/internal/models"
	"places-autocomplete/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestNotifier(t *testing.T) (*Notifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewNotifier(client), mr
}

func TestNotifierPublishSubscribe(t *testing.T) {
	notifier, _ := newTestNotifier(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := notifier.Subscribe(ctx, "ctl-1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	want := models.OutputNotification{
		ControlID: "ctl-1",
		Outputs:   models.StructuredAddress{Street: "Main St 42", City: "Springfield"},
	}
	if err := notifier.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-sub.C:
		if got != want {
			t.Errorf("notification = %+v, want %+v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("no notification received")
	}
}

func TestNotifierChannelIsPerControl(t *testing.T) {
	notifier, mr := newTestNotifier(t)
	ctx := context.Background()

	if err := notifier.Publish(ctx, models.OutputNotification{ControlID: "a"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := ControlOutputsChannel("a"); got != "control:a:outputs" {
		t.Errorf("channel = %s", got)
	}
	if n := mr.PubSubNumSub("control:a:outputs")["control:a:outputs"]; n != 0 {
		t.Errorf("unexpected subscribers: %d", n)
	}
}

func TestNotifierPublishFailure(t *testing.T) {
	notifier, mr := newTestNotifier(t)
	mr.Close()

	err := notifier.Publish(context.Background(), models.OutputNotification{ControlID: "a"})
	var cacheErr *CacheError
	if !errors.As(err, &cacheErr) || cacheErr.Operation != "publish" {
		t.Fatalf("err = %v, want publish CacheError", err)
	}
	if !IsRetryable(err) {
		t.Error("publish failures should be retryable")
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	notifier, _ := newTestNotifier(t)
	sub, err := notifier.Subscribe(context.Background(), "ctl-2")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	sub.Close()

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after Close")
	}
}

func TestLoadRedisConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = 6379

	rc, err := LoadRedisConfig(cfg)
	if err != nil {
		t.Fatalf("LoadRedisConfig: %v", err)
	}
	if rc.Addr() != "localhost:6379" {
		t.Errorf("Addr = %s", rc.Addr())
	}

	cfg.Redis.DB = -1
	if _, err := LoadRedisConfig(cfg); err == nil {
		t.Error("negative DB should be rejected")
	}
}
