package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"

	goredis "github.com/redis/go-redis/v9"
)

func TestLockSurfacesConnectionErrors(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewLocker(client, time.Second).Lock(context.Background(), "judge:1")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if errors.Is(err, domainerrors.ErrJudgeInProgress) {
		t.Fatalf("connection failure must not read as contention, got %v", err)
	}
}

func TestNewLockerDefaultsTTL(t *testing.T) {
	locker := NewLocker(nil, 0)
	if locker.ttl != defaultTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultTTL, locker.ttl)
	}
}
