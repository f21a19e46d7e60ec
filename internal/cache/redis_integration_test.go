// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

//go:build integration

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const redisImage = "redis:7-alpine"

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startRedis runs a throwaway Redis server and returns its address.
func startRedis(t *testing.T) string {
	t.Helper()
	skipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisStoreIntegration(t *testing.T) {
	addr := startRedis(t)
	store := NewRedisStore(NewRedisClient(RedisConfig{Addr: addr}), 50)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	// More keys than one SCAN page so deletion spans several cursors.
	for i := 0; i < 1000; i++ {
		if err := store.Set(ctx, fmt.Sprintf("recommendations:u1:%d:{}", i), []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if err := store.Set(ctx, "recommendations:u2:10:{}", []byte("keep"), time.Minute); err != nil {
		t.Fatal(err)
	}

	n, err := store.DeletePattern(ctx, "recommendations:u1:*")
	if err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}
	if n != 1000 {
		t.Errorf("DeletePattern() removed %d, want 1000", n)
	}
	if _, err := store.Get(ctx, "recommendations:u1:999:{}"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after DeletePattern error = %v, want ErrNotFound", err)
	}
	if got, err := store.Get(ctx, "recommendations:u2:10:{}"); err != nil || string(got) != "keep" {
		t.Errorf("unrelated key = %q, %v", got, err)
	}

	if err := store.Set(ctx, "short", []byte("x"), time.Second); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, err := store.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after TTL error = %v, want ErrNotFound", err)
	}
}

func TestLayerAgainstRedisIntegration(t *testing.T) {
	addr := startRedis(t)
	store := NewRedisStore(NewRedisClient(RedisConfig{Addr: addr}), 0)
	l := NewLayer(store, Config{
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		InvalidateTimeout: 2 * time.Second,
		TTL:               time.Minute,
	}, zerolog.New(io.Discard))
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}
	params := []interface{}{"u1", 10, map[string]float64{"price": 0.2}}
	for i := 0; i < 2; i++ {
		if _, err := Cached(ctx, l, "recommendations", params, false, fetch); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1 (second call should hit)", calls)
	}

	if !l.Delete(ctx, Key("recommendations", params...)) {
		t.Fatal("Delete() = false")
	}
	if _, err := Cached(ctx, l, "recommendations", params, false, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times after Delete, want 2", calls)
	}
}
