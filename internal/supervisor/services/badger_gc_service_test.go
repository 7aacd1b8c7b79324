// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeGCRunner struct {
	calls atomic.Int64
	err   error
}

func (f *fakeGCRunner) RunGC() error {
	f.calls.Add(1)
	return f.err
}

func TestBadgerGCServiceTicks(t *testing.T) {
	runner := &fakeGCRunner{}
	svc := NewBadgerGCService(runner, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for runner.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d GC runs before deadline", runner.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestBadgerGCServiceSurvivesGCFailure(t *testing.T) {
	runner := &fakeGCRunner{err: errors.New("value log busy")}
	svc := NewBadgerGCService(runner, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for runner.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d GC attempts before deadline", runner.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestBadgerGCServiceDefaultInterval(t *testing.T) {
	svc := NewBadgerGCService(&fakeGCRunner{}, 0, zerolog.Nop())
	if svc.interval != 10*time.Minute {
		t.Errorf("interval = %s, want 10m", svc.interval)
	}
}
