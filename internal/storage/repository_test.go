package storage

import (
	"context"
	"testing"
)

type stubRepo struct{}

func (stubRepo) Exec(context.Context, string) error { return nil }
func (stubRepo) CopyFrom(context.Context, string, []string, [][]any) (int64, error) {
	return 0, nil
}
func (stubRepo) Close() {}

/*
TestRegisterOpen registers a stub backend and opens it through the factory;
an unregistered kind must fail with a clear error.
*/
func TestRegisterOpen(t *testing.T) {
	Register("stub", func(ctx context.Context, cfg Config) (Repository, error) {
		if cfg.DSN != "stub://dsn" {
			t.Errorf("factory got DSN %q", cfg.DSN)
		}
		return stubRepo{}, nil
	})

	repo, err := Open(context.Background(), Config{Kind: "stub", DSN: "stub://dsn"})
	if err != nil {
		t.Fatalf("Open(stub): %v", err)
	}
	if repo == nil {
		t.Fatal("Open(stub) returned nil repository")
	}

	if _, err := Open(context.Background(), Config{Kind: "nope"}); err == nil {
		t.Fatal("Open(unregistered) = nil error")
	}
}
