package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loanapp "github.com/xiebiao/library/internal/application/loan"
)

type countingSweeper struct {
	calls chan struct{}
}

func (s *countingSweeper) MarkOverdue(context.Context) (*loanapp.OverdueResult, error) {
	s.calls <- struct{}{}
	return &loanapp.OverdueResult{Marked: 2}, nil
}

func TestNewOverdueSweep_InvalidSpec(t *testing.T) {
	_, err := NewOverdueSweep("not a cron", &countingSweeper{})
	assert.Error(t, err)
}

func TestOverdueSweep_Runs(t *testing.T) {
	sweeper := &countingSweeper{calls: make(chan struct{}, 4)}
	s, err := NewOverdueSweep("@every 1s", sweeper)
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-sweeper.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep did not run")
	}
}
