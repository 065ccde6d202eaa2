package video

import (
	"context"
	"os/exec"
	"sync"
	"time"
)

// DefaultGracePeriod is how long a signalled child gets before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Procs tracks every child process the pipeline starts so that exactly those
// processes, and nothing else, can be stopped on cancellation or shutdown.
type Procs struct {
	mu      sync.Mutex
	grace   time.Duration
	running map[*exec.Cmd]struct{}
}

func NewProcs(grace time.Duration) *Procs {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Procs{grace: grace, running: make(map[*exec.Cmd]struct{})}
}

// Command prepares a child bound to ctx. The child gets its own process group;
// cancelling ctx signals the whole group and escalates to a kill after the
// grace period.
func (p *Procs) Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminate(cmd) }
	cmd.WaitDelay = p.grace
	return cmd
}

// Run starts cmd, tracks it until it exits and returns its wait error.
func (p *Procs) Run(cmd *exec.Cmd) error {
	p.mu.Lock()
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.running[cmd] = struct{}{}
	p.mu.Unlock()

	err := cmd.Wait()

	p.mu.Lock()
	delete(p.running, cmd)
	p.mu.Unlock()
	return err
}

// Running returns the number of tracked children still alive.
func (p *Procs) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.running)
}

// TerminateAll signals every tracked child and returns how many were signalled.
// Children are reaped by their own Run call.
func (p *Procs) TerminateAll() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	signalled := 0
	for cmd := range p.running {
		if err := terminate(cmd); err == nil {
			signalled++
		}
	}
	return signalled
}
