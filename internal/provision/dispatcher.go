package provision

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
)

type command struct {
	id        string
	provision *Request
	cleanup   *Cleanup
}

// Dispatcher drains outbound room commands on its own goroutine so the
// request path never blocks on the chat platform. Commands are
// fire-and-forget: a full buffer drops the command with a warning
// rather than stalling a caller.
type Dispatcher struct {
	prov Provisioner
	cmds chan command
	quit chan struct{}

	// OnProvisioned receives the handles for a completed provisioning
	// request, typically to store them on the match record.
	OnProvisioned func(matchCode string, h Handles)
}

func NewDispatcher(p Provisioner, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		prov: p,
		cmds: make(chan command, buffer),
		quit: make(chan struct{}),
	}
}

func (d *Dispatcher) Run() {
	utils.Info.Printf("provision dispatcher started")
	for {
		select {
		case cmd := <-d.cmds:
			d.handle(cmd)
		case <-d.quit:
			return
		}
	}
}

func (d *Dispatcher) handle(cmd command) {
	ctx := context.Background()
	switch {
	case cmd.provision != nil:
		h, err := d.prov.Provision(ctx, *cmd.provision)
		if err != nil {
			utils.Error.Printf("provision %s (match %s): %v", cmd.id, cmd.provision.MatchCode, err)
			return
		}
		if d.OnProvisioned != nil {
			d.OnProvisioned(cmd.provision.MatchCode, h)
		}
	case cmd.cleanup != nil:
		if err := d.prov.Release(ctx, *cmd.cleanup); err != nil {
			utils.Error.Printf("cleanup %s (match %s): %v", cmd.id, cmd.cleanup.MatchCode, err)
		}
	}
}

// Provision enqueues a room-creation request.
func (d *Dispatcher) Provision(req Request) {
	d.enqueue(command{id: uuid.NewString(), provision: &req})
}

// ScheduleCleanup enqueues a release after the grace delay, off any
// request goroutine.
func (d *Dispatcher) ScheduleCleanup(c Cleanup, delay time.Duration) {
	if delay <= 0 {
		d.enqueue(command{id: uuid.NewString(), cleanup: &c})
		return
	}
	time.AfterFunc(delay, func() {
		d.enqueue(command{id: uuid.NewString(), cleanup: &c})
	})
}

func (d *Dispatcher) enqueue(cmd command) {
	select {
	case d.cmds <- cmd:
	default:
		utils.Error.Printf("provision queue full, dropping command %s", cmd.id)
	}
}

func (d *Dispatcher) Close() {
	close(d.quit)
}
