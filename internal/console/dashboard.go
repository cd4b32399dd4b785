package console

import (
	"context"

	"go.uber.org/zap"

	"hrms/internal/model"
)

// DashboardController holds one stats snapshot, replaced wholesale on load.
type DashboardController struct {
	screen
	store DashboardStore
	stats *model.DashboardStats
}

func NewDashboard(store DashboardStore, opts Options) *DashboardController {
	c := &DashboardController{store: store}
	c.init("dashboard", opts.withDefaults())
	return c
}

func (c *DashboardController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := c.loads.begin()
	c.mu.Unlock()

	stats, err := c.store.DashboardStats(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.loads.end(id)
	if c.closed {
		return c.dropLate("dashboard stats")
	}
	if !latest {
		return nil
	}
	if err != nil {
		c.loads.err = "Failed to load dashboard data"
		c.log.Warn("load dashboard failed", zap.Error(err))
		return err
	}
	c.stats = stats
	c.loads.err = ""
	return nil
}

// Retry is Load under the name the error view offers.
func (c *DashboardController) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

type DashboardView struct {
	LoadState
	Stats        *model.DashboardStats `json:"stats"`
	Notification *Notification         `json:"notification"`
}

func (c *DashboardController) View() DashboardView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := DashboardView{LoadState: c.loads.state(), Notification: c.notes.current()}
	if c.stats != nil {
		s := *c.stats
		v.Stats = &s
	}
	return v
}
