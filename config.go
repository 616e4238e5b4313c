package maiko

import "time"

// Config controls channel sizing, actor scheduling fairness, and
// observability bounds. Use DefaultConfig and chain With* calls to
// customize.
type Config struct {
	// ChannelSize is the stage-2 mailbox capacity for actors that don't
	// override it at registration. Default: 128.
	ChannelSize int

	// MaxEventsPerTick bounds how many consecutive mailbox drains an actor
	// performs before a forced yield, so one busy actor can't starve
	// Step or the actor's view of cancellation. Default: 10.
	MaxEventsPerTick int

	// MaintenanceInterval is the period of the broker's dead-subscriber
	// sweep. Default: 10s.
	MaintenanceInterval time.Duration

	// MonitoringChannelSize bounds the monitor dispatcher's command queue.
	// Default: 1024.
	MonitoringChannelSize int

	// Stage1Capacity is the ingress channel bound. Zero means "auto": the
	// sum of all per-actor mailbox capacities at Supervisor.Start.
	Stage1Capacity int

	// Logf receives internal diagnostic lines (e.g. a monitor panicking).
	// Nil discards them.
	Logf Logf
}

// DefaultConfig returns the configuration defaults documented on Config's
// fields.
func DefaultConfig() Config {
	return Config{
		ChannelSize:           128,
		MaxEventsPerTick:      10,
		MaintenanceInterval:   10 * time.Second,
		MonitoringChannelSize: 1024,
		Stage1Capacity:        0,
	}
}

func (c Config) WithChannelSize(n int) Config {
	c.ChannelSize = n
	return c
}

func (c Config) WithMaxEventsPerTick(n int) Config {
	c.MaxEventsPerTick = n
	return c
}

func (c Config) WithMaintenanceInterval(d time.Duration) Config {
	c.MaintenanceInterval = d
	return c
}

func (c Config) WithMonitoringChannelSize(n int) Config {
	c.MonitoringChannelSize = n
	return c
}

func (c Config) WithStage1Capacity(n int) Config {
	c.Stage1Capacity = n
	return c
}

func (c Config) WithLogf(f Logf) Config {
	c.Logf = f
	return c
}

func (c Config) logf() Logf {
	if c.Logf == nil {
		return discardLogf
	}
	return c.Logf
}
