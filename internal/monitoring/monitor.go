package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Gauge reports the current value of a named quantity, such as active sessions
type Gauge func() int

// Config tunes a Monitor; zero values take defaults
type Config struct {
	CheckInterval  time.Duration
	AlertThreshold int
	AlertCooldown  time.Duration
}

// Monitor periodically samples the goroutine count and registered gauges,
// warning when goroutines exceed the alert threshold
type Monitor struct {
	mu             sync.RWMutex
	logger         zerolog.Logger
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	alertCooldown  time.Duration
	lastAlert      time.Time
	lastCheck      time.Time
	gauges         map[string]Gauge
	gaugeValues    map[string]int

	numGoroutine func() int

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewMonitor creates a monitor with the current goroutine count as baseline
func NewMonitor(cfg Config, logger zerolog.Logger) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = 1000
	}
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = 5 * time.Minute
	}

	baseline := runtime.NumGoroutine()
	return &Monitor{
		logger:         logger.With().Str("component", "Monitor").Logger(),
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  cfg.CheckInterval,
		alertThreshold: cfg.AlertThreshold,
		alertCooldown:  cfg.AlertCooldown,
		gauges:         make(map[string]Gauge),
		gaugeValues:    make(map[string]int),
		numGoroutine:   runtime.NumGoroutine,
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// RegisterGauge adds a named gauge sampled on every check
func (m *Monitor) RegisterGauge(name string, g Gauge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = g
}

// Start begins sampling in the background
func (m *Monitor) Start() {
	go m.run()
	m.logger.Info().
		Int("baseline", m.baseline).
		Dur("interval", m.checkInterval).
		Msg("Started monitoring")
}

// Stop ends sampling and waits for the loop to exit. Stop must follow Start.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
	<-m.done
}

func (m *Monitor) run() {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Interface("panic", r).
				Msg("Monitor panicked")
		}
	}()

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check()
		case <-m.stopChan:
			return
		}
	}
}

// Check takes one sample
func (m *Monitor) Check() {
	current := m.numGoroutine()

	m.mu.RLock()
	gauges := make(map[string]Gauge, len(m.gauges))
	for name, g := range m.gauges {
		gauges[name] = g
	}
	m.mu.RUnlock()

	// Gauges may take their own locks; sample them outside ours
	values := make(map[string]int, len(gauges))
	for name, g := range gauges {
		values[name] = g()
	}

	now := time.Now()
	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	m.gaugeValues = values
	m.lastCheck = now

	growth := current - m.baseline
	growthRate := 0.0
	if m.baseline > 0 {
		growthRate = float64(growth) / float64(m.baseline) * 100
	}

	shouldAlert := current > m.alertThreshold && now.Sub(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = now
	}
	peak := m.peak
	m.mu.Unlock()

	event := m.logger.Debug().
		Int("goroutines", current).
		Int("baseline", m.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate)
	for _, name := range sortedKeys(values) {
		event = event.Int(name, values[name])
	}
	event.Msg("Runtime metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("goroutines", current).
			Int("threshold", m.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
}

// Metrics is a snapshot of the last sample
type Metrics struct {
	Goroutines int            `json:"goroutines"`
	Baseline   int            `json:"baseline"`
	Peak       int            `json:"peak"`
	Growth     int            `json:"growth"`
	Gauges     map[string]int `json:"gauges"`
	CheckedAt  time.Time      `json:"checked_at"`
}

// Metrics returns the most recent sample
func (m *Monitor) Metrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gauges := make(map[string]int, len(m.gaugeValues))
	for k, v := range m.gaugeValues {
		gauges[k] = v
	}
	return Metrics{
		Goroutines: m.current,
		Baseline:   m.baseline,
		Peak:       m.peak,
		Growth:     m.current - m.baseline,
		Gauges:     gauges,
		CheckedAt:  m.lastCheck,
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
