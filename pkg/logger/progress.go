package logger

import (
	"sync"
	"time"
)

// ProgressTracker logs progress of a file scan at fixed intervals so that
// large directory trees still produce a heartbeat on stderr.
type ProgressTracker struct {
	logger      Logger
	operation   string
	total       int64
	current     int64
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
	mutex       sync.Mutex
}

// ProgressConfig configures progress tracking behavior
type ProgressConfig struct {
	Operation   string
	Total       int64
	LogInterval time.Duration
	Logger      Logger
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(config ProgressConfig) *ProgressTracker {
	if config.Logger == nil {
		config.Logger = GetGlobalLogger()
	}
	if config.LogInterval == 0 {
		config.LogInterval = 2 * time.Second
	}

	tracker := &ProgressTracker{
		logger:      config.Logger.WithComponent("progress"),
		operation:   config.Operation,
		total:       config.Total,
		startTime:   time.Now(),
		lastLogTime: time.Now(),
		logInterval: config.LogInterval,
	}

	tracker.logger.WithFields(Fields{
		"operation": config.Operation,
		"total":     config.Total,
	}).Info("Starting operation")

	return tracker
}

// Increment increments the progress counter by 1
func (p *ProgressTracker) Increment() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.current++
	now := time.Now()

	if now.Sub(p.lastLogTime) >= p.logInterval {
		p.logProgress(now)
		p.lastLogTime = now
	}
}

// Complete marks the operation as complete and logs final statistics
func (p *ProgressTracker) Complete() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	duration := time.Since(p.startTime)
	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": p.current,
		"total":     p.total,
		"duration":  duration.String(),
	}).Info("Operation completed")
}

func (p *ProgressTracker) logProgress(now time.Time) {
	fields := Fields{
		"operation": p.operation,
		"processed": p.current,
	}
	if p.total > 0 {
		fields["total"] = p.total
		fields["percent"] = float64(p.current) / float64(p.total) * 100
	}
	p.logger.WithFields(fields).Info("Progress")
}
