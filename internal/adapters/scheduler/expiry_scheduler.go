package scheduler_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const runTimeout = 5 * time.Minute

// cronLogger adapts port.LoggerPort to cron.Logger.
type cronLogger struct {
	logger port.LoggerPort
}

func (l cronLogger) fields(keysAndValues []interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, l.fields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, err, l.fields(keysAndValues))
}

// ExpiryScheduler archives expired listings on a cron schedule. Runs never
// overlap.
type ExpiryScheduler struct {
	cron    *cron.Cron
	spec    string
	useCase usecases_port.ExpireListingsUseCasePort
	logger  port.LoggerPort
}

func NewExpiryScheduler(spec string, useCase usecases_port.ExpireListingsUseCasePort, logger port.LoggerPort) *ExpiryScheduler {
	schedLogger := logger.WithFields(port.Fields{"component": "ExpiryScheduler"})
	cl := cronLogger{logger: schedLogger}
	return &ExpiryScheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:    spec,
		useCase: useCase,
		logger:  schedLogger,
	}
}

// Start registers the job, runs it once right away and starts the cron loop.
// ctx bounds every run.
func (s *ExpiryScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("Expiry scheduler started", port.Fields{"spec": s.spec})

	go s.runOnce(ctx)
	return nil
}

// Stop stops scheduling and waits for a running job to finish.
func (s *ExpiryScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Expiry scheduler stopped", nil)
}

func (s *ExpiryScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runLogger := s.logger.WithFields(port.Fields{"run_id": uuid.New().String()})
	runCtx, cancel := context.WithTimeout(contextkeys.ContextWithLogger(ctx, runLogger), runTimeout)
	defer cancel()

	if _, err := s.useCase.Execute(runCtx); err != nil {
		runLogger.Error("Expiry run failed", err, nil)
	}
}
