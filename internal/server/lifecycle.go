// Package server runs the long-lived parts of game7d (the tick loop and the
// HTTP listener) and shuts them down together.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DrainTimeout bounds how long Run waits for stopped services to return from
// Start.
const DrainTimeout = 10 * time.Second

// Service is a long-running component. Start blocks until Stop is called or
// the service fails; Stop must make a blocked Start return.
type Service interface {
	Start() error
	Stop()
}

// Lifecycle starts services in registration order and stops them in reverse.
type Lifecycle struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		panic("server.NewLifecycle: logger must not be nil")
	}
	return &Lifecycle{logger: logger}
}

// Add registers svc under name.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until SIGINT or SIGTERM arrives, ctx is
// cancelled, or a service fails. It then stops the services in reverse order
// and waits up to DrainTimeout for each Start to return.
//
// Postcondition: every service has been stopped. The error is that of the
// first service whose Start failed, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	started := time.Now()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := make(chan error, len(services))
	var wg sync.WaitGroup
	for _, ns := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(started)),
				)
				failed <- fmt.Errorf("service %s: %w", ns.name, err)
				return
			}
			l.logger.Debug("service returned", zap.String("service", ns.name))
		}()
	}

	var runErr error
	select {
	case runErr = <-failed:
	case <-ctx.Done():
		l.logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))
	}

	for i := len(services) - 1; i >= 0; i-- {
		l.logger.Info("stopping service", zap.String("service", services[i].name))
		services[i].service.Stop()
	}

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(DrainTimeout):
		l.logger.Warn("services still running after drain timeout", zap.Duration("timeout", DrainTimeout))
	}

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(started)))
	return runErr
}
