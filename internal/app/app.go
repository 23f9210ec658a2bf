// Package app runs the set of dependencies that make up a tidemark node
// and coordinates their shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Dependency is the interface that wraps the basic methods of a dependency required for the application.
type Dependency interface {
	// Start is anything a dependency needs to do before it's ready to be used
	Start() error
	// Stop is anything a dependency needs to do before it's ready to be stopped
	Stop() error
	// Name is the name of the dependency. It is used for logging and identification purposes, only.
	Name() string
}

type App struct {
	serviceName string
	deps        []Dependency
	// depFailChan signals when a dependency has failed to start.
	depFailChan chan error
	// osSignalChan signals when the OS has asked the application to stop.
	osSignalChan chan os.Signal
	// stopCalled and runCalled allow each to run once.
	stopCalled *atomic.Bool
	runCalled  *atomic.Bool
	// stopTimeout bounds how long shutdown waits for dependencies.
	stopTimeout time.Duration
}

type Config struct {
	ServiceName string
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if c.StopTimeout == 0 {
		errs = append(errs, errors.New("stop timeout is required"))
	}
	return errors.Join(errs...)
}

// CreateApp creates a new application with the provided dependencies.
func CreateApp(cfg *Config, deps ...Dependency) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName:  cfg.ServiceName,
		deps:         deps,
		stopTimeout:  cfg.StopTimeout,
		stopCalled:   &atomic.Bool{},
		runCalled:    &atomic.Bool{},
		depFailChan:  make(chan error, len(deps)),
		osSignalChan: make(chan os.Signal, 1),
	}, nil
}

// Run starts all dependencies and blocks until the context is cancelled,
// a dependency fails, or the OS asks the process to stop.
func (a *App) Run(ctx context.Context) error {
	if a.runCalled.Load() {
		return errors.New("run has already been called")
	}
	a.runCalled.Store(true)

	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		close(a.depFailChan)
		close(a.osSignalChan)
		cancel()
	}()

	// Each dependency runs in its own goroutine. Some, like the server,
	// block inside Start() until shutdown; we never block here, only
	// listen for failures.
	for _, dep := range a.deps {
		go func(dep Dependency) {
			defer func() {
				if r := recover(); r != nil {
					a.depFailChan <- fmt.Errorf("panic in Start() for dependency %s: %v", dep.Name(), r)
				}
			}()

			log.Info().Msg("Starting dependency: " + dep.Name())
			if err := dep.Start(); err != nil {
				a.depFailChan <- fmt.Errorf("failure in Start() for dependency %s: %v", dep.Name(), err)
			}
		}(dep)
	}

	signal.Notify(a.osSignalChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-runCtx.Done():
		log.Info().Msg("App context cancelled: shutting down")
	case depErr := <-a.depFailChan:
		log.Error().Msg("Dependency failed: " + depErr.Error())
	case sig := <-a.osSignalChan:
		log.Info().Msg("OS signal received: " + sig.String() + ", shutdown beginning")
	}

	signal.Stop(a.osSignalChan)
	if err := a.stop(); err != nil {
		log.Error().Msg("Error stopping application: " + err.Error())
		return err
	}

	return nil
}

// stop attempts a graceful shutdown of each dependency, in reverse start
// order, bounded by the stop timeout.
func (a *App) stop() error {
	if a.stopCalled.Load() {
		return errors.New("stop has already been called")
	}
	a.stopCalled.Store(true)

	ctxTo, cancel := context.WithTimeout(context.Background(), a.stopTimeout)

	var errs []error
	go func() {
		defer cancel()

		for i := len(a.deps) - 1; i >= 0; i-- {
			dep := a.deps[i]
			log.Info().Msg("Stopping dependency: " + dep.Name())
			if err := dep.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("failure in Stop() for dependency %s: %v", dep.Name(), err))
			}
		}
	}()

	// Block until every dependency stopped or the timeout fires.
	<-ctxTo.Done()

	if err := ctxTo.Err(); errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
