// Package lifecycle runs shutdown handlers when the process receives SIGINT or SIGTERM.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handler receives the OS signal that triggered shutdown.
type Handler func(os.Signal)

// HandlerID identifies a registered handler.
type HandlerID int64

type registration struct {
	id      HandlerID
	handler Handler
}

var (
	defaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	handlerCounter atomic.Int64

	startOnce  sync.Once
	signalChan chan os.Signal

	handlersMu    sync.Mutex
	registrations []registration

	channelFactory = newSignalChan
	notifyFunc     = signal.Notify
	stopFunc       = signal.Stop
	exitFunc       = os.Exit
)

// Register adds a handler that runs when a shutdown signal arrives.
// Handlers run newest first, then the process exits with 128+signal.
func Register(handler Handler) HandlerID {
	if handler == nil {
		return 0
	}

	startOnce.Do(startListener)

	id := HandlerID(handlerCounter.Add(1))

	handlersMu.Lock()
	registrations = append(registrations, registration{id: id, handler: handler})
	handlersMu.Unlock()

	return id
}

func Unregister(id HandlerID) {
	if id == 0 {
		return
	}

	handlersMu.Lock()
	defer handlersMu.Unlock()

	for i, existing := range registrations {
		if existing.id == id {
			registrations = append(registrations[:i], registrations[i+1:]...)
			return
		}
	}
}

// Context returns a child of parent that is cancelled as soon as a shutdown signal
// arrives, before the exit handlers run. stop releases the registration.
func Context(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	id := Register(func(os.Signal) { cancel() })
	return ctx, func() {
		Unregister(id)
		cancel()
	}
}

func startListener() {
	signalChan = channelFactory()
	notifyFunc(signalChan, defaultSignals...)

	go func() {
		sig := <-signalChan
		runHandlers(sig)
		exitFunc(exitCode(sig))
	}()
}

func runHandlers(sig os.Signal) {
	handlersMu.Lock()
	snapshot := make([]registration, len(registrations))
	copy(snapshot, registrations)
	handlersMu.Unlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		callHandler(snapshot[i].handler, sig)
	}
}

func callHandler(handler Handler, sig os.Signal) {
	defer func() {
		_ = recover() // a failing handler must not stop the rest
	}()
	handler(sig)
}

func exitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 130
	case syscall.SIGTERM:
		return 143
	default:
		return 1
	}
}

// reset clears global state (tests only).
func reset() {
	if signalChan != nil {
		stopFunc(signalChan)
	}
	signalChan = nil

	startOnce = sync.Once{}
	handlerCounter.Store(0)

	handlersMu.Lock()
	registrations = nil
	handlersMu.Unlock()

	restoreFactories()
}

func newSignalChan() chan os.Signal {
	return make(chan os.Signal, 1)
}

func restoreFactories() {
	channelFactory = newSignalChan
	notifyFunc = signal.Notify
	stopFunc = signal.Stop
	exitFunc = os.Exit
}
