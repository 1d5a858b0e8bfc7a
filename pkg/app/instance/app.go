package instance

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	repl_service "git.brobridge.com/lispy/lispy/pkg/repl/service"
	gravity_adapter "github.com/BrobridgeOrg/gravity-sdk/v2/adapter"
	log "github.com/sirupsen/logrus"
)

type AppInstance struct {
	done           chan os.Signal
	out            io.Writer
	service        *repl_service.Service
	eventConnector *gravity_adapter.AdapterConnector
}

func NewAppInstance() *AppInstance {

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	a := &AppInstance{
		done: sig,
		out:  os.Stdout,
	}

	a.service = repl_service.NewService(a)

	return a
}

func (a *AppInstance) Init() error {

	log.WithFields(log.Fields{
		"max_procs": runtime.GOMAXPROCS(0),
	}).Info("Starting application")

	// Initializing event connector
	err := a.initEventConnector()
	if err != nil {
		return err
	}

	err = a.service.Init()
	if err != nil {
		return err
	}

	return nil
}

func (a *AppInstance) Uninit() {
	a.service.Uninit()
}

// Run serves the interactive loop until input ends or a signal arrives.
func (a *AppInstance) Run() error {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- a.service.RunInteractive(ctx, a.out)
	}()

	var err error
	select {
	case <-a.done:
		// Stop the loop and wait for it before releasing resources
		cancel()
		err = <-result
	case err = <-result:
	}

	a.Uninit()
	fmt.Fprintln(a.out, "Bye!")

	return err
}

// RunBatch evaluates a whole file and exits.
func (a *AppInstance) RunBatch(path string) error {

	defer a.Uninit()

	return a.service.RunBatch(path, a.out)
}
