// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the flexilease
// web project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database initialization actions.
// The init-dev and init-prod actions initialize the database with the
// development or production suitable data records.
//
//	./flweb [-c /path/of/main/config.yaml]           # start web server
//	./flweb db init-dev [-c /path/of/main/config.yaml]
//	./flweb db init-prod [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/flexilease/pkg/adapter/config"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/routes"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "flweb",
	Short: "A car rental reservations web service",
	Long: `A car rental reservations web service which manages cars,
users, and their reservations through a REST API.
A reservation is admitted only if its car and user exist, the user is
qualified to drive, its dates form a valid DD/MM/YYYY range, and neither
the car nor the user has another overlapping reservation. The final
value of a reservation is computed from the per-day value of its car.
Data may be kept in a PostgreSQL database (which must be initialized
by the "db init-dev" or "db init-prod" sub-commands beforehand) or in
memory (which is lost when the server stops).`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	app, err := c.NewAppUseCase(ctx)
	if err != nil {
		return fmt.Errorf("creating application use case: %w", err)
	}
	defer app.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	routes.Register(e, app)

	srv := &http.Server{
		Addr:              c.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info(
		ctx, "web server is started",
		slog.String("address", c.Gin.Address),
		slog.String("store", c.Store),
	)
	select {
	case err = <-errCh:
		return fmt.Errorf("running Gin engine: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), 10*time.Second,
	)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	log.Info(ctx, "web server is stopped")
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
// The commands context is cancelled by SIGINT or SIGTERM signals.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
