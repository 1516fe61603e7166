package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ihorxshdy/aeromar/internal/ingest"
	"github.com/ihorxshdy/aeromar/internal/planner"
	"github.com/ihorxshdy/aeromar/internal/server"
	"github.com/ihorxshdy/aeromar/internal/store"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "aeromar",
		Short: "Autolift catering planner for the airline hub",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration")
	root.AddCommand(serveCmd(), planCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func loadConfig() *server.Config {
	cfg, err := util.LoadConfig[server.Config](configPath)
	if err != nil {
		logrus.WithError(err).Warn("config not loaded, using defaults")
		return server.DefaultConfig()
	}
	logrus.WithField("path", configPath).Info("configuration loaded")
	return cfg
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the planner HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			st := store.New()
			st.SetAutolifts(store.DefaultAutolifts())
			preloadData(cfg, st)

			srv := server.New(cfg, st)
			mux := http.NewServeMux()
			srv.Routes(mux)

			logrus.WithField("listen", cfg.Server.Listen).Info("serving")
			return http.ListenAndServe(cfg.Server.Listen, mux)
		},
	}
}

// preloadData reads whichever CSV feeds the config points at; missing files
// are fine, imports over HTTP can supply them later.
func preloadData(cfg *server.Config, st *store.Store) {
	if path := cfg.Data.FlightsFile; path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if flights, err := ingest.ParseFlights(data); err == nil {
				st.SetFlights(flights)
			}
		}
	}
	if path := cfg.Data.DriversFile; path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if drivers, err := ingest.ParseDrivers(data); err == nil {
				st.SetDrivers(drivers)
			}
		}
	}
	if path := cfg.Data.ShiftsFile; path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if shifts, err := ingest.ParseShifts(data); err == nil {
				st.SetShifts(shifts)
			}
		}
	}
	if path := cfg.Data.AutoliftsFile; path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if lifts, err := ingest.ParseAutolifts(data); err == nil {
				st.SetAutolifts(lifts)
			}
		}
	}
}

func planCmd() *cobra.Command {
	var flightsPath, driversPath, shiftsPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan one day from CSV feeds and print the result document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			flightsData, err := os.ReadFile(flightsPath)
			if err != nil {
				return fmt.Errorf("read flights: %w", err)
			}
			flights, err := ingest.ParseFlights(flightsData)
			if err != nil {
				return err
			}

			driversData, err := os.ReadFile(driversPath)
			if err != nil {
				return fmt.Errorf("read drivers: %w", err)
			}
			drivers, err := ingest.ParseDrivers(driversData)
			if err != nil {
				return err
			}

			shiftsData, err := os.ReadFile(shiftsPath)
			if err != nil {
				return fmt.Errorf("read shifts: %w", err)
			}
			shifts, err := ingest.ParseShifts(shiftsData)
			if err != nil {
				return err
			}

			result, err := planner.New(cfg.Planner).Plan(flights, drivers, shifts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&flightsPath, "flights", "flights.csv", "flights CSV feed")
	cmd.Flags().StringVar(&driversPath, "drivers", "drivers.csv", "drivers CSV feed")
	cmd.Flags().StringVar(&shiftsPath, "shifts", "shifts.csv", "shift windows CSV feed")
	return cmd
}
