package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fleetops-server/internal/alerting"
	"fleetops-server/internal/api"
	"fleetops-server/internal/command"
	"fleetops-server/internal/config"
	"fleetops-server/internal/hub"
	"fleetops-server/internal/logging"
	"fleetops-server/internal/model"
	"fleetops-server/internal/sim"
	"fleetops-server/internal/store"
)

var (
	serveConfigPath string
	serveSchemaPath string
	serveTick       time.Duration
	servePrintOnly  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fleet operations server",
	Long:  "serve starts the HTTP API, the websocket hub, and the telemetry synthesizer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		cfg, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return err
		}

		st := store.New()
		seedStore(st, cfg)

		snk, cleanup, err := newSinks(cfg, servePrintOnly, log)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := serveTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		monitor := alerting.NewMonitor(st)
		h := hub.New(st, monitor, log)
		synth := sim.New(st, monitor, snk, h, tickInterval)
		srv := api.NewServer(st, h, command.NewGateway(), log)

		go synth.Run(ctx)
		go func() {
			log.Info("listening", "addr", cfg.Listen)
			if err := srv.Start(ctx, cfg.Listen); err != nil && err != http.ErrServerClosed {
				log.Error("server failed", "error", err)
				os.Exit(1)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("fleet operations server stopped")
		return nil
	},
}

// seedStore registers the configured fleet, falling back to the demo fleet
// when the config defines none.
func seedStore(st *store.Store, cfg *config.ServerConfig) {
	if cfg.SeedDemo || (len(cfg.Fleet) == 0 && len(cfg.Geofences) == 0) {
		st.SeedDemo()
		return
	}
	for _, d := range cfg.Fleet {
		status := d.Status
		if status == "" {
			status = model.StatusIdle
		}
		st.CreateDrone(model.Drone{
			ID: d.ID, Name: d.Name, Model: d.Model, Status: status,
			Battery: d.Battery, Latitude: d.Latitude, Longitude: d.Longitude,
			Altitude: d.Altitude, Speed: d.Speed, Heading: d.Heading,
			SignalStrength: d.SignalStrength,
		})
	}
	for _, g := range cfg.Geofences {
		coords := make([]model.Coordinate, 0, len(g.Coordinates))
		for _, v := range g.Coordinates {
			coords = append(coords, model.Coordinate{Lat: v.Lat, Lng: v.Lng})
		}
		st.CreateGeofence(model.Geofence{
			Name: g.Name, Type: g.Type, Coordinates: coords,
			MinAltitude: g.MinAltitude, MaxAltitude: g.MaxAltitude,
			Active: g.Active,
		})
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/fleetops.yaml", "Path to server configuration YAML")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/fleetops.cue", "Path to CUE schema file")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 2*time.Second, "Telemetry tick interval (e.g. 500ms, 2s)")
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print telemetry to STDOUT regardless of export settings")
}
