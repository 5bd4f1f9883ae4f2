package sink

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"fleetops-server/internal/model"
)

// Greptime writes telemetry samples to GreptimeDB via the ingester client.
type Greptime struct {
	client *greptime.Client
	db     string
	table  string
	log    *slog.Logger
}

// NewGreptime creates a Greptime sink. The table is auto-created by
// GreptimeDB on first write.
func NewGreptime(endpoint, database, tableName string, log *slog.Logger) (*Greptime, error) {
	if tableName == "" {
		tableName = "fleet_telemetry"
	}
	host := endpoint
	port := 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		port, _ = strconv.Atoi(p)
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Greptime{client: client, db: database, table: tableName, log: log}, nil
}

// Write inserts a single sample.
func (w *Greptime) Write(sample model.TelemetrySample) error {
	return w.WriteBatch([]model.TelemetrySample{sample})
}

// WriteBatch inserts multiple samples.
func (w *Greptime) WriteBatch(samples []model.TelemetrySample) error {
	if len(samples) == 0 {
		return nil
	}

	ctx := ingesterContext.New(context.Background())

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("drone_id", types.STRING)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("alt", types.FLOAT64)
	tbl.AddFieldColumn("speed", types.FLOAT64)
	tbl.AddFieldColumn("heading", types.FLOAT64)
	tbl.AddFieldColumn("battery", types.FLOAT64)
	tbl.AddFieldColumn("signal_strength", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, s := range samples {
		if err := tbl.AddRow(
			s.DroneID,
			s.Latitude,
			s.Longitude,
			s.Altitude,
			s.Speed,
			s.Heading,
			s.Battery,
			s.SignalStrength,
			s.Timestamp,
		); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.log.Error("greptime write failed", "err", err)
		return err
	}
	return nil
}
