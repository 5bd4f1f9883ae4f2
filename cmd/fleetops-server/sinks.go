package main

import (
	"log/slog"
	"os"

	"fleetops-server/internal/config"
	"fleetops-server/internal/sink"
)

// newSinks builds the telemetry export chain from config and flags. It
// returns the sink and a cleanup function closing any file handles.
func newSinks(cfg *config.ServerConfig, printOnly bool, log *slog.Logger) (sink.Sink, func(), error) {
	cleanup := func() {}

	var sinks []sink.Sink
	if printOnly || cfg.Export.StdoutJSON {
		sinks = append(sinks, sink.NewStdout())
	}
	if cfg.Export.File != "" {
		fs, err := sink.NewFile(cfg.Export.File)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { fs.Close() }
		sinks = append(sinks, fs)
	}
	endpoint := cfg.Export.Greptime.Endpoint
	if env := os.Getenv("GREPTIMEDB_ENDPOINT"); env != "" {
		endpoint = env
	}
	if endpoint != "" && !printOnly {
		gs, err := sink.NewGreptime(endpoint, cfg.Export.Greptime.Database, cfg.Export.Greptime.Table, log)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, gs)
	}

	switch len(sinks) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return sinks[0], cleanup, nil
	default:
		return sink.NewMulti(sinks...), cleanup, nil
	}
}
