// Package editor wires the editing core and serves it over MCP stdio.
package editor

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/atelier.space/internal/canvas"
	canvasmemory "github.com/louisbranch/atelier.space/internal/canvas/memory"
	"github.com/louisbranch/atelier.space/internal/command"
	"github.com/louisbranch/atelier.space/internal/command/manager"
	"github.com/louisbranch/atelier.space/internal/mcp"
	"github.com/louisbranch/atelier.space/internal/platform/config"
	"github.com/louisbranch/atelier.space/internal/platform/otel"
	"github.com/louisbranch/atelier.space/internal/selection"
	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/state/history"
	"github.com/louisbranch/atelier.space/internal/state/snapshot"
	"github.com/louisbranch/atelier.space/internal/storage"
	"github.com/louisbranch/atelier.space/internal/storage/bbolt"
	storagememory "github.com/louisbranch/atelier.space/internal/storage/memory"
	"github.com/louisbranch/atelier.space/internal/storage/sqlite"
)

// Config holds editor command configuration.
type Config struct {
	Storage        string        `env:"ATELIER_SPACE_STORAGE"         envDefault:"memory"`
	EventsPath     string        `env:"ATELIER_SPACE_EVENTS_DB"       envDefault:"events.db"`
	SnapshotsPath  string        `env:"ATELIER_SPACE_SNAPSHOTS_DB"    envDefault:"snapshots.db"`
	QueueSize      int           `env:"ATELIER_SPACE_QUEUE_SIZE"      envDefault:"64"`
	CommandTimeout time.Duration `env:"ATELIER_SPACE_COMMAND_TIMEOUT" envDefault:"0"`
	SelectionTTL   time.Duration `env:"ATELIER_SPACE_SELECTION_TTL"   envDefault:"5m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: memory, sqlite, or bbolt")
	fs.StringVar(&cfg.EventsPath, "events-db", cfg.EventsPath, "event journal database path (sqlite backend)")
	fs.StringVar(&cfg.SnapshotsPath, "snapshots-db", cfg.SnapshotsPath, "snapshot database path (sqlite or bbolt backend)")
	fs.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "command admission queue capacity")
	fs.DurationVar(&cfg.CommandTimeout, "command-timeout", cfg.CommandTimeout, "per-command execution bound, 0 disables")
	fs.DurationVar(&cfg.SelectionTTL, "selection-ttl", cfg.SelectionTTL, "sliding workflow context time-to-live")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the editor and serves MCP on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "editor")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	eventStore, snapshotStore, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	var logOpts []event.Option
	if eventStore != nil {
		logOpts = append(logOpts, event.WithStore(eventStore))
	}
	eventLog := event.NewLog(logOpts...)
	emitter := event.NewEmitter(eventLog)

	var graph canvas.Graph = canvasmemory.NewGraph()
	deps := command.Deps{Graph: graph, Events: emitter}

	hist := history.NewStore(eventLog, emitter)
	defer hist.Close()

	sel := selection.NewManager(selection.WithTTL(cfg.SelectionTTL))
	defer sel.Close()

	mgr := manager.New(deps, hist, sel, manager.Config{
		QueueSize: cfg.QueueSize,
		Timeout:   cfg.CommandTimeout,
	})
	defer mgr.Dispose()

	snaps := snapshot.NewManager(snapshotStore, graph, emitter, mgr)

	server, err := mcp.New(mcp.Deps{
		Manager:   mgr,
		History:   hist,
		Selection: sel,
		Snapshots: snaps,
		Commands:  deps,
		Graph:     graph,
		Log:       eventLog,
	})
	if err != nil {
		return fmt.Errorf("configure MCP server: %w", err)
	}
	return server.Serve(ctx)
}

// openStores builds the configured persistence backend. The returned close
// function is safe to call once, after every consumer is done.
func openStores(cfg Config) (storage.EventStore, storage.SnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.Storage {
	case "memory":
		store := storagememory.NewStore()
		return nil, store, noop, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.EventsPath)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		snapStore, err := bbolt.Open(cfg.SnapshotsPath)
		if err != nil {
			store.Close()
			return nil, nil, noop, fmt.Errorf("open snapshot store: %w", err)
		}
		return store, snapStore, func() {
			if err := snapStore.Close(); err != nil {
				log.Printf("close snapshot store: %v", err)
			}
			if err := store.Close(); err != nil {
				log.Printf("close event store: %v", err)
			}
		}, nil
	case "bbolt":
		snapStore, err := bbolt.Open(cfg.SnapshotsPath)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("open snapshot store: %w", err)
		}
		return nil, snapStore, func() {
			if err := snapStore.Close(); err != nil {
				log.Printf("close snapshot store: %v", err)
			}
		}, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
