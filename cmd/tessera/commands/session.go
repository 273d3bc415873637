package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/config"
	"github.com/dyluth/tessera/internal/logging"
	"github.com/dyluth/tessera/internal/metrics"
	"github.com/dyluth/tessera/internal/persistence"
	"github.com/dyluth/tessera/internal/printer"
	"github.com/dyluth/tessera/internal/resolver"
	"github.com/dyluth/tessera/internal/storage"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/registry"
)

// session is one command's view of a persisted dashboard.
type session struct {
	cfg     *config.Config
	kv      storage.KV
	manager *persistence.Manager
	store   *dashboard.Store
	catalog *registry.Registry
	logger  *log.Logger
	metrics *prom.Registry
}

// openSession loads the configuration, opens storage and loads the target
// dashboard. Callers must call close to persist pending changes.
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	id := cfg.Dashboard
	if dashboardID != "" {
		id = dashboardID
	}
	if err := dashboard.ValidateID(id); err != nil {
		return nil, printer.Error(
			"invalid dashboard id",
			err.Error(),
			[]string{"Dashboard ids are lowercase letters, digits and hyphens, e.g. 'fleet-overview'"},
		)
	}

	kv, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"failed to open storage",
			err.Error(),
			map[string]string{"Backend": cfg.Storage.Backend},
			[]string{"Check the storage section of your tessera.yml"},
		)
	}

	catalog := registry.NewFleet()
	reg := prom.NewRegistry()

	manager, err := persistence.New(kv, id,
		persistence.WithDebounce(cfg.Persistence.Debounce),
		persistence.WithMaxBackups(*cfg.Persistence.MaxBackups),
		persistence.WithWriteTimeout(cfg.Persistence.WriteTimeout),
		persistence.WithLogger(logger),
		persistence.WithRecorder(metrics.NewPrometheusRecorder(reg)),
		persistence.WithGrid(*cfg.Grid),
		persistence.WithDefaultWidgets(defaultWidgets(cfg.DefaultWidgets, catalog)),
	)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to create persistence manager: %w", err)
	}

	store := manager.Load(ctx)
	logger.Debug("Dashboard loaded", "dashboard", id, "widgets", store.Len(), "mode", store.Mode())

	return &session{
		cfg:     cfg,
		kv:      kv,
		manager: manager,
		store:   store,
		catalog: catalog,
		logger:  logger,
		metrics: reg,
	}, nil
}

// close writes any pending change and releases storage.
func (s *session) close(cmd *cobra.Command) error {
	flushErr := s.manager.Flush(cmd.Context())
	s.manager.Close()
	closeErr := s.kv.Close()

	if showMetrics {
		if err := metrics.Dump(cmd.ErrOrStderr(), s.metrics); err != nil {
			s.logger.Warn("Failed to dump metrics", "error", err)
		}
	}

	if flushErr != nil {
		suggestions := []string{"Check that the storage backend is reachable"}
		if storage.IsQuotaExceeded(flushErr) {
			suggestions = []string{"Free space in the storage backend or raise its quota"}
		}
		return printer.ErrorWithContext(
			"failed to save dashboard",
			flushErr.Error(),
			map[string]string{"Dashboard": s.manager.DashboardID()},
			suggestions,
		)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close storage: %w", closeErr)
	}
	return nil
}

// withSession runs fn against an open session and always closes it.
func withSession(cmd *cobra.Command, fn func(s *session) error) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(cmd); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// resolveWidget resolves a full or short widget id on the session's dashboard.
func (s *session) resolveWidget(id string) (string, error) {
	full, err := resolver.ResolveWidgetID(s.store.WidgetIDs(), id)
	if err == nil {
		return full, nil
	}

	var ambiguous *resolver.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return "", printer.Error("ambiguous widget id", resolver.FormatAmbiguousError(ambiguous), nil)
	case resolver.IsNotFoundError(err):
		return "", printer.Error(
			fmt.Sprintf("widget '%s' not found", id),
			fmt.Sprintf("Dashboard '%s' has no widget with that id.", s.manager.DashboardID()),
			[]string{"Run 'tessera list' to see widget ids"},
		)
	default:
		return "", printer.Error("invalid widget id", err.Error(), nil)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, printer.Error(
			"configuration not found",
			fmt.Sprintf("No configuration file at %s.", configPath),
			[]string{
				"Run 'tessera init' to create one",
				"Pass --config with the path to an existing tessera.yml",
			},
		)
	}
	return nil, printer.Error("invalid configuration", err.Error(), nil)
}

// defaultWidgets builds the widgets of a fresh dashboard. Ids are derived
// from the type so that they are stable until the dashboard is first saved.
func defaultWidgets(types []string, catalog *registry.Registry) []dashboard.Widget {
	seen := make(map[string]int, len(types))
	widgets := make([]dashboard.Widget, 0, len(types))
	for _, t := range types {
		seen[t]++
		id := t
		if n := seen[t]; n > 1 {
			id = fmt.Sprintf("%s-%d", t, n)
		}

		w, err := catalog.NewWidget(t, func() string { return id })
		if err != nil {
			continue
		}
		widgets = append(widgets, w)
	}
	return widgets
}
