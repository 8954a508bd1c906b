package cli

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/datamonkey-labs/dmchat/internal/catalog"
	"github.com/datamonkey-labs/dmchat/internal/config"
	"github.com/datamonkey-labs/dmchat/internal/jobs"
	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/registry"
	"github.com/datamonkey-labs/dmchat/internal/session"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
)

// app is the dependency graph shared by commands. It is built on first use
// so commands like version never touch config or the network.
type app struct {
	settings config.Settings
	log      logger.Logger
	resolver *registry.Resolver
	client   *session.Client
	sessions *session.Store
	jobs     *jobs.Client
}

var (
	appOnce sync.Once
	appInst *app
	appErr  error
)

func getApp() (*app, error) {
	appOnce.Do(func() {
		appInst, appErr = newApp()
	})
	return appInst, appErr
}

func newApp() (*app, error) {
	config.Load()
	settings := config.Current()

	log := logger.NewZapLogger(settings.LogFile, settings.Verbose)
	httpClient := &http.Client{Timeout: settings.HTTPTimeout}

	prefs, err := userdata.NewActiveSessionStore()
	if err != nil {
		return nil, fmt.Errorf("opening preferences: %w", err)
	}

	client := session.NewClient(settings.APIURL,
		session.WithHTTPClient(httpClient),
		session.WithLogger(log),
	)

	jobsClient, err := jobs.NewClient(settings.DatamonkeyURL, jobs.DefaultCacheSize,
		jobs.WithHTTPClient(httpClient),
		jobs.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		settings: settings,
		log:      log,
		resolver: registry.New(externalSource(settings, httpClient, log), registry.WithLogger(log)),
		client:   client,
		sessions: session.NewStore(client, prefs, session.WithStoreLogger(log)),
		jobs:     jobsClient,
	}, nil
}

// externalSource picks the external registry: an explicit URL, then an
// explicit file, then the synced registry repo. Nil means defaults only.
func externalSource(s config.Settings, httpClient *http.Client, log logger.Logger) catalog.Source {
	opts := []catalog.Option{catalog.WithHTTPClient(httpClient), catalog.WithLogger(log)}
	switch {
	case s.RegistryURL != "":
		return catalog.NewHTTPRegistry(s.RegistryURL, opts...)
	case s.RegistryFile != "":
		return catalog.NewFileRegistry(s.RegistryFile, opts...)
	}

	repo, err := userdata.GetRegistryRepoRoot()
	if err != nil {
		return nil
	}
	path := catalog.RegistryPath(repo)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return catalog.NewFileRegistry(path, opts...)
}

func closeApp() {
	if appInst != nil {
		_ = appInst.log.Sync()
	}
}
