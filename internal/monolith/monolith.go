// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"

	"github.com/fd1az/pool-quoter/internal/apm"
	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/chain"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/di"
	"github.com/fd1az/pool-quoter/internal/httpclient"
	"github.com/fd1az/pool-quoter/internal/logger"
	"github.com/fd1az/pool-quoter/internal/ratelimit"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	ChainClient() *chain.Client
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	chainClient   *chain.Client
	assetRegistry *asset.Registry
	container     di.Container
}

// New creates a new Monolith instance.
func New(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	headers, err := apm.ParseHeaders(cfg.Ethereum.Headers)
	if err != nil {
		return nil, fmt.Errorf("ethereum headers: %w", err)
	}

	// Instrumented transport for JSON-RPC over HTTP
	httpClient, err := httpclient.New(
		httpclient.WithProviderName("ethereum-rpc"),
		httpclient.WithRequestTimeout(cfg.Ethereum.CallTimeout),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, err
	}

	// Throttled Ethereum client
	chainClient, err := chain.Dial(ctx, cfg.Ethereum.HTTPURL, chain.Options{
		Limiter:     ratelimit.New(cfg.Ethereum.RequestsPerSecond, cfg.Ethereum.Burst),
		CallTimeout: cfg.Ethereum.CallTimeout,
		HTTPClient:  httpClient,
	})
	if err != nil {
		return nil, err
	}

	// Use default asset registry (pre-populated with common assets)
	assetRegistry := asset.DefaultRegistry()

	return newApp(cfg, log, chainClient, assetRegistry), nil
}

func newApp(cfg *config.Config, log logger.LoggerInterface, chainClient *chain.Client, registry *asset.Registry) *app {
	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("chainClient", chainClient)
	container.Register("assetRegistry", registry)

	return &app{
		config:        cfg,
		logger:        log,
		chainClient:   chainClient,
		assetRegistry: registry,
		container:     container,
	}
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) ChainClient() *chain.Client {
	return a.chainClient
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.chainClient != nil {
		a.chainClient.Close()
	}
	return nil
}
