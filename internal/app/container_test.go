package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"delivery-sync/internal/config"
	"delivery-sync/internal/http/handlers"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
	"delivery-sync/internal/reachability"
	"delivery-sync/internal/repository"
	"delivery-sync/internal/service/syncer"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:         8080,
		LogLevel:     "error",
		API:          config.DefaultAPI(),
		Retry:        config.DefaultRetry(),
		Store:        config.Store{Backend: config.StoreMemory},
		DB:           config.DefaultDB(),
		Reachability: config.DefaultReachability(),
		Sync:         config.DefaultSync(),
		RateLimit:    config.DefaultRateLimit(),
		Debug:        config.DefaultDebug(),
	}
}

func staticConfig(cfg *config.Config) func() (*config.Config, error) {
	return func() (*config.Config, error) { return cfg, nil }
}

func failingConnect(err error) dbConnectFunc {
	return func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
		return nil, err
	}
}

func TestContainerBuilder_Build_ProvidesServerAndHandlers(t *testing.T) {
	t.Parallel()

	c, err := NewContainerBuilder().
		WithConfigLoader(staticConfig(testConfig())).
		build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(
		srv *http.Server,
		engine *syncer.Engine,
		base *handlers.Handlers,
		requests *handlers.RequestHandler,
		syncH *handlers.SyncHandler,
		session *handlers.SessionHandler,
		remote *handlers.RemoteHandler,
		prober *reachability.Prober,
	) {
		require.NotNil(t, srv)
		require.Equal(t, ":8080", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))
		require.NotNil(t, srv.Handler)
		require.NotNil(t, engine)
		require.NotNil(t, base)
		require.NotNil(t, requests)
		require.NotNil(t, syncH)
		require.NotNil(t, session)
		require.NotNil(t, remote)
		require.NotNil(t, prober)
	})
	require.NoError(t, err)
}

type debugIn struct {
	dig.In
	Server *http.Server `name:"debug_server" optional:"true"`
}

func TestContainerBuilder_DebugServer(t *testing.T) {
	t.Parallel()

	for _, enabled := range []bool{false, true} {
		cfg := testConfig()
		cfg.Debug.Enabled = enabled

		c, err := NewContainerBuilder().WithConfigLoader(staticConfig(cfg)).build(context.Background())
		require.NoError(t, err)

		err = c.Invoke(func(in debugIn) {
			if !enabled {
				require.Nil(t, in.Server)
				return
			}
			require.NotNil(t, in.Server)
			require.Equal(t, "127.0.0.1:6060", in.Server.Addr)
		})
		require.NoError(t, err)
	}
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()

	require.NoError(t, registerCore(c, ctx, staticConfig(cfg)))

	err := c.Invoke(func(gotCtx context.Context, gotCfg *config.Config, logger logx.Logger, m *metrics.Sync) {
		require.Equal(t, ctx, gotCtx)
		require.Same(t, cfg, gotCfg)
		require.NotNil(t, logger)
		require.NotNil(t, m)
	})
	require.NoError(t, err)
}

func TestRegisterCore_ConfigError(t *testing.T) {
	t.Parallel()

	c := dig.New()
	require.NoError(t, registerCore(c, context.Background(), func() (*config.Config, error) {
		return nil, errors.New("bad env")
	}))

	err := c.Invoke(func(*config.Config) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad env")
}

func TestOpenSlots_Postgres_UsesDbConnect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()
	cfg.Store.Backend = config.StorePostgres

	var gotDSN string
	var gotRetries int
	var gotDelay time.Duration
	connect := func(_ context.Context, _ logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
		gotDSN, gotRetries, gotDelay = dsn, retries, delay
		return nil, errors.New("db failed")
	}

	slots, err := openSlots(ctx, cfg, logx.Nop(), connect)
	require.Error(t, err)
	require.Nil(t, slots)
	require.Equal(t, cfg.DB.DSN(), gotDSN)
	require.Equal(t, 10, gotRetries)
	require.Equal(t, time.Second, gotDelay)
}

func TestOpenSlots_LocalBackends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cfg := testConfig()
	slots, err := openSlots(ctx, cfg, logx.Nop(), failingConnect(errors.New("unused")))
	require.NoError(t, err)
	require.IsType(t, &repository.MemorySlots{}, slots)

	cfg.Store = config.Store{Backend: config.StoreBadger, Path: t.TempDir()}
	slots, err = openSlots(ctx, cfg, logx.Nop(), failingConnect(errors.New("unused")))
	require.NoError(t, err)
	require.IsType(t, &repository.BadgerSlots{}, slots)
	require.NoError(t, slots.Close())

	cfg.Store.Backend = "tape"
	_, err = openSlots(ctx, cfg, logx.Nop(), failingConnect(errors.New("unused")))
	require.Error(t, err)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Store.Backend = config.StorePostgres

	c, err := NewContainerBuilder().
		WithConfigLoader(staticConfig(cfg)).
		WithDBConnect(failingConnect(errors.New("db failed"))).
		build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(*repository.RecordStore) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_MustBuild_DoesNotCallFatal(t *testing.T) {
	t.Parallel()

	builder := NewContainerBuilder().
		WithConfigLoader(staticConfig(testConfig())).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	c := builder.MustBuild(context.Background())
	require.NotNil(t, c)
}
