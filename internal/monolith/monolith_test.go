package monolith

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/asset"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/di"
	"github.com/fd1az/pool-quoter/internal/logger"
)

type recordingModule struct {
	name    string
	events  *[]string
	failReg bool
}

func (m recordingModule) RegisterServices(c di.Container) error {
	*m.events = append(*m.events, "register:"+m.name)
	if m.failReg {
		return errors.New("boom")
	}
	c.Register(m.name, m.name)
	return nil
}

func (m recordingModule) Startup(_ context.Context, mono Monolith) error {
	*m.events = append(*m.events, "start:"+m.name+"="+mono.Services().Get(m.name).(string))
	return nil
}

func TestApp_ModuleLifecycle(t *testing.T) {
	cfg := &config.Config{}
	a := newApp(cfg, logger.NewNop(), nil, asset.DefaultRegistry())

	var events []string
	mods := []Module{
		recordingModule{name: "pool", events: &events},
		recordingModule{name: "quoting", events: &events},
	}

	require.NoError(t, a.RegisterModules(mods...))
	require.NoError(t, a.StartModules(context.Background(), mods...))

	assert.Equal(t, []string{
		"register:pool", "register:quoting",
		"start:pool=pool", "start:quoting=quoting",
	}, events)

	assert.Same(t, cfg, a.Services().Get("config"))
	assert.Same(t, cfg, a.Config())
	assert.NoError(t, a.Close())
}

func TestApp_RegisterError(t *testing.T) {
	a := newApp(&config.Config{}, logger.NewNop(), nil, asset.NewRegistry())

	var events []string
	err := a.RegisterModules(
		recordingModule{name: "bad", events: &events, failReg: true},
		recordingModule{name: "never", events: &events},
	)
	assert.Error(t, err)
	assert.Equal(t, []string{"register:bad"}, events)
}

func TestNew_RPCHeaders(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")

		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": "0x10"})
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Ethereum.HTTPURL = srv.URL
	cfg.Ethereum.CallTimeout = 5 * time.Second
	cfg.Ethereum.Headers = "X-Api-Key=secret"

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	n, err := a.ChainClient().BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)
	assert.Equal(t, "secret", gotKey)
}

func TestNew_InvalidRPCHeaders(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ethereum.HTTPURL = "http://localhost:8545"
	cfg.Ethereum.Headers = "no-separator"

	_, err := New(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ethereum headers")
}
