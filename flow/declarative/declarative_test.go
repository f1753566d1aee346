package declarative

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/favbox/avalon/compose"
)

const triageYAML = `
name: alert-triage
metadata:
  owner: sre
values:
  team: infra
nodes:
  - key: fetch
    name: 拉取告警
    behavior: fetch_alert
    options:
      endpoint: ${ALERT_API:-http://localhost:9093}
  - key: page
    behavior: page_oncall
routers:
  - key: classify
    behavior: by_severity
    routes:
      - label: urgent
        target: page
      - label: noise
        target: halt
edges:
  - from: fetch
    to: classify
`

func newTestRegistry(t *testing.T) *Registry {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterNode("fetch_alert", func(options map[string]any) (compose.Node, error) {
		endpoint, _ := options["endpoint"].(string)
		if endpoint == "" {
			return nil, errors.New("endpoint is required")
		}
		return compose.NodeFunc(func(_ context.Context, state *compose.State) (*compose.State, error) {
			return state.Set("endpoint", endpoint), nil
		}), nil
	}))
	require.NoError(t, reg.RegisterNodeFunc("page_oncall", func(_ context.Context, state *compose.State) (*compose.State, error) {
		team, _ := compose.GetValue[string](state, "team")
		return state.Set("paged", team), nil
	}))
	require.NoError(t, reg.RegisterRouterFunc("by_severity", func(_ context.Context, state *compose.State) (compose.Decision, error) {
		if severity, _ := compose.GetValue[string](state, "severity"); severity == "critical" {
			return compose.Continue("urgent"), nil
		}
		return compose.Continue("noise"), nil
	}))
	return reg
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("build and run", func(t *testing.T) {
		t.Setenv("ALERT_API", "http://alertmanager:9093")

		g, err := Load([]byte(triageYAML), newTestRegistry(t))
		require.NoError(t, err)
		assert.Equal(t, "alert-triage", g.Name())
		assert.Equal(t, map[string]any{"owner": "sre"}, g.Metadata())

		result, err := g.Execute(ctx, compose.WithValues(map[string]any{"severity": "critical"}))
		require.NoError(t, err)
		assert.Equal(t, compose.StatusCompleted, result.Status)
		assert.Equal(t, []string{"fetch", "classify", "page"}, result.Path)

		endpoint, _ := compose.GetValue[string](result.State, "endpoint")
		assert.Equal(t, "http://alertmanager:9093", endpoint)
		paged, _ := compose.GetValue[string](result.State, "paged")
		assert.Equal(t, "infra", paged)

		result, err = g.Execute(ctx, compose.WithValues(map[string]any{"severity": "info"}))
		require.NoError(t, err)
		assert.Equal(t, compose.StatusHalted, result.Status)
		assert.Equal(t, "classify", result.HaltedAt)
	})

	t.Run("node info", func(t *testing.T) {
		t.Setenv("ALERT_API", "")

		g, err := Load([]byte(triageYAML), newTestRegistry(t), compose.WithGraphName("triage-v2"))
		require.NoError(t, err)

		info := g.Info()
		assert.Equal(t, "triage-v2", info.Name)
		require.Len(t, info.Nodes, 3)

		assert.Equal(t, "拉取告警", info.Nodes[0].Name)
		assert.Equal(t, map[string]any{"endpoint": "http://localhost:9093"}, info.Nodes[0].Options)
		assert.Equal(t, "page_oncall", info.Nodes[1].Name)

		assert.Equal(t, "classify", info.Nodes[2].Key)
		assert.Equal(t, compose.NodeKindRouter, info.Nodes[2].Kind)
		assert.Equal(t, []compose.Route{
			{Label: "urgent", Target: "page"},
			{Label: "noise", Target: compose.HALT},
		}, info.Nodes[2].Routes)
	})

	t.Run("routers targeting routers", func(t *testing.T) {
		reg := newTestRegistry(t)
		require.NoError(t, reg.RegisterRouterFunc("always_escalate", func(context.Context, *compose.State) (compose.Decision, error) {
			return compose.Continue("escalate"), nil
		}))

		g, err := Load([]byte(`
name: chained
nodes:
  - key: fetch
    behavior: fetch_alert
    options:
      endpoint: http://localhost:9093
  - key: page
    behavior: page_oncall
routers:
  - key: gate
    behavior: always_escalate
    routes:
      - label: escalate
        target: classify
  - key: classify
    behavior: by_severity
    routes:
      - label: urgent
        target: page
      - label: noise
        target: halt
edges:
  - from: fetch
    to: gate
`), reg)
		require.NoError(t, err)

		result, err := g.Execute(ctx, compose.WithValues(map[string]any{"severity": "critical"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"fetch", "gate", "classify", "page"}, result.Path)
	})

	t.Run("load file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "triage.yaml")
		require.NoError(t, os.WriteFile(path, []byte(triageYAML), 0o600))

		g, err := LoadFile(path, newTestRegistry(t))
		require.NoError(t, err)
		assert.Equal(t, "alert-triage", g.Name())

		_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), newTestRegistry(t))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadErrors(t *testing.T) {
	reg := newTestRegistry(t)

	t.Run("empty", func(t *testing.T) {
		_, err := Load(nil, reg)
		assert.ErrorIs(t, err, ErrEmptyDefinition)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load([]byte("name: x\nnodez: []\n"), reg)
		assert.ErrorContains(t, err, "parse workflow definition failed")
	})

	t.Run("missing behavior", func(t *testing.T) {
		_, err := Load([]byte("nodes:\n  - key: a\n"), reg)
		assert.EqualError(t, err, "node 'a': behavior is required")
	})

	t.Run("router without routes", func(t *testing.T) {
		_, err := Load([]byte("routers:\n  - key: r\n    behavior: by_severity\n"), reg)
		assert.EqualError(t, err, "router 'r': at least one route is required")
	})

	t.Run("unregistered behavior", func(t *testing.T) {
		_, err := Load([]byte("nodes:\n  - key: a\n    behavior: reboot\n"), reg)
		assert.ErrorIs(t, err, compose.ErrInvalidBehavior)
		assert.ErrorContains(t, err, "node 'a' uses unregistered behavior 'reboot'")

		// 节点行为不能作为路由行为
		_, err = Load([]byte("routers:\n  - key: r\n    behavior: page_oncall\n    routes:\n      - label: x\n        target: halt\n"), reg)
		assert.ErrorIs(t, err, compose.ErrInvalidBehavior)
	})

	t.Run("factory failure", func(t *testing.T) {
		_, err := Load([]byte("nodes:\n  - key: a\n    behavior: fetch_alert\n"), reg)
		assert.EqualError(t, err, "create behavior 'fetch_alert' of node 'a' failed: endpoint is required")
	})

	t.Run("unknown route target", func(t *testing.T) {
		_, err := Load([]byte("routers:\n  - key: r\n    behavior: by_severity\n    routes:\n      - label: urgent\n        target: page\n"), reg)
		assert.ErrorIs(t, err, compose.ErrInvalidRouteTarget)
	})

	t.Run("structural errors", func(t *testing.T) {
		_, err := Load([]byte(`
nodes:
  - key: a
    behavior: page_oncall
  - key: b
    behavior: page_oncall
edges:
  - from: a
    to: halt
  - from: b
    to: halt
`), reg)
		assert.ErrorIs(t, err, compose.ErrMultipleRoots)

		_, err = Load([]byte(`
nodes:
  - key: a
    behavior: page_oncall
edges:
  - from: a
    to: z
`), reg)
		assert.ErrorIs(t, err, compose.ErrUnknownNode)
	})

	t.Run("nil registry", func(t *testing.T) {
		_, err := Load([]byte(triageYAML), nil)
		assert.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.RegisterNodeFunc("page_oncall", func(_ context.Context, s *compose.State) (*compose.State, error) { return s, nil })
	assert.ErrorIs(t, err, ErrDuplicateBehavior)
	assert.Error(t, reg.RegisterNode("", nil))
	assert.Error(t, reg.RegisterRouter("r", nil))

	nodes, routers := reg.Behaviors()
	assert.Equal(t, []string{"fetch_alert", "page_oncall"}, nodes)
	assert.Equal(t, []string{"by_severity"}, routers)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("AVALON_REGION", "cn-north")
	t.Setenv("AVALON_EMPTY", "")

	got := expandEnvVars(map[string]any{
		"region":  "$AVALON_REGION",
		"url":     "https://${AVALON_REGION}.example.com",
		"retries": 3,
		"nested": map[string]any{
			"zone": "${AVALON_EMPTY:-default}",
			"list": []any{"${AVALON_REGION}", 1},
		},
	})
	assert.Equal(t, map[string]any{
		"region":  "cn-north",
		"url":     "https://cn-north.example.com",
		"retries": 3,
		"nested": map[string]any{
			"zone": "default",
			"list": []any{"cn-north", 1},
		},
	}, got)
	assert.Nil(t, expandEnvVars(nil))
}
