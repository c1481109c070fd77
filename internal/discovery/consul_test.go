package discovery

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent answers the handful of agent endpoints the client touches.
type fakeAgent struct {
	mu           sync.Mutex
	registered   *api.AgentServiceRegistration
	deregistered string
	health       []*api.ServiceEntry
}

func (f *fakeAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/v1/agent/self":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"Config":{"NodeName":"test"}}`)
	case r.URL.Path == "/v1/agent/service/register":
		var reg api.AgentServiceRegistration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.registered = &reg
	case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
		f.deregistered = strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
	case strings.HasPrefix(r.URL.Path, "/v1/health/service/"):
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.health)
	default:
		http.NotFound(w, r)
	}
}

func setupConsul(t *testing.T, agent *fakeAgent) *ConsulClient {
	t.Helper()
	srv := httptest.NewServer(agent)
	t.Cleanup(srv.Close)

	c, err := NewConsulClient(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	return c
}

func TestConsulClient_RegisterAndDeregister(t *testing.T) {
	agent := &fakeAgent{}
	c := setupConsul(t, agent)

	err := c.Register(ServiceConfig{
		Name:    "shop",
		ID:      "shop-1",
		Address: "10.0.0.5",
		Port:    8081,
		Tags:    []string{"api"},
	})
	require.NoError(t, err)

	require.NotNil(t, agent.registered)
	assert.Equal(t, "shop", agent.registered.Name)
	assert.Equal(t, "shop-1", agent.registered.ID)
	assert.Equal(t, 8081, agent.registered.Port)
	require.NotNil(t, agent.registered.Check)
	assert.Equal(t, "http://10.0.0.5:8081/api/health", agent.registered.Check.HTTP)
	assert.Equal(t, "30s", agent.registered.Check.DeregisterCriticalServiceAfter)

	require.NoError(t, c.Deregister("shop-1"))
	assert.Equal(t, "shop-1", agent.deregistered)
}

func TestConsulClient_ServiceAddrs(t *testing.T) {
	agent := &fakeAgent{health: []*api.ServiceEntry{
		{Node: &api.Node{Address: "10.0.0.9"}, Service: &api.AgentService{Address: "10.0.0.5", Port: 8081}},
		{Node: &api.Node{Address: "10.0.0.9"}, Service: &api.AgentService{Port: 8082}},
	}}
	c := setupConsul(t, agent)

	addrs, err := c.ServiceAddrs("shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.5:8081", "10.0.0.9:8082"}, addrs)
}

func TestConsulClient_ServiceAddrs_None(t *testing.T) {
	c := setupConsul(t, &fakeAgent{health: []*api.ServiceEntry{}})

	_, err := c.ServiceAddrs("shop")
	assert.ErrorContains(t, err, "no healthy instances of shop found")
}

func TestNewConsulClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	_, err := NewConsulClient(addr)
	assert.ErrorContains(t, err, "failed to connect to Consul")
}
