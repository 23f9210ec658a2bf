package server

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *countingHandler) Handle(conn net.Conn) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func TestNew_validation(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		cfg *Config
	}{
		"missing port": {
			cfg: &Config{Handler: &countingHandler{}},
		},
		"missing handler": {
			cfg: &Config{Port: "0"},
		},
		"tls without certificate": {
			cfg: &Config{Port: "0", Handler: &countingHandler{}, EnableTLS: true},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := New(tc.cfg)
			require.Error(t, err)
			require.Nil(t, s)
		})
	}
}

func TestServer_acceptsConnections(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	h := &countingHandler{}
	s, err := New(&Config{Port: "0", Handler: h})
	req.NoError(err)
	req.Equal("Tidemark Server", s.Name())

	started := make(chan error, 1)
	go func() { started <- s.Start() }()

	addr := s.listener.Addr().String()
	for i := 0; i < 3; i++ {
		conn, err := net.Dial("tcp", addr)
		req.NoError(err)
		_ = conn.Close()
	}

	for h.count() < 3 {
		time.Sleep(5 * time.Millisecond)
	}

	req.NoError(s.Stop())
	req.NoError(<-started)
}
