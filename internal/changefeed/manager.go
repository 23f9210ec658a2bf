// Package changefeed fans committed changes out to subscribed TCP clients
// as newline-framed JSON, so sync consumers can follow a collection without
// polling changes-since.
package changefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    int
	Address string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Port <= 0 {
		errGrp = append(errGrp, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.Address == "" {
		errGrp = append(errGrp, fmt.Errorf("invalid address: %s", c.Address))
	}
	return errors.Join(errGrp...)
}

type Manager struct {
	port     int
	address  string
	listener net.Listener

	emitChan   chan *Event
	procCtx    context.Context
	procCancel context.CancelFunc

	clients    map[net.Conn]bool
	clientsMux sync.Mutex
}

func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	addrString := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	listener, err := net.Listen("tcp", addrString)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addrString, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		listener:   listener,
		port:       cfg.Port,
		address:    cfg.Address,
		emitChan:   make(chan *Event, 100000),
		procCtx:    ctx,
		procCancel: cancel,

		clients:    make(map[net.Conn]bool),
		clientsMux: sync.Mutex{},
	}, nil
}

func (m *Manager) Start() error {
	go func() {
		for {
			select {
			case <-m.procCtx.Done():
				return
			case e := <-m.emitChan:
				m.broadcast(e)
			}
		}
	}()

	go func() {
		for {
			select {
			case <-m.procCtx.Done():
				return
			default:
				conn, err := m.listener.Accept()
				if err != nil {
					log.Debug().Err(err).Msg("Change feed accept failed")
					continue
				}

				go m.handle(conn)
			}
		}
	}()

	return nil
}

func (m *Manager) Stop() error {
	if m.listener != nil {
		if err := m.listener.Close(); err != nil {
			return fmt.Errorf("failed to close listener: %w", err)
		}
	}

	if m.procCancel != nil {
		m.procCancel()
	}

	return nil
}

func (m *Manager) Name() string {
	return "Change Feed"
}

func (m *Manager) handle(conn net.Conn) {
	defer func() {
		_ = conn.Close()

		m.clientsMux.Lock()
		delete(m.clients, conn)
		m.clientsMux.Unlock()
	}()

	m.clientsMux.Lock()
	m.clients[conn] = true
	m.clientsMux.Unlock()

	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Change feed client connected")

	// Reading is only to detect disconnection; the feed is one-way.
	buffer := make([]byte, 4096)
	for {
		_, err := conn.Read(buffer)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Str("remote", conn.RemoteAddr().String()).
					Msg("Change feed client disconnected")
			} else {
				log.Debug().Err(err).Str("remote", conn.RemoteAddr().String()).
					Msg("Change feed read error")
			}
			return
		}
	}
}
