package transport

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"sync"

	"uk.ac.bris.cs/relaxation/logging"
)

// Server exposes one RPC receiver on a TCP listener and serves every
// connection on its own goroutine until Shutdown.
type Server struct {
	rpcServer *rpc.Server
	listener  net.Listener
	log       *logging.Logger

	mu       sync.Mutex
	quit     chan struct{}
	accepted chan struct{}
}

// NewServer registers handler under its type name, e.g. "RelaxOperations".
func NewServer(name string, handler any, log *logging.Logger) (*Server, error) {
	s := &Server{
		rpcServer: rpc.NewServer(),
		log:       log.Named(name),
		quit:      make(chan struct{}),
		accepted:  make(chan struct{}),
	}
	if err := s.rpcServer.Register(handler); err != nil {
		return nil, fmt.Errorf("transport: register %s: %w", name, err)
	}
	return s, nil
}

// Serve listens on addr (":0" picks a free port) and returns once the
// listener is open.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("transport: listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.log.Infof("listening on %s", listener.Addr())

	go func() {
		defer close(s.accepted)
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-s.quit:
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.log.Errorf("accept: %v", err)
				continue
			}
			go s.rpcServer.ServeConn(conn)
		}
	}()
	return nil
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes the listener and waits for the accept loop. Connections
// still open end when their clients hang up.
func (s *Server) Shutdown() {
	s.mu.Lock()
	select {
	case <-s.quit:
		s.mu.Unlock()
		return
	default:
		close(s.quit)
	}
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
		<-s.accepted
	}
}
