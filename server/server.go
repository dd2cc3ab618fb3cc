package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/selenedb/selene/engine"
)

var ErrServerClosed = errors.New("server: closed")

// Session is one client of the server: a reader of statements, a writer of
// results, and the identity of whoever connected.
type Session struct {
	Engine     *engine.Engine
	RuneReader io.RuneReader
	Writer     io.Writer
	User       string
	Type       string
	Addr       string
}

type SessionHandler func(ses *Session)

// Server serves the query engine over one or more listeners. The engine is
// stateless, so every session shares it.
type Server struct {
	Engine  *engine.Engine
	Handler SessionHandler

	mutex      sync.Mutex
	listeners  []net.Listener
	sshServers []*sshServer
	activeConn map[net.Conn]struct{}
	connCount  int32
	shutdown   bool
	closed     bool
}

// HandleSession runs the server's session handler for one client.
func (svr *Server) HandleSession(rr io.RuneReader, w io.Writer, user string, typ string,
	addr string) {

	svr.Handler(&Session{
		Engine:     svr.Engine,
		RuneReader: rr,
		Writer:     w,
		User:       user,
		Type:       typ,
		Addr:       addr,
	})
}

func (svr *Server) addListener(l net.Listener) {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	svr.listeners = append(svr.listeners, l)
}

func (svr *Server) addSSHServer(ss *sshServer) {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	svr.sshServers = append(svr.sshServers, ss)
}

func (svr *Server) trackConn(conn net.Conn, add bool) bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.closed {
		return false
	}
	if svr.activeConn == nil {
		svr.activeConn = map[net.Conn]struct{}{}
	}
	if add {
		svr.activeConn[conn] = struct{}{}
	} else {
		delete(svr.activeConn, conn)
	}
	return true
}

func (svr *Server) closeListeners() error {
	var err error
	if !svr.shutdown {
		for _, l := range svr.listeners {
			cerr := l.Close()
			if err == nil {
				err = cerr
			}
		}
		svr.shutdown = true
	}
	return err
}

// Close stops listening and closes all active connections.
func (svr *Server) Close() error {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.closed {
		return nil
	}
	svr.closed = true

	err := svr.closeListeners()
	for conn := range svr.activeConn {
		conn.Close()
		delete(svr.activeConn, conn)
	}

	for _, ss := range svr.sshServers {
		cerr := ss.Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

// Shutdown stops listening and waits for active connections to finish.
func (svr *Server) Shutdown(ctx context.Context) error {
	svr.mutex.Lock()
	if svr.closed {
		svr.mutex.Unlock()
		return nil
	}
	err := svr.closeListeners()
	sshServers := svr.sshServers
	svr.mutex.Unlock()

	for _, ss := range sshServers {
		serr := ss.Shutdown(ctx)
		if err == nil {
			err = serr
		}
	}

	last := int32(-1)
	for {
		cc := atomic.LoadInt32(&svr.connCount)
		if cc == 0 {
			break
		}
		if cc != last {
			log.WithField("connections", cc).Info("waiting for active connections")
			last = cc
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return err
}
