package server

import (
	"encoding/json"
	"io"
	"net"
	"strings"
	"sync/atomic"

	pgproto3 "github.com/jackc/pgproto3/v2"
	"github.com/lib/pq/oid"
	log "github.com/sirupsen/logrus"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/parser"
)

type Proto3Config struct {
	Address string
}

func (svr *Server) ListenAndServeProto3(p3Cfg Proto3Config) error {
	l, err := net.Listen("tcp", p3Cfg.Address)
	if err != nil {
		return err
	}
	svr.addListener(l)

	for {
		conn, err := l.Accept()
		if err != nil {
			svr.mutex.Lock()
			if svr.shutdown {
				err = ErrServerClosed
			}
			svr.mutex.Unlock()
			log.WithField("error", err.Error()).Error("proto3 accept")
			return err
		}

		entry := log.WithFields(log.Fields{
			"addr": conn.RemoteAddr().String(),
		})
		entry.Info("proto3 connected")

		go svr.handleProto3Conn(conn, entry)
	}
}

func (svr *Server) handleProto3Conn(conn net.Conn, entry *log.Entry) {
	atomic.AddInt32(&svr.connCount, 1)
	defer atomic.AddInt32(&svr.connCount, -1)

	defer func() {
		entry.Info("proto3 disconnected")
	}()

	if !svr.trackConn(conn, true) {
		conn.Close()
		return
	}

	defer func() {
		if svr.trackConn(conn, false) {
			conn.Close()
		}
	}()

	be := pgproto3.NewBackend(pgproto3.NewChunkReader(conn), conn)

	var started bool
	for !started {
		msg, err := be.ReceiveStartupMessage()
		if err != nil {
			entry.Errorf("receive startup message: %s", err)
			return
		}

		switch msg := msg.(type) {
		case *pgproto3.StartupMessage:
			entry.Infof("protocol version: %d", msg.ProtocolVersion)
			for nam, val := range msg.Parameters {
				entry.Infof("parameter: %s = %s", nam, val)
			}
			_, err := conn.Write((&pgproto3.AuthenticationOk{}).Encode(nil))
			if err != nil {
				entry.Errorf("send authentication ok: %s", err)
				return
			}
			started = true
		case *pgproto3.SSLRequest:
			_, err := conn.Write([]byte("N"))
			if err != nil {
				entry.Errorf("send deny SSL request: %s", err)
				return
			}
		default:
			entry.Errorf("unknown startup message: %v", msg)
			return
		}
	}

	svr.serveProto3Session(be, conn, entry)
}

func (svr *Server) serveProto3Session(be *pgproto3.Backend, conn net.Conn, entry *log.Entry) {
	for {
		_, err := conn.Write((&pgproto3.ReadyForQuery{TxStatus: 'I'}).Encode(nil))
		if err != nil {
			entry.Errorf("send ready for query: %s", err)
			return
		}

		msg, err := be.Receive()
		if err != nil {
			if err != io.EOF {
				entry.Errorf("receive: %s", err)
			}
			return
		}

		switch msg := msg.(type) {
		case *pgproto3.Query:
			proto3Query(svr.Engine, conn, msg, entry)
		case *pgproto3.Terminate:
			return
		default:
			buf, _ := json.Marshal(msg)
			entry.Errorf("backend unexpected message: %s", string(buf))
		}
	}
}

// dataType returns the oid and size describing how a value is typed on the
// wire.
func dataType(v engine.Value) (oid.Oid, int16) {
	switch v.(type) {
	case engine.BoolValue:
		return oid.T_bool, 1
	case engine.StringValue:
		return oid.T_text, -1
	default:
		return oid.T_float8, 8
	}
}

func proto3Query(e *engine.Engine, conn net.Conn, msg *pgproto3.Query, entry *log.Entry) {
	p := parser.NewParser(strings.NewReader(msg.String), "proto3")

	cnt := 0
	for {
		stmt, err := p.Parse()
		if err == io.EOF {
			if cnt == 0 {
				_, err := conn.Write((&pgproto3.EmptyQueryResponse{}).Encode(nil))
				if err != nil {
					entry.Errorf("send empty query response: %s", err)
				}
			}
			return
		} else if err != nil {
			proto3ErrorResponse(conn, err, entry)
			return
		}
		cnt += 1

		v, err := e.EvaluateStmt(stmt)
		if err != nil {
			proto3ErrorResponse(conn, err, entry)
			return
		}

		toid, sz := dataType(v)
		_, err = conn.Write((&pgproto3.RowDescription{
			Fields: []pgproto3.FieldDescription{
				{
					Name:                 []byte("result"),
					TableOID:             0,
					TableAttributeNumber: 0,
					DataTypeOID:          uint32(toid),
					DataTypeSize:         sz,
					TypeModifier:         -1,
					Format:               0, // Text format; binary format = 1
				},
			},
		}).Encode(nil))
		if err != nil {
			entry.Errorf("send row description: %s", err)
			return
		}

		_, err = conn.Write((&pgproto3.DataRow{
			Values: [][]byte{[]byte(engine.Format(v))},
		}).Encode(nil))
		if err != nil {
			entry.Errorf("send data row: %s", err)
			return
		}

		_, err = conn.Write((&pgproto3.CommandComplete{
			CommandTag: []byte("SELECT 1"),
		}).Encode(nil))
		if err != nil {
			entry.Errorf("send command complete: %s", err)
			return
		}
	}
}

func proto3ErrorResponse(conn net.Conn, err error, entry *log.Entry) {
	_, cerr := conn.Write((&pgproto3.ErrorResponse{
		Severity: "ERROR",
		Message:  err.Error(),
	}).Encode(nil))
	if cerr != nil {
		entry.Errorf("send error response: %s", cerr)
	}
}
