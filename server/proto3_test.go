package server_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/flags"
	"github.com/selenedb/selene/server"
)

func TestProto3(t *testing.T) {
	svr := server.Server{
		Engine: engine.NewEngine(flags.Default()),
	}

	go func() {
		svr.ListenAndServeProto3(server.Proto3Config{Address: "localhost:35432"})
	}()

	var db *sqlx.DB
	var err error
	var retries int
	for {
		db, err = sqlx.Connect("postgres",
			"host=localhost port=35432 dbname=selene sslmode=disable")
		if err == nil {
			break
		}
		retries += 1
		if retries > 3 {
			t.Fatal(err)
		}
		time.Sleep(time.Second * time.Duration(retries))
	}

	var f float64
	if err = db.Get(&f, "SELECT 1 + 2 * 3"); err != nil {
		t.Errorf("Get(SELECT 1 + 2 * 3) failed with %s", err)
	} else if f != 7 {
		t.Errorf("Get(SELECT 1 + 2 * 3) got %v want 7", f)
	}

	var b bool
	if err = db.Get(&b, "SELECT SQRT(16) > SQRT(4)"); err != nil {
		t.Errorf("Get(SELECT SQRT(16) > SQRT(4)) failed with %s", err)
	} else if !b {
		t.Errorf("Get(SELECT SQRT(16) > SQRT(4)) got false want true")
	}

	var s string
	if err = db.Get(&s, "SELECT 'abc'"); err != nil {
		t.Errorf("Get(SELECT 'abc') failed with %s", err)
	} else if s != "abc" {
		t.Errorf("Get(SELECT 'abc') got %q want abc", s)
	}

	_, err = db.Exec("SELECT 1 / 2")
	if err == nil {
		t.Errorf("Exec(SELECT 1 / 2) did not fail")
	} else if !strings.Contains(err.Error(), "[Unsupported Operator]") {
		t.Errorf("Exec(SELECT 1 / 2) failed with %s", err)
	}

	err = db.Close()
	if err != nil {
		t.Fatal(err)
	}

	svr.Shutdown(context.Background())
}
