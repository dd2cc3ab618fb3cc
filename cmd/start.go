package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/repl"
	"github.com/selenedb/selene/server"
)

var (
	startCmd = &cobra.Command{
		Use:   "start [sql-file...]",
		Short: "start the selene server",
		RunE:  startRun,
	}

	sqlArgs []string

	proto3Host = "localhost"
	proto3Port = "5432"

	sshServer      bool
	sshPort        = "localhost:8241"
	authorizedKeys string
	hostKeys       = []string{"id_rsa"}
)

func init() {
	seleneCmd.AddCommand(startCmd)

	fs := startCmd.Flags()
	initServerFlags(fs)
	fs.StringVar(&proto3Host, "host", proto3Host, "`host` to listen on")
	fs.StringVarP(&proto3Port, "port", "p", proto3Port, "`port` to listen on")
	fs.BoolVar(&sshServer, "ssh", sshServer, "serve ssh clients")
	fs.StringVar(&sshPort, "ssh-port", sshPort, "`address` for the ssh server to listen on")
	fs.StringVar(&authorizedKeys, "ssh-authorized-keys", authorizedKeys,
		"`file` of authorized public keys for the ssh server")
	fs.StringSliceVar(&hostKeys, "ssh-host-key", hostKeys,
		"host key `file`(s) for the ssh server")

	cfgVars["host"] = fs.Lookup("host")
	cfgVars["port"] = fs.Lookup("port")
	cfgVars["ssh"] = fs.Lookup("ssh")
	cfgVars["ssh-port"] = fs.Lookup("ssh-port")
	cfgVars["ssh-authorized-keys"] = fs.Lookup("ssh-authorized-keys")
	cfgVars["ssh-host-key"] = fs.Lookup("ssh-host-key")
	cfgVars["accounts"] = nil
}

func initServerFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&sqlArgs, "sql", sqlArgs, "sql `query` to evaluate at startup")
}

func newServer(args []string) (*server.Server, error) {
	svr := &server.Server{
		Engine:  engine.NewEngine(flgs),
		Handler: repl.Handler(),
	}

	for idx, arg := range sqlArgs {
		svr.HandleSession(strings.NewReader(arg), os.Stdout, "startup", "sql-arg",
			strconv.Itoa(idx))
	}

	for _, fn := range args {
		f, err := os.Open(fn)
		if err != nil {
			return nil, fmt.Errorf("selene: sql file: %s", err)
		}
		svr.HandleSession(bufio.NewReader(f), os.Stderr, "startup", "sql-file", fn)
		f.Close()
	}

	return svr, nil
}

func userAccounts() map[string]string {
	val := cfg["accounts"]
	if val == nil {
		return nil
	}
	slice, ok := val.([]interface{})
	if !ok {
		return nil
	}

	userPasswords := map[string]string{}
	for _, obj := range slice {
		acct, ok := obj.(map[string]interface{})
		if !ok {
			return nil
		}
		user, ok := acct["user"].(string)
		if !ok {
			return nil
		}
		password, ok := acct["password"].(string)
		if !ok {
			return nil
		}
		userPasswords[user] = password
	}

	return userPasswords
}

func startRun(cmd *cobra.Command, args []string) error {
	svr, err := newServer(args)
	if err != nil {
		return err
	}

	p3Cfg := server.Proto3Config{
		Address: fmt.Sprintf("%s:%s", proto3Host, proto3Port),
	}

	go func() {
		fmt.Fprintf(os.Stderr, "selene: %s\n", svr.ListenAndServeProto3(p3Cfg))
	}()

	if sshServer {
		userPasswords := userAccounts()

		sshCfg := server.SSHConfig{
			Address: sshPort,
		}

		for _, hostKey := range hostKeys {
			keyBytes, err := ioutil.ReadFile(hostKey)
			if err != nil {
				return fmt.Errorf("selene: host keys: %s", err)
			}
			sshCfg.HostKeysBytes = append(sshCfg.HostKeysBytes, keyBytes)
		}

		if authorizedKeys != "" {
			sshCfg.AuthorizedBytes, err = ioutil.ReadFile(authorizedKeys)
			if err != nil {
				return fmt.Errorf("selene: authorized keys: %s", err)
			}
		}

		if len(userPasswords) > 0 {
			sshCfg.CheckPassword = func(user, password string) error {
				pw, ok := userPasswords[user]
				if !ok {
					return fmt.Errorf("user %s not found", user)
				}
				if password != pw {
					return fmt.Errorf("bad password for user %s", user)
				}
				return nil
			}
		}

		go func() {
			fmt.Fprintf(os.Stderr, "selene: %s\n", svr.ListenAndServeSSH(sshCfg))
		}()
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)

	fmt.Println("selene: waiting for ^C to shutdown")
	<-ch
	go func() {
		<-ch
		os.Exit(0)
	}()

	fmt.Println("selene: shutting down")
	svr.Shutdown(context.Background())

	return nil
}
