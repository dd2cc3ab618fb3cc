package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/flags"
)

var (
	seleneCmd = &cobra.Command{
		Use:   "selene [query]",
		Short: "selene is a sql expression calculator",
		Long: `Selene evaluates SQL SELECT expressions. Pass a query as an argument to
evaluate it directly, or use the repl and start subcommands.`,
		PersistentPreRunE: selenePreRun,
		PersistentPostRun: selenePostRun,
		RunE:              seleneRun,
	}

	logFile    = "selene.log"
	logLevel   = "info"
	logStderr  bool
	configFile = "selene.hcl"
	noConfig   bool

	logOut *os.File

	cfgVars   = map[string]*pflag.Flag{}
	cfg       = map[string]interface{}{}
	flgs      = flags.Default()
	usedFlags = map[string]struct{}{}
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	fs := seleneCmd.PersistentFlags()
	fs.StringVar(&logFile, "log-file", logFile, "`file` to log to")
	fs.StringVar(&logLevel, "log-level", logLevel,
		"log `level`: panic, fatal, error, warn, info, debug, or trace")
	fs.BoolVar(&logStderr, "log-stderr", logStderr, "log to standard error")
	fs.StringVarP(&configFile, "config-file", "c", configFile, "config `file`")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't use a config file")

	cfgVars["log-file"] = fs.Lookup("log-file")
	cfgVars["log-level"] = fs.Lookup("log-level")
	cfgVars["log-stderr"] = fs.Lookup("log-stderr")
}

func Execute() error {
	return seleneCmd.Execute()
}

func loadConfig() error {
	b, err := ioutil.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("selene: config file: %s", err)
	}
	err = hcl.Decode(&cfg, string(b))
	if err != nil {
		return fmt.Errorf("selene: config file %s: %s", configFile, err)
	}

	for k, v := range cfg {
		if f, ok := cfgVars[k]; ok {
			if f == nil {
				continue
			}
			if _, used := usedFlags[f.Name]; used {
				continue
			}
			err = f.Value.Set(fmt.Sprintf("%v", v))
			if err != nil {
				return fmt.Errorf("selene: config file %s: %s: %s", configFile, k, err)
			}
		} else if fn, ok := flags.LookupFlag(k); ok {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("selene: config file %s: %s: expected a boolean", configFile,
					k)
			}
			flgs.SetFlag(fn, b)
		} else {
			return fmt.Errorf("selene: config file %s: %s is not a config variable", configFile,
				k)
		}
	}
	return nil
}

func selenePreRun(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(
		func(f *pflag.Flag) {
			usedFlags[f.Name] = struct{}{}
		})

	if !noConfig {
		err := loadConfig()
		if err != nil {
			return err
		}
	}

	if !logStderr {
		var err error
		logOut, err = os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("selene: log file: %s", err)
		}
		log.SetOutput(logOut)
	}

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("selene: %s", err)
	}
	log.SetLevel(lvl)

	log.WithFields(log.Fields{
		"pid": os.Getpid(),
	}).Info("selene starting")
	return nil
}

func selenePostRun(cmd *cobra.Command, args []string) {
	log.Info("selene done")
	if logOut != nil {
		logOut.Close()
		logOut = nil
	}
}

func seleneRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	e := engine.NewEngine(flgs)
	v, err := e.Evaluate(strings.Join(args, " "))
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Result: %s\n", engine.Format(v))
	return nil
}
