// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command guardstack pushes its arguments onto a guarded stack and prints
// the top element followed by a diagnostic dump of the stack.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"code.hybscloud.com/guardstack"
	"code.hybscloud.com/guardstack/internal/config"
	"code.hybscloud.com/guardstack/promobserver"
)

const defaultMessage = "nothing to push, so here is a message"

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func runWithArgs(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("guardstack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	logLevel := fs.String("log-level", "", "log level, overrides the configuration")
	showMetrics := fs.Bool("metrics", false, "print the collected metrics in the Prometheus text format")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: guardstack [options] [value ...]\n\n")
		fmt.Fprintln(stderr, "Pushes each value onto a guarded stack and prints the result.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := config.ApplyEnv(&cfg, getenv); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	obs := promobserver.New(reg, "")

	values := fs.Args()
	if len(values) == 0 {
		values = []string{defaultMessage}
	}
	_, err = guardstack.Bracket(func(s *guardstack.Stack[string]) (struct{}, error) {
		for _, v := range values {
			if err := s.Push(v); err != nil {
				return struct{}{}, err
			}
		}
		top, err := s.Peek()
		if err != nil {
			return struct{}{}, err
		}
		fmt.Fprintf(stdout, "Stack content: %s\n", top)
		_, err = s.WriteTo(stdout)
		return struct{}{}, err
	},
		guardstack.WithPolicy(cfg.Policy),
		guardstack.WithLogger(logger),
		guardstack.WithObserver(obs),
	)
	if err != nil {
		logger.Error("stack operation failed", zap.Error(err))
		return 1
	}

	if *showMetrics {
		if err := writeMetrics(stdout, reg); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}

// writeMetrics writes every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	if c, ok := enc.(expfmt.Closer); ok {
		return c.Close()
	}
	return nil
}
