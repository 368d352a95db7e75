package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cmdchan/internal/config"
	"cmdchan/internal/daemonrun"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	interfaceFlag := flag.String("interface", "", "logical interface name override")
	logLevelFlag := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *interfaceFlag != "" {
		cfg.Daemon.Interface = *interfaceFlag
	}

	opts := daemonrun.Options{LogLevel: *logLevelFlag}
	if err := daemonrun.Run(context.Background(), cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
