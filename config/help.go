package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
SignMe backend

Usage:
  signme [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this message

Configuration is read from the yaml file and the environment; environment
variables win. See config.yaml for the full list.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig dumps the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	fmt.Printf("server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("database: %s@%s:%s/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Printf("store: timeout=%s workers=%d\n", cfg.Store.QueryTimeout, cfg.Store.WorkerPoolSize)
	fmt.Printf("rabbitmq: enabled=%t host=%s:%s\n", cfg.RabbitMQ.Enabled, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	fmt.Printf("migrations: enabled=%t\n", cfg.Migrations.Enabled)
}
