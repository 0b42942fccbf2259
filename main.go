package main

import (
	"fmt"
	"os"
)

// main mirrors original_source/redis.c's main(): zero arguments runs on
// defaults, one argument is a config file path, anything else is a usage
// error.
func main() {
	var configPath string
	switch len(os.Args) {
	case 1:
	case 2:
		configPath = os.Args[1]
	default:
		fmt.Fprintln(os.Stderr, "Usage: ./kvstored [/path/to/kvstored.conf]")
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := initServer(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Infow("the server is now ready to accept connections", "port", server.port)

	server.aeLoop.AddFileEvent(server.fd, AE_READABLE, AcceptHandler, nil)
	server.aeLoop.AeMain()
}
