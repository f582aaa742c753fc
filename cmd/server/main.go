// Command server serves the minimax agent over HTTP and websockets.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	listen := fs.String("listen", ":8080", "HTTP listen address")
	configPath := fs.String("config", "", "Agent YAML config (optional)")
	name := fs.String("name", "", "Agent name (overrides config)")
	depth := fs.Int("depth", -1, "Search depth (overrides config when >= 0)")
	pruning := fs.Bool("pruning", true, "Use alpha-beta pruning")
	verbose := fs.Bool("verbose", false, "Log every move")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	cfg := agent.DefaultConfig()
	if *configPath != "" {
		loaded, err := agent.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *depth >= 0 {
		cfg.Depth = *depth
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pruning":
			cfg.Pruning = *pruning
		case "verbose":
			cfg.Verbose = *verbose
		}
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := server.New(cfg, reg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	log.Printf("Agent %s: depth=%d pruning=%v", cfg.Name, cfg.Depth, cfg.Pruning)
	log.Fatal(srv.ListenAndServe(*listen))
}
