package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/danielpatrickdp/persona-harness/internal/api"
	"github.com/danielpatrickdp/persona-harness/internal/bus"
	"github.com/danielpatrickdp/persona-harness/internal/config"
	"github.com/danielpatrickdp/persona-harness/internal/logging"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
	"github.com/danielpatrickdp/persona-harness/internal/state"
)

// #region main

func main() {
	configPath := flag.String("config", os.Getenv("PERSONA_CONFIG"), "TOML config file layered over the environment")
	port := flag.Int("port", 0, "override the API port")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *configPath != "" {
		if err := config.LoadFile(*configPath, &cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *port > 0 {
		cfg.APIPort = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	defer logging.Setup(cfg.LogFile).Close()

	store, err := state.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	gen, closeGen, err := cfg.NewGenerator()
	if err != nil {
		log.Fatalf("failed to create generator: %v", err)
	}
	defer closeGen()

	ocfg := orchestrator.DefaultConfig()
	ocfg.StyleDisabled = cfg.PersonaDisabled
	orch, err := orchestrator.NewOrchestrator(store.DB(), gen, ocfg)
	if err != nil {
		log.Fatalf("failed to create orchestrator: %v", err)
	}

	pub, err := bus.Connect(context.Background(), cfg.NATSURL, cfg.NATSToken)
	if err != nil {
		log.Printf("[BUS] verdict publishing disabled: %v", err)
		pub = bus.Nop{}
	}
	defer pub.Close()

	log.Printf("[SERVER] generator=%s db=%s style=%v", cfg.GeneratorLabel(), cfg.DBPath, orch.StyleEnabled())
	srv := api.NewServer(cfg.APIPort, orch, pub, cfg.CORSOrigins)
	if err := srv.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// #endregion main
