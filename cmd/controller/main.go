package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/persona-harness/internal/config"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/logging"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
	"github.com/danielpatrickdp/persona-harness/internal/projection"
	"github.com/danielpatrickdp/persona-harness/internal/state"
)

const (
	session      = "cli"
	turnTimeout  = 60 * time.Second
	apologyReply = "Ah, it seems something went amiss. Shall we try again?"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if path := os.Getenv("PERSONA_CONFIG"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
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

	settings, err := projection.NewSettingsStore(store.DB())
	if err != nil {
		log.Fatalf("failed to open settings: %v", err)
	}
	depth, topics := projection.DefaultDepth, []projection.Topic(nil)
	if saved, err := settings.Load(session); err != nil {
		log.Printf("[CTRL] %v", err)
	} else if saved != nil {
		depth, topics = saved.Depth, saved.Topics
	}

	fmt.Println("Persona chat ready.")
	fmt.Printf("  DB: %s | Generator: %s | Depth: %s\n", cfg.DBPath, cfg.GeneratorLabel(), depth)
	fmt.Println("Type a message, /depth <level>, /topics <a,b>, or 'quit' to exit:")

	scanner := bufio.NewScanner(os.Stdin)
	var history []dialogue.Message

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if strings.HasPrefix(line, "/") {
			d, t, err := applyCommand(line, depth, topics)
			if err != nil {
				fmt.Println(err)
				continue
			}
			depth, topics = d, t
			if err := settings.Save(session, depth, topics); err != nil {
				log.Printf("[CTRL] %v", err)
			}
			fmt.Printf("depth=%s topics=%v\n", depth, topics)
			continue
		}

		history = dialogue.Append(history, dialogue.User(line))
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		res, err := orch.Turn(ctx, orchestrator.TurnRequest{
			Session: session,
			History: history,
			Depth:   depth,
			Topics:  topics,
		}, nil)
		cancel()
		if err != nil {
			log.Printf("[CTRL] turn error: %v", err)
			fmt.Printf("\n%s\n\n", apologyReply)
			history = history[:len(history)-1]
			continue
		}

		history = dialogue.Append(history, dialogue.Assistant(res.Raw))
		fmt.Printf("\n%s\n\n", res.Response)
		fmt.Printf("[%s] category=%s score=%d/%d pass=%v\n",
			res.TurnID[:8], res.Prompt.Match.Category, res.Score.Score, eval.MaxScore, res.Score.FinalPass)
	}
}
// #endregion main

// #region commands
func applyCommand(line string, depth projection.Depth, topics []projection.Topic) (projection.Depth, []projection.Topic, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/depth":
		d, err := projection.ParseDepth(arg)
		if err != nil {
			return depth, topics, err
		}
		return d, topics, nil
	case "/topics":
		if arg == "" {
			return depth, nil, nil
		}
		t, err := projection.ParseTopics(strings.Split(arg, ","))
		if err != nil {
			return depth, topics, err
		}
		return depth, t, nil
	}
	return depth, topics, fmt.Errorf("unknown command %s", name)
}
// #endregion commands
