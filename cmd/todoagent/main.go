package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/Joseda-hg/todoagent/internal/agent"
	"github.com/Joseda-hg/todoagent/internal/config"
	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/dispatch"
	"github.com/Joseda-hg/todoagent/internal/model"
	"github.com/Joseda-hg/todoagent/internal/reminder"
	"github.com/Joseda-hg/todoagent/internal/render"
	"github.com/Joseda-hg/todoagent/internal/web"
)

func main() {
	configDirFlag := flag.String("config", "", "config directory")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	webFlag := flag.Bool("web", false, "enable JSON API server")
	addrFlag := flag.String("addr", "", "JSON API listen address")
	pollFlag := flag.Int("poll", 0, "reminder poll interval in seconds")
	flag.Parse()

	cfgDir := *configDirFlag
	if cfgDir == "" {
		dir, err := config.DefaultConfigDir()
		if err != nil {
			log.Fatal(err)
		}
		cfgDir = dir
	}

	cfg, err := config.Load(cfgDir)
	if err != nil {
		log.Fatal(err)
	}

	if *dbPathFlag != "" {
		cfg.DBPath = *dbPathFlag
	}
	if *webFlag {
		cfg.WebEnabled = true
	}
	if *addrFlag != "" {
		cfg.WebAddr = *addrFlag
	}
	if *pollFlag != 0 {
		cfg.PollSeconds = *pollFlag
	}

	logger := newLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	store := db.NewStore(sqlDB, loc)
	dispatcher := dispatch.New(store, loc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	poller := reminder.NewPoller(store, cfg.PollInterval(), func(f model.FiredReminder) {
		fmt.Println(render.Notification(f, loc))
	}, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	if cfg.WebEnabled {
		srv := &http.Server{Addr: cfg.WebAddr, Handler: web.NewServer(store).Handler()}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("json api listening", "addr", cfg.WebAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("json api server", "err", err)
			}
		}()
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
	}

	frontend := pickFrontend(cfg, dispatcher, logger)

	repl(ctx, frontend, logger)

	stop()
	wg.Wait()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// pickFrontend chooses the LLM front end when a credential is present,
// otherwise the deterministic local parser.
func pickFrontend(cfg config.Config, dispatcher *dispatch.Dispatcher, logger *slog.Logger) dispatch.Frontend {
	if cfg.OpenAIKey != "" {
		logger.Info("using model front end", "model", cfg.AgentModel)
		return agent.New(cfg.OpenAIKey, cfg.AgentModel, dispatcher, logger)
	}
	logger.Info("no api key configured, using local command parser")
	return &dispatch.LocalFrontend{Dispatcher: dispatcher}
}

func repl(ctx context.Context, frontend dispatch.Frontend, logger *slog.Logger) {
	fmt.Println("To-Do agent ready. Type 'help' for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("YOU: ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}

		reply, err := frontend.Handle(ctx, input)
		if err != nil {
			logger.Error("handle input", "err", err)
			fmt.Println("Something went wrong; try again.")
			continue
		}
		fmt.Println(reply)
	}
}
