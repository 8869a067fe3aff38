package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/commands"
	"labour/backend/internal/pkg/config"
	"labour/backend/internal/pkg/repository/postgresql"
	"labour/backend/internal/router"
)

func main() {
	log := log.New(os.Stdout, "LABOUR : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Println("main: error:", err)
			os.Exit(1)
		}
	}
}

func run(log *log.Logger) error {
	var cfg struct {
		conf.Version
		Web struct {
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			ReadTimeout     time.Duration `conf:"default:10s"`
			WriteTimeout    time.Duration `conf:"default:30s"`
			ShutdownTimeout time.Duration `conf:"default:10s"`
		}
		ConfigPath string `conf:"default:config.yaml"`
		EnvPath    string `conf:"default:.env"`
		Debug      bool   `conf:"default:false"`
		Args       conf.Args
	}
	cfg.Version.SVN = "1.0.0"
	cfg.Version.Desc = "construction site labour attendance and wages"

	if err := conf.Parse(os.Args[1:], "LABOUR", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("LABOUR", &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("LABOUR", &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing config")
	}

	if err := config.LoadEnv(cfg.EnvPath); err != nil {
		return err
	}
	appCfg, err := config.NewConfig(cfg.ConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := postgresql.New(ctx, postgresql.Config{
		User:       appCfg.DBUsername,
		Password:   appCfg.DBPassword,
		Host:       appCfg.DBHost,
		Port:       appCfg.DBPort,
		Name:       appCfg.DBName,
		DisableTLS: appCfg.DisableTLS,
		Debug:      cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	switch cfg.Args.Num(0) {
	case "migrate":
		if err := commands.MigrateUP(ctx, db); err != nil {
			return err
		}
		return commands.SeedSuperAdmin(ctx, db, appCfg.SuperAdminUsername, appCfg.SuperAdminPassword)
	case "", "serve":
	default:
		return errors.Errorf("unknown command %q, expected migrate or serve", cfg.Args.Num(0))
	}

	// A missing redis address leaves the wage cache disabled.
	var redisDB *redis.Client
	if appCfg.RedisAddr != "" {
		redisDB = redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		defer redisDB.Close()

		if err := redisDB.Ping(ctx).Err(); err != nil {
			log.Printf("main: redis unavailable, continuing without cache: %v", err)
		}
	}

	tokens, err := auth.New(appCfg.JWTKey, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	app := web.NewApp(log)
	router.NewRouter(app, db, redisDB, tokens, appCfg, log).Init()

	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("main: API listening on %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		log.Printf("main: %v : start shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}

	return nil
}
