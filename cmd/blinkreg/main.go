package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/asdine/storm/v3/codec"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/blinkreg/internal/database"
	"github.com/mdouchement/blinkreg/internal/logger"
	"github.com/mdouchement/blinkreg/internal/server"
	"github.com/mdouchement/blinkreg/internal/service"
	"github.com/mdouchement/blinkreg/pkg/stormcodec"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

const dbname = "blinkreg.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

var defaults = map[string]any{
	"address":                       "localhost:5000",
	"database_codec":                stormcodec.MsgPack,
	"log.level":                     "info",
	"signature.max_clock_skew":      "5m",
	"blink.strict_types":            true,
	"compression.default_max_depth": 14,
	"compression.strict_replace":    false,
	"solana.verify_mint":            false,
	"solana.rpc_endpoint":           "https://api.devnet.solana.com",
}

func main() {
	c := &coral.Command{
		Use:     "blinkreg",
		Short:   "Blink and compressed NFT registry server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")
	if err := konf.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}
	if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
		return nil, err
	}
	return konf, nil
}

func storage(konf *koanf.Koanf) (string, codec.MarshalUnmarshaler, error) {
	c, err := stormcodec.Lookup(konf.String("database_codec"))
	if err != nil {
		return "", nil, err
	}
	return dbnameWithPath(konf.String("database_path")), c, nil
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			filename, c, err := storage(konf)
			if err != nil {
				return err
			}
			return database.StormInit(filename, c)
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			filename, c, err := storage(konf)
			if err != nil {
				return err
			}
			return database.StormReIndex(filename, c)
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			logs, err := logger.New(logger.Config{
				Level:    konf.String("log.level"),
				Filename: konf.String("log.file"),
			})
			if err != nil {
				return err
			}

			skew, err := time.ParseDuration(konf.String("signature.max_clock_skew"))
			if err != nil {
				return errors.Wrap(err, "signature.max_clock_skew")
			}

			depth := konf.Int("compression.default_max_depth")
			if depth < 1 {
				return errors.Errorf("compression.default_max_depth must be positive: %d", depth)
			}

			mints := service.NewSyntaxMintVerifier()
			if konf.Bool("solana.verify_mint") {
				mints = service.NewRPCMintVerifier(konf.String("solana.rpc_endpoint"))
				logs.WithField("endpoint", konf.String("solana.rpc_endpoint")).Info("Mint accounts are verified")
			}

			filename, c, err := storage(konf)
			if err != nil {
				return err
			}
			db, err := database.StormOpen(filename, c)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.Controller{
				Version:         version,
				Database:        db,
				Logger:          logs,
				MaxClockSkew:    skew,
				StrictTypes:     konf.Bool("blink.strict_types"),
				Mints:           mints,
				StrictReplace:   konf.Bool("compression.strict_replace"),
				DefaultMaxDepth: uint32(depth),
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			logs.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					logs.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
