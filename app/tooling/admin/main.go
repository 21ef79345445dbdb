// This program performs administrative tasks against the block snapshot
// of a node that is not running.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/datacoin-network/datacoin/app/tooling/admin/commands"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/boltdb"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/disk"
	"github.com/datacoin-network/datacoin/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		Storage     string `conf:"default:disk"`
		StoragePath string `conf:"default:zblock/blocks"`
		GenesisPath string `conf:"default:zblock/genesis.json"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// Rebuild the chain from the snapshot. The restore re-validates
	// every hash and link, so a corrupt snapshot fails right here.
	ledger, err := loadLedger(cfg.Storage, cfg.StoragePath, cfg.GenesisPath)
	if err != nil {
		return err
	}

	return processCommands(cfg.Args, ledger)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, ledger *chain.Chain) error {
	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(args, ledger); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}

	case "trans":
		if err := commands.Transactions(args, ledger); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}

	case "validate":
		if err := commands.Validate(ledger); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}

	case "stats":
		if err := commands.Stats(ledger); err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

	default:
		fmt.Println("bals:     show derived balances, optionally for one account")
		fmt.Println("trans:    show sealed transactions, optionally for one account")
		fmt.Println("validate: re-check every hash and link in the snapshot")
		fmt.Println("stats:    show chain statistics")
		return errors.New("no command provided")
	}

	return nil
}

// loadLedger reconstructs the chain from the snapshot store.
func loadLedger(kind string, path string, genesisPath string) (*chain.Chain, error) {
	var strg storage.Serializer
	var err error
	switch kind {
	case "disk":
		strg, err = disk.New(path)
	case "bolt":
		strg, err = boltdb.New(path + ".db")
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open block storage: %w", err)
	}
	defer strg.Close()

	blocks, err := storage.ReadAll(strg)
	if err != nil {
		return nil, fmt.Errorf("unable to read block storage: %w", err)
	}

	gen, err := genesis.Load(genesisPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to load genesis: %w", err)
		}
		gen = genesis.Default()
	}

	ledger, err := chain.New(chain.Config{
		Genesis: gen,
		Blocks:  blocks,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to construct chain: %w", err)
	}

	return ledger, nil
}
