package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/datacoin-network/datacoin/app/services/node/handlers"
	"github.com/datacoin-network/datacoin/business/core/converter"
	"github.com/datacoin-network/datacoin/foundation/events"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/boltdb"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/disk"
	"github.com/datacoin-network/datacoin/foundation/ledger/storage/memory"
	"github.com/datacoin-network/datacoin/foundation/ledger/worker"
	"github.com/datacoin-network/datacoin/foundation/logger"
	"github.com/datacoin-network/datacoin/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
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

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		Ledger struct {
			Beneficiary       string        `conf:"default:miner1"`
			GenesisPath       string        `conf:"default:zblock/genesis.json"`
			Storage           string        `conf:"default:disk"`
			StoragePath       string        `conf:"default:zblock/blocks"`
			Policy            string        `conf:"default:ShareThreshold"`
			MiningInterval    time.Duration `conf:"default:30s"`
			VerifySubmissions bool          `conf:"default:false"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	fmt.Println(` ____    _  _____  _    ____ ___ ___ _   _   _   _  ___  ____  _____ `)
	fmt.Println(`|  _ \  / \|_   _|/ \  / ___/ _ \_ _| \ | | | \ | |/ _ \|  _ \| ____|`)
	fmt.Println(`| | | |/ _ \ | | / _ \| |  | | | | ||  \| | |  \| | | | | | | |  _|  `)
	fmt.Println(`| |_| / ___ \| |/ ___ \ |__| |_| | || |\  | | |\  | |_| | |_| | |___ `)
	fmt.Println(`|____/_/   \_\_/_/   \_\____\___/___|_| \_| |_| \_|\___/|____/|_____|`)
	fmt.Print("\n")

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for chain addresses.
	// The names come from the file names in the zblock/accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Ledger Support

	// Mining rewards go to the configured beneficiary. When a local wallet
	// exists under that name the derived address receives them, otherwise
	// the name itself is the address since the chain treats addresses as
	// opaque strings.
	beneficiary := cfg.Ledger.Beneficiary
	path := fmt.Sprintf("%s%s.ecdsa", cfg.NameService.Folder, cfg.Ledger.Beneficiary)
	if privateKey, err := crypto.LoadECDSA(path); err == nil {
		beneficiary = crypto.PubkeyToAddress(privateKey.PublicKey).String()
	}
	log.Infow("startup", "status", "beneficiary", "account", beneficiary)

	// The chain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Governance values come from the genesis file. A missing file means a
	// brand new node, which starts from the stock values and writes them
	// out so restarts and the tooling read the same governance.
	gen, err := genesis.Load(cfg.Ledger.GenesisPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("unable to load genesis: %w", err)
		}
		gen = genesis.Default()
		if err := genesis.Save(cfg.Ledger.GenesisPath, gen); err != nil {
			return fmt.Errorf("unable to write genesis file: %w", err)
		}
		log.Infow("startup", "status", "genesis file missing, defaults written", "path", cfg.Ledger.GenesisPath)
	}

	// Open the block snapshot store configured for this node.
	strg, err := openStorage(cfg.Ledger.Storage, cfg.Ledger.StoragePath)
	if err != nil {
		return fmt.Errorf("unable to open block storage: %w", err)
	}
	defer strg.Close()

	// Load any previously sealed blocks so the chain picks up where the
	// last run stopped. The restore re-validates every hash and link.
	blocks, err := storage.ReadAll(strg)
	if err != nil {
		return fmt.Errorf("unable to read block storage: %w", err)
	}
	log.Infow("startup", "status", "block storage open", "kind", cfg.Ledger.Storage, "blocks", len(blocks))

	ledger, err := chain.New(chain.Config{
		Genesis:   gen,
		Blocks:    blocks,
		Policy:    cfg.Ledger.Policy,
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("unable to construct chain: %w", err)
	}

	// A brand new chain needs its genesis block in the snapshot so a
	// restart restores the identical chain.
	if len(blocks) == 0 {
		if err := strg.Write(ledger.RetrieveLatestBlock()); err != nil {
			return fmt.Errorf("unable to snapshot genesis block: %w", err)
		}
	}

	// The worker package owns the background mining goroutine. Every block
	// it seals is snapshotted to storage before the next round can start.
	wrkr := worker.Run(worker.Config{
		Chain:       ledger,
		Storage:     strg,
		Beneficiary: beneficiary,
		Interval:    cfg.Ledger.MiningInterval,
		EvHandler:   ev,
	})
	defer wrkr.Shutdown()

	// =========================================================================
	// Data Conversion Support

	// The converter collects internet data and mints currency for it. The
	// demonstration sources are registered so the node converts out of the
	// box; operators add their own through the API.
	cnv := converter.New(ledger, ev)
	for _, src := range converter.DefaultSources() {
		if err := cnv.AddSource(src); err != nil {
			return fmt.Errorf("unable to register source %q: %w", src.ID, err)
		}
	}
	defer cnv.StopAuto()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, ledger)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:  shutdown,
		Log:       log,
		Chain:     ledger,
		Worker:    wrkr,
		Converter: cnv,
		NS:        ns,
		Evts:      evts,
		Verify:    cfg.Ledger.VerifySubmissions,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct the mux for the private API calls.
	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Chain:    ledger,
		Worker:   wrkr,
		NS:       ns,
	})

	// Construct a server to service the requests against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// openStorage constructs the configured block snapshot store.
func openStorage(kind string, path string) (storage.Serializer, error) {
	switch kind {
	case "disk":
		return disk.New(path)
	case "bolt":
		return boltdb.New(path + ".db")
	case "memory":
		return memory.New()
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
