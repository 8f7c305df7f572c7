// This program runs two independent ledgers at the same time and prints
// the chains they build.
package main

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("DEMO")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("demo", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Difficulty uint          `conf:"default:2"`
		Timeout    time.Duration `conf:"default:1m"`
		Empty      struct {
			Provider string `conf:"default:secp256k1"`
			Blocks   int    `conf:"default:2"`
		}
		Transfers struct {
			Provider string `conf:"default:rsa-pss"`
			Tamper   bool   `conf:"default:false"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "runs two independent ledgers concurrently",
		},
	}

	const prefix = "DEMO"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	// =========================================================================
	// Run both chains

	gen := genesis.Default()
	gen.Difficulty = cfg.Difficulty

	runs := []func() error{
		func() error {
			return runEmpty(ctx, log.With("chain", 1), gen, cfg.Empty.Provider, cfg.Empty.Blocks)
		},
		func() error {
			return runTransfers(ctx, log.With("chain", 2), gen, cfg.Transfers.Provider, cfg.Transfers.Tamper)
		},
	}

	var wg sync.WaitGroup
	wg.Add(len(runs))

	errs := make([]error, len(runs))
	for i, fn := range runs {
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Infow("demo", "status", "both chains executed concurrently")

	return nil
}

// newChain constructs a chain that logs its events.
func newChain(log *zap.SugaredLogger, gen genesis.Genesis, providerName string) (*state.State, error) {
	p, err := signature.New(providerName)
	if err != nil {
		return nil, err
	}

	return state.New(state.Config{
		Genesis:   gen,
		Provider:  p,
		EvHandler: logger.EventHandler(log, "00000000-0000-0000-0000-000000000000"),
	})
}

// runEmpty mines blocks holding only the mining reward.
func runEmpty(ctx context.Context, log *zap.SugaredLogger, gen genesis.Genesis, providerName string, blocks int) error {
	st, err := newChain(log, gen, providerName)
	if err != nil {
		return fmt.Errorf("chain 1: %w", err)
	}
	defer st.Shutdown()

	for range blocks {
		if _, err := st.AddBlock(ctx, nil); err != nil {
			return fmt.Errorf("chain 1: %w", err)
		}
		st.AdjustDifficulty()
	}

	printChain(log, st)

	return nil
}

// runTransfers mines a block with two signed transfers between four parties.
func runTransfers(ctx context.Context, log *zap.SugaredLogger, gen genesis.Genesis, providerName string, tamper bool) error {
	st, err := newChain(log, gen, providerName)
	if err != nil {
		return fmt.Errorf("chain 2: %w", err)
	}
	defer st.Shutdown()

	p := st.RetrieveProvider()

	parties := make(map[string]crypto.Signer)
	handles := make(map[string]database.KeyHandle)
	for _, name := range []string{"Alice", "Bob", "Charlie", "Dave"} {
		key, err := p.GenerateKey()
		if err != nil {
			return fmt.Errorf("chain 2: generating key for %s: %w", name, err)
		}

		kh, err := database.NewKeyHandle(p, key.Public())
		if err != nil {
			return fmt.Errorf("chain 2: %w", err)
		}

		parties[name] = key
		handles[name] = kh
	}

	transfers := []struct {
		from   string
		to     string
		amount uint64
	}{
		{"Alice", "Bob", 50},
		{"Charlie", "Dave", 25},
	}

	trans := make([]database.Tx, len(transfers))
	for i, tr := range transfers {
		tx := database.NewTx(handles[tr.from], handles[tr.to], tr.amount)
		if err := tx.Sign(p, parties[tr.from]); err != nil {
			return fmt.Errorf("chain 2: signing %s transfer: %w", tr.from, err)
		}

		log.Infow("transfer", "from", tr.from, "to", tr.to, "amount", tr.amount, "verified", tx.IsValid(p))
		trans[i] = tx
	}

	if _, err := st.AddBlock(ctx, trans); err != nil {
		return fmt.Errorf("chain 2: %w", err)
	}

	printChain(log, st)

	if tamper {
		blocks := st.RetrieveBlocks()
		blocks[1].Trans = append([]database.Tx(nil), blocks[1].Trans...)
		blocks[1].Trans[0].Amount = 5_000

		err := database.ValidateChain(p, blocks, nil)
		log.Infow("tamper", "amount", 5_000, "valid", err == nil, "reason", err)
	}

	return nil
}

// printChain logs every block with its transactions.
func printChain(log *zap.SugaredLogger, st *state.State) {
	for _, blk := range st.RetrieveBlocks() {
		log.Infow("block", "number", blk.Number, "hash", blk.Hash, "prev", blk.PrevBlockHash, "difficulty", blk.Difficulty, "nonce", blk.Nonce)
		for _, tx := range blk.Trans {
			log.Infow("tx", "number", blk.Number, "kind", tx.Kind, "amount", tx.Amount, "to", short(tx.To.String()))
		}
	}

	log.Infow("chain", "valid", st.IsChainValid(), "length", len(st.RetrieveBlocks()), "difficulty", st.RetrieveDifficulty())
}

// short trims long key encodings for display.
func short(s string) string {
	const width = 24
	if len(s) <= width {
		return s
	}
	return s[:width] + "..."
}
