package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrInvalidTransaction is returned when a transaction submitted for a new
// block would break the integrity of the chain.
var ErrInvalidTransaction = errors.New("invalid transaction")

// =============================================================================

// AddBlock selects a miner, appends the mining reward to the transactions,
// and mines a new block on top of the latest block. The block is added to
// the chain only once the proof of work is solved. Calls are serialized so
// the latest block can't change while mining. Mining can be cancelled
// through the context.
func (s *State) AddBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.evHandler("state: AddBlock: MINING: validate transactions: Txs[%d]", len(trans))

	for i, tx := range trans {
		if tx.Kind != database.Transfer {
			return database.Block{}, fmt.Errorf("%w: tx[%d]: %s transactions are system generated", ErrInvalidTransaction, i, tx.Kind)
		}

		if err := tx.Validate(s.provider); err != nil {
			return database.Block{}, fmt.Errorf("%w: tx[%d]: %w", ErrInvalidTransaction, i, err)
		}
	}

	s.evHandler("state: AddBlock: MINING: select miner")

	miner, err := s.SelectMiner()
	if err != nil {
		return database.Block{}, fmt.Errorf("selecting miner: %w", err)
	}

	s.evHandler("state: AddBlock: MINING: selected miner[%s]", miner)

	// The reward goes last so the caller's order is preserved. The caller's
	// slice is never appended to.
	blockTrans := make([]database.Tx, 0, len(trans)+1)
	blockTrans = append(blockTrans, trans...)
	blockTrans = append(blockTrans, database.NewRewardTx(database.Label(miner), s.genesis.MiningReward))

	latestBlock := s.RetrieveLatestBlock()
	difficulty := s.RetrieveDifficulty()

	nb := database.NewBlock(latestBlock.Number+1, s.now(), blockTrans, latestBlock.Hash)

	s.evHandler("state: AddBlock: MINING: perform POW")

	if err := nb.Mine(ctx, difficulty, s.evHandler); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: AddBlock: MINING: update local state: blk[%d]", nb.Number)

	s.mu.Lock()
	{
		s.blocks = append(s.blocks, nb)
	}
	s.mu.Unlock()

	s.evHandler("viewer: block: blk[%d]: hash[%s]: miner[%s]: Txs[%d]", nb.Number, nb.Hash, miner, len(nb.Trans))

	return nb, nil
}

// SelectMiner picks the miner of the next block with a probability
// proportional to stake.
func (s *State) SelectMiner() (string, error) {
	return s.stakes.Select(s.rand)
}
