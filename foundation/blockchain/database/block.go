package database

import (
	"context"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// MaxDifficulty is the largest difficulty that can be solved, since a hex
// encoded sha256 hash has 64 characters.
const MaxDifficulty = 64

// cancelCheckInterval represents the number of nonce attempts between
// checks for a cancelled mining operation.
const cancelCheckInterval = 1_024

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Number        uint64 // Zero based position of the block in the chain.
	TimeStamp     uint64 // Unix time in milliseconds the block was constructed.
	Trans         []Tx   // Order is significant since it is hashed.
	PrevBlockHash string // Hash of the previous block in the chain.
	Difficulty    uint   // Number of leading zeros the hash was mined to.
	Nonce         uint64 // Value identified to solve the hash solution.
	Hash          string // Hash of this block once mined.
}

// NewBlock constructs a block with a zero nonce and a provisional hash. The
// block takes its own copy of the transactions.
func NewBlock(number uint64, timeStamp time.Time, trans []Tx, prevBlockHash string) Block {
	nb := Block{
		Number:        number,
		TimeStamp:     uint64(timeStamp.UTC().UnixMilli()),
		Trans:         append([]Tx(nil), trans...),
		PrevBlockHash: prevBlockHash,
		Nonce:         0,
	}
	nb.Hash = nb.ComputeHash()

	return nb
}

// NewGenesisBlock constructs the first block of a chain. The genesis block
// is never mined and is accepted with whatever hash it produces.
func NewGenesisBlock(timeStamp time.Time) Block {
	return NewBlock(0, timeStamp, []Tx{NewGenesisTx()}, signature.ZeroHash)
}

// ComputeHash returns the hash of the block fields as they are right now.
func (b Block) ComputeHash() string {
	return signature.Hash(b.hashData())
}

// Mine performs the work of finding a nonce that produces a hash with the
// specified number of leading zeros. The difficulty is recorded on the block
// and hashed with it. The nonce is only ever incremented. The search can be
// cancelled through the context.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]", b.Number, difficulty)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Number)

	b.Difficulty = difficulty

	// The canonical strings of the transactions don't change while mining
	// so they are only computed once.
	data := b.hashData()

	var attempts uint64
	for {
		data.Nonce = b.Nonce
		hash := signature.Hash(data)
		if isHashSolved(difficulty, hash) {
			b.Hash = hash
			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PrevBlockHash, hash, attempts+1)
			return nil
		}

		attempts++
		if attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
			return ctx.Err()
		}

		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		b.Nonce++
	}
}

// ValidateBlock takes a block and validates it against the previous block
// in the chain.
func (b Block) ValidateBlock(p signature.Provider, previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash matches block data", b.Number)

	if hash := b.ComputeHash(); hash != b.Hash {
		return newValidationError(ReasonBadHash, b.Number, -1, "stored hash %s, computed hash %s", b.Hash, hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Number)

	if nextNumber := previousBlock.Number + 1; b.Number != nextNumber {
		return newValidationError(ReasonBadLinkage, b.Number, -1, "this block is not the next number, got %d, exp %d", b.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Number)

	if b.PrevBlockHash != previousBlock.Hash {
		return newValidationError(ReasonBadLinkage, b.Number, -1, "parent block hash doesn't match our known parent, got %s, exp %s", b.PrevBlockHash, previousBlock.Hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: transactions are signed", b.Number)

	for i, tx := range b.Trans {
		switch {
		case tx.Kind == Genesis:
			return newValidationError(ReasonBadTransaction, b.Number, i, "genesis transaction outside the genesis block")

		case tx.Kind == Reward && (i != len(b.Trans)-1 || tx.From != NetworkLabel):
			return newValidationError(ReasonBadTransaction, b.Number, i, "reward transaction must be the last transaction and come from the network")
		}

		if err := tx.Validate(p); err != nil {
			return &ValidationError{Reason: ReasonBadTransaction, Block: b.Number, Tx: i, Err: err}
		}
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: hash solves difficulty[%d]", b.Number, b.Difficulty)

	if b.Difficulty < 1 || !isHashSolved(b.Difficulty, b.Hash) {
		return newValidationError(ReasonBadHash, b.Number, -1, "hash %s does not solve difficulty %d", b.Hash, b.Difficulty)
	}

	return nil
}

// =============================================================================

// hashData represents the fields of the block that are hashed.
type hashData struct {
	Number        uint64   `json:"number"`
	TimeStamp     uint64   `json:"timestamp"`
	Trans         []string `json:"trans"`
	PrevBlockHash string   `json:"prev_block_hash"`
	Difficulty    uint     `json:"difficulty"`
	Nonce         uint64   `json:"nonce"`
}

// hashData returns the hash input for the block.
func (b Block) hashData() hashData {
	trans := make([]string, len(b.Trans))
	for i, tx := range b.Trans {
		trans[i] = tx.String()
	}

	return hashData{
		Number:        b.Number,
		TimeStamp:     b.TimeStamp,
		Trans:         trans,
		PrevBlockHash: b.PrevBlockHash,
		Difficulty:    b.Difficulty,
		Nonce:         b.Nonce,
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if len(hash) != len(match) || difficulty > MaxDifficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
