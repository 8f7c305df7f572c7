package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type tx struct {
	Kind      string `json:"kind"`
	From      string `json:"from"`
	FromName  string `json:"from_name"`
	To        string `json:"to"`
	ToName    string `json:"to_name"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature"`
}

type block struct {
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Difficulty    uint   `json:"difficulty"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"trans"`
}

type stake struct {
	Name  string `json:"name"`
	Stake uint64 `json:"stake"`
}

type difficulty struct {
	Difficulty  uint   `json:"difficulty"`
	LatestBlock uint64 `json:"latest_block"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Block  uint64 `json:"block,omitempty"`
	Tx     *int   `json:"tx,omitempty"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================

// SubmitTx is a signed transfer sent by a wallet.
type SubmitTx struct {
	From      string `json:"from" validate:"required"`
	To        string `json:"to" validate:"required"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature" validate:"required"`
}

// SubmitRequest is a batch of signed transfers to mine into one block.
type SubmitRequest struct {
	Transactions []SubmitTx `json:"transactions" validate:"required,min=1,dive"`
}

// Validate checks the request is complete.
func (sr SubmitRequest) Validate() error {
	return validate.Check(sr)
}

// UpdateStake sets the stake held by a participant.
type UpdateStake struct {
	Name  string `json:"name" validate:"required"`
	Stake uint64 `json:"stake"`
}

// Validate checks the request is complete.
func (us UpdateStake) Validate() error {
	return validate.Check(us)
}

// toDatabaseTx converts a submitted transfer into a ledger transaction. The
// sender must be a public key the provider understands.
func toDatabaseTx(p signature.Provider, st SubmitTx) (database.Tx, error) {
	from, err := database.ToKeyHandle(p, st.From)
	if err != nil {
		return database.Tx{}, validate.FieldErrors{{Field: "from", Error: err.Error()}}
	}

	sig, err := hexutil.Decode(st.Signature)
	if err != nil {
		return database.Tx{}, validate.FieldErrors{{Field: "signature", Error: err.Error()}}
	}

	tx := database.NewTx(from, database.ToIdentity(p, st.To), st.Amount)
	tx.Signature = sig

	return tx, nil
}

// =============================================================================

func toTx(ns *nameservice.NameService, tran database.Tx) tx {
	return tx{
		Kind:      tran.Kind.String(),
		From:      tran.From.String(),
		FromName:  ns.Lookup(tran.From),
		To:        tran.To.String(),
		ToName:    ns.Lookup(tran.To),
		Amount:    tran.Amount,
		Signature: hexutil.Encode(tran.Signature),
	}
}

func toBlock(ns *nameservice.NameService, blk database.Block) block {
	trans := make([]tx, len(blk.Trans))
	for i, tran := range blk.Trans {
		trans[i] = toTx(ns, tran)
	}

	return block{
		Number:        blk.Number,
		TimeStamp:     blk.TimeStamp,
		PrevBlockHash: blk.PrevBlockHash,
		Difficulty:    blk.Difficulty,
		Nonce:         blk.Nonce,
		Hash:          blk.Hash,
		Trans:         trans,
	}
}

func toBlocks(ns *nameservice.NameService, blks []database.Block) []block {
	out := make([]block, len(blks))
	for i, blk := range blks {
		out[i] = toBlock(ns, blk)
	}
	return out
}

func toValidation(err error) validation {
	if err == nil {
		return validation{Valid: true}
	}

	ve := database.GetValidationError(err)
	if ve == nil {
		return validation{Error: err.Error()}
	}

	v := validation{
		Reason: string(ve.Reason),
		Block:  ve.Block,
		Error:  ve.Error(),
	}
	if ve.Tx >= 0 {
		v.Tx = &ve.Tx
	}

	return v
}
