package cmd

import (
	"bytes"
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	url     string
	to      []string
	amounts []uint
)

type submitTx struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature"`
}

type submitRequest struct {
	Transactions []submitTx `json:"transactions"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a batch of transfers and submit them as one block",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := getProvider()
		if err != nil {
			log.Fatal(err)
		}

		privateKey, err := p.LoadKey(getPrivateKeyPath(p))
		if err != nil {
			log.Fatal(err)
		}

		ns, err := nameservice.New(p, accountPath)
		if err != nil {
			log.Fatal(err)
		}

		req, err := buildRequest(p, ns, privateKey, to, amounts)
		if err != nil {
			log.Fatal(err)
		}

		if err := sendRequest(req); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringSliceVarP(&to, "to", "t", nil, "Recipient name or identity, repeat for a batch.")
	sendCmd.Flags().UintSliceVarP(&amounts, "amount", "v", nil, "Amount to send, one per recipient.")
}

// buildRequest signs one transfer per recipient. Recipients found in the
// name service resolve to their key handle, anything else is sent as is.
func buildRequest(p signature.Provider, ns *nameservice.NameService, privateKey crypto.Signer, to []string, amounts []uint) (submitRequest, error) {
	if len(to) == 0 || len(to) != len(amounts) {
		return submitRequest{}, errors.New("every recipient needs exactly one amount")
	}

	from, err := database.NewKeyHandle(p, privateKey.Public())
	if err != nil {
		return submitRequest{}, err
	}

	var req submitRequest
	for i, recipient := range to {
		var toID database.Identity = database.ToIdentity(p, recipient)
		if kh, exists := ns.Identity(recipient); exists {
			toID = kh
		}

		tx := database.NewTx(from, toID, uint64(amounts[i]))
		if err := tx.Sign(p, privateKey); err != nil {
			return submitRequest{}, err
		}

		req.Transactions = append(req.Transactions, submitTx{
			From:      from.String(),
			To:        toID.String(),
			Amount:    tx.Amount,
			Signature: hexutil.Encode(tx.Signature),
		})
	}

	return req, nil
}

func sendRequest(req submitRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("node responded %s: %s", resp.Status, body)
	}

	fmt.Println(string(body))

	return nil
}
