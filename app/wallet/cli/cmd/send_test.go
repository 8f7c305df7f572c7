package cmd

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestBuildRequest(t *testing.T) {
	t.Log("Given the need to sign a batch of transfers in the wallet.")
	{
		p := signature.NewSecp256k1()
		root := t.TempDir()

		bobKey, err := p.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}
		if err := p.SaveKey(filepath.Join(root, "bob"+p.KeyExt()), bobKey); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %v", failed, err)
		}

		ns, err := nameservice.New(p, root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build the name service: %v", failed, err)
		}

		aliceKey, err := p.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}

		req, err := buildRequest(p, ns, aliceKey, []string{"bob", "Dave"}, []uint{50, 25})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build the request: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to build the request.", success)

		bob, _ := ns.Identity("bob")
		if req.Transactions[0].To != bob.String() || req.Transactions[1].To != "Dave" {
			t.Fatalf("\t%s\tShould resolve known names only: %+v", failed, req.Transactions)
		}
		t.Logf("\t%s\tShould resolve known names only.", success)

		for i, st := range req.Transactions {
			from, err := database.ToKeyHandle(p, st.From)
			if err != nil {
				t.Fatalf("\t%s\tShould send a decodable sender: %v", failed, err)
			}

			sig, err := hexutil.Decode(st.Signature)
			if err != nil {
				t.Fatalf("\t%s\tShould send a hex signature: %v", failed, err)
			}

			tx := database.NewTx(from, database.ToIdentity(p, st.To), st.Amount)
			tx.Signature = sig

			if err := tx.Validate(p); err != nil {
				t.Fatalf("\t%s\tShould sign transfer %d so the node can verify it: %v", failed, i, err)
			}
		}
		t.Logf("\t%s\tShould sign every transfer so the node can verify it.", success)

		if _, err := buildRequest(p, ns, aliceKey, []string{"bob"}, nil); err == nil {
			t.Fatalf("\t%s\tShould require an amount per recipient.", failed)
		}
		t.Logf("\t%s\tShould require an amount per recipient.", success)
	}
}
