package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestLookup(t *testing.T) {
	t.Log("Given the need to name the identities in a key folder.")
	{
		p := signature.NewSecp256k1()
		root := t.TempDir()

		key, err := p.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}
		if err := p.SaveKey(filepath.Join(root, "alice"+p.KeyExt()), key); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %v", failed, err)
		}
		if err := os.WriteFile(filepath.Join(root, "README"), []byte("not a key"), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write a stray file: %v", failed, err)
		}

		ns, err := nameservice.New(p, root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build the name service: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to build the name service.", success)

		alice, err := database.NewKeyHandle(p, key.Public())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a key handle: %v", failed, err)
		}

		if name := ns.Lookup(alice); name != "alice" {
			t.Fatalf("\t%s\tShould find alice: got %q", failed, name)
		}
		t.Logf("\t%s\tShould find alice.", success)

		if name := ns.Lookup(database.NetworkLabel); name != "Network" {
			t.Fatalf("\t%s\tShould return unknown identities as is: got %q", failed, name)
		}
		t.Logf("\t%s\tShould return unknown identities as is.", success)

		kh, exists := ns.Identity("alice")
		if !exists || kh.String() != alice.String() {
			t.Fatalf("\t%s\tShould find the identity by name.", failed)
		}
		t.Logf("\t%s\tShould find the identity by name.", success)

		if n := len(ns.Copy()); n != 1 {
			t.Fatalf("\t%s\tShould hold 1 name: got %d", failed, n)
		}
		t.Logf("\t%s\tShould hold 1 name.", success)
	}
}
