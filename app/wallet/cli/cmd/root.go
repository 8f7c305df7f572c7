// Package cmd contains wallet app
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	accountName  string
	accountPath  string
	providerName string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "s", signature.RSAPSSName, "Signature provider: rsa-pss or secp256k1.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Simple wallet for the ledger",
}

// Execute runs the wallet command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getProvider() (signature.Provider, error) {
	p, err := signature.New(providerName)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", providerName, err)
	}
	return p, nil
}

func getPrivateKeyPath(p signature.Provider) string {
	name := accountName
	if !strings.HasSuffix(name, p.KeyExt()) {
		name += p.KeyExt()
	}

	return filepath.Join(accountPath, name)
}
