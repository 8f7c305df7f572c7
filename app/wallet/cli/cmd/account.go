package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the identity for the specific wallet",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) {
	p, err := getProvider()
	if err != nil {
		log.Fatal(err)
	}

	privateKey, err := p.LoadKey(getPrivateKeyPath(p))
	if err != nil {
		log.Fatal(err)
	}

	kh, err := database.NewKeyHandle(p, privateKey.Public())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(kh)
}
