package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	p, err := getProvider()
	if err != nil {
		log.Fatal(err)
	}

	privateKey, err := p.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(accountPath, 0700); err != nil {
		log.Fatal(err)
	}

	path := getPrivateKeyPath(p)
	if err := p.SaveKey(path, privateKey); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Key written to:", path)
}
