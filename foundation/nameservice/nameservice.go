// Package nameservice reads a folder of key files and creates a name
// service lookup for the identities they hold.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// NameService maintains a map of identities for name lookup.
type NameService struct {
	names      map[string]string
	identities map[string]database.KeyHandle
}

// New constructs a name service with the key files from the root folder
// the provider understands. The file name without extension is the name.
// A missing folder produces an empty name service.
func New(p signature.Provider, root string) (*NameService, error) {
	ns := NameService{
		names:      make(map[string]string),
		identities: make(map[string]database.KeyHandle),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != p.KeyExt() {
			return nil
		}

		privateKey, err := p.LoadKey(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		kh, err := database.NewKeyHandle(p, privateKey.Public())
		if err != nil {
			return fmt.Errorf("encoding %s: %w", fileName, err)
		}

		name := strings.TrimSuffix(filepath.Base(fileName), p.KeyExt())
		ns.names[kh.String()] = name
		ns.identities[name] = kh

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified identity. Unknown identities
// are returned as is.
func (ns *NameService) Lookup(id database.Identity) string {
	if id == nil {
		return ""
	}

	name, exists := ns.names[id.String()]
	if !exists {
		return id.String()
	}
	return name
}

// Identity returns the key handle registered under the name.
func (ns *NameService) Identity(name string) (database.KeyHandle, bool) {
	kh, exists := ns.identities[name]
	return kh, exists
}

// Copy returns a copy of the map of identities and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for id, name := range ns.names {
		cpy[id] = name
	}
	return cpy
}
