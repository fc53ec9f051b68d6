// Package memory is an in-process key store indexed by key identity.
package memory

import (
	"sync"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
)

type Memory struct {
	mu   sync.RWMutex
	keys map[model.KeyID]*bec.PrivateKey
}

func New() *Memory {
	return &Memory{
		keys: make(map[model.KeyID]*bec.PrivateKey),
	}
}

// AddKey stores priv under the identity of its compressed public key and returns that identity.
func (m *Memory) AddKey(priv *bec.PrivateKey) (model.KeyID, error) {
	if priv == nil {
		return model.KeyID{}, errors.NewKeyInvalidError("nil private key")
	}

	keyID := model.KeyIDFromPubKey(priv.PubKey().Compressed())

	m.mu.Lock()
	m.keys[keyID] = priv
	m.mu.Unlock()

	return keyID, nil
}

func (m *Memory) GetKey(keyID model.KeyID) (*bec.PrivateKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	priv, ok := m.keys[keyID]
	if !ok {
		return nil, errors.NewKeyNotFoundError("key %s not found", keyID)
	}

	return priv, nil
}

func (m *Memory) HaveKey(keyID model.KeyID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.keys[keyID]

	return ok
}
