package ethereum

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/Amr-9/luckyhunter/pkg/generator"
)

// DefaultWords is the mnemonic length used when none is configured.
const DefaultWords = 12

// ErrInvalidMnemonic is returned when a phrase fails BIP-39 validation.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// DefaultPath is the BIP-44 account path for Ethereum: m/44'/60'/0'/0/0.
var DefaultPath = []uint32{
	hdkeychain.HardenedKeyStart + 44, // purpose
	hdkeychain.HardenedKeyStart + 60, // coin type: Ethereum
	hdkeychain.HardenedKeyStart + 0,  // account
	0,                                // external chain
	0,                                // address index
}

// Provider generates Ethereum identities from fresh BIP-39 mnemonics.
// Each call draws its own entropy, so a single Provider is safe to share
// between workers.
type Provider struct {
	entropyBytes int
	entropy      io.Reader
}

// NewProvider creates a Provider producing mnemonics of the given word count
// (12, 15, 18, 21 or 24). If words is 0, it defaults to DefaultWords.
func NewProvider(words int) (*Provider, error) {
	return NewProviderWithEntropy(words, rand.Reader)
}

// NewProviderWithEntropy is NewProvider with an explicit entropy source.
// The reader must be safe for concurrent use.
func NewProviderWithEntropy(words int, entropy io.Reader) (*Provider, error) {
	if words == 0 {
		words = DefaultWords
	}
	bits, err := entropyBits(words)
	if err != nil {
		return nil, err
	}
	return &Provider{
		entropyBytes: bits / 8,
		entropy:      entropy,
	}, nil
}

// Generate creates one random identity.
func (p *Provider) Generate() (generator.Identity, error) {
	entropy := make([]byte, p.entropyBytes)
	if _, err := io.ReadFull(p.entropy, entropy); err != nil {
		return generator.Identity{}, fmt.Errorf("read entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return generator.Identity{}, fmt.Errorf("create mnemonic: %w", err)
	}

	return deriveIdentity(mnemonic)
}

// FromMnemonic re-derives the identity for an existing recovery phrase.
func FromMnemonic(mnemonic string) (generator.Identity, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return generator.Identity{}, ErrInvalidMnemonic
	}
	return deriveIdentity(mnemonic)
}

// deriveIdentity walks DefaultPath from the mnemonic seed (empty passphrase).
func deriveIdentity(mnemonic string) (generator.Identity, error) {
	seed := bip39.NewSeed(mnemonic, "")

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return generator.Identity{}, fmt.Errorf("create master key: %w", err)
	}
	for _, index := range DefaultPath {
		key, err = key.Derive(index)
		if err != nil {
			return generator.Identity{}, fmt.Errorf("derive child %d: %w", index, err)
		}
	}

	ecKey, err := key.ECPrivKey()
	if err != nil {
		return generator.Identity{}, fmt.Errorf("extract private key: %w", err)
	}
	privateKey, err := crypto.ToECDSA(ecKey.Serialize())
	if err != nil {
		return generator.Identity{}, fmt.Errorf("convert private key: %w", err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	return generator.Identity{
		Address:    address.Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(privateKey)),
		Mnemonic:   mnemonic,
	}, nil
}

func entropyBits(words int) (int, error) {
	switch words {
	case 12, 15, 18, 21, 24:
		return words / 3 * 32, nil
	default:
		return 0, fmt.Errorf("unsupported mnemonic length %d: must be 12, 15, 18, 21 or 24", words)
	}
}
