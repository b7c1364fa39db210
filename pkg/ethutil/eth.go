package ethutil

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ParsePrivateKey accepts a hex private key with or without the 0x prefix.
func ParsePrivateKey(hexkey string) (*ecdsa.PrivateKey, error) {
	return ethcrypto.HexToECDSA(strings.TrimPrefix(hexkey, "0x"))
}

func AddressOf(key *ecdsa.PrivateKey) common.Address {
	return ethcrypto.PubkeyToAddress(key.PublicKey)
}

// GenerateKey returns a fresh keypair as hex strings. The private key carries
// the 0x prefix to match what chain clients expect.
func GenerateKey() (address string, privateKey string, err error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", "", err
	}

	address = ethcrypto.PubkeyToAddress(key.PublicKey).Hex()
	privateKey = "0x" + common.Bytes2Hex(ethcrypto.FromECDSA(key))
	return address, privateKey, nil
}

func Keccak256Hex(parts ...string) string {
	return common.Bytes2Hex(ethcrypto.Keccak256([]byte(strings.Join(parts, ""))))
}
