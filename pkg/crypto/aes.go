package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	aesAlgorithm      = "aes-256-cbc"
	pbkdf2Iterations  = 10000
	derivedKeyLength  = 32
	saltLength        = 16
)

type encryptedData struct {
	Algorithm string `json:"algorithm"`
	Salt      string `json:"salt"`
	IV        string `json:"iv"`
	Data      string `json:"data"`
}

// AESCipher encrypts private keys at rest with a key derived from a shared
// passphrase.
type AESCipher struct {
	passphrase []byte
}

func NewAESCipher(passphrase string) *AESCipher {
	return &AESCipher{passphrase: []byte(passphrase)}
}

func (c *AESCipher) deriveKey(salt []byte) []byte {
	return pbkdf2.Key(c.passphrase, salt, pbkdf2Iterations, derivedKeyLength, sha256.New)
}

// Encrypt returns a base64 encoded envelope holding the salt, iv, and
// ciphertext of plaintext.
func (c *AESCipher) Encrypt(plaintext []byte) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	envelope, err := json.Marshal(encryptedData{
		Algorithm: aesAlgorithm,
		Salt:      hex.EncodeToString(salt),
		IV:        hex.EncodeToString(iv),
		Data:      hex.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(envelope), nil
}

func (c *AESCipher) Decrypt(encoded string) ([]byte, error) {
	envelope, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var data encryptedData
	if err := json.Unmarshal(envelope, &data); err != nil {
		return nil, err
	}

	if data.Algorithm != aesAlgorithm {
		return nil, errors.New("unsupported algorithm")
	}

	salt, err := hex.DecodeString(data.Salt)
	if err != nil {
		return nil, err
	}

	iv, err := hex.DecodeString(data.IV)
	if err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(data.Data)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a multiple of the block size")
	}

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}

	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("invalid padding")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > len(data) {
		return nil, errors.New("invalid padding")
	}

	return data[:len(data)-padding], nil
}
