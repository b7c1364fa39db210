package crypto

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_aesCipher_RoundTrip(t *testing.T) {
	cipher := NewAESCipher("a shared passphrase")

	encrypted, err := cipher.Encrypt([]byte("0x59c6995e998f97a5a0044966f0945389"))
	require.NoError(t, err)

	decrypted, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	require.Equal(t, "0x59c6995e998f97a5a0044966f0945389", string(decrypted))
}

func Test_aesCipher_RandomizedEnvelope(t *testing.T) {
	cipher := NewAESCipher("a shared passphrase")

	first, err := cipher.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)

	second, err := cipher.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)

	// A fresh salt and iv per call means identical plaintexts never share
	// ciphertext.
	require.NotEqual(t, first, second)
}

func Test_aesCipher_WrongPassphrase(t *testing.T) {
	encrypted, err := NewAESCipher("right").Encrypt([]byte("secret"))
	require.NoError(t, err)

	decrypted, err := NewAESCipher("wrong").Decrypt(encrypted)
	if err == nil {
		require.NotEqual(t, "secret", string(decrypted))
	}
}

func Test_aesCipher_UnsupportedAlgorithm(t *testing.T) {
	envelope, err := json.Marshal(encryptedData{
		Algorithm: "aes-256-gcm",
		Salt:      "00",
		IV:        "00",
		Data:      "00",
	})
	require.NoError(t, err)

	_, err = NewAESCipher("any").Decrypt(base64.StdEncoding.EncodeToString(envelope))
	require.EqualError(t, err, "unsupported algorithm")
}

func Test_aesCipher_GarbageInput(t *testing.T) {
	_, err := NewAESCipher("any").Decrypt("not base64!!")
	require.Error(t, err)

	_, err = NewAESCipher("any").Decrypt(base64.StdEncoding.EncodeToString([]byte("not json")))
	require.Error(t, err)
}
