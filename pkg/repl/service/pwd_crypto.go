package repl

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"

	"github.com/pkg/errors"
)

const DefaultSecretKey = "lispy-journal-secret-key-0000000"

var (
	InvalidCiphertextErr = errors.New("Invalid ciphertext")
)

func PKCS7Padding(ciphertext []byte, blockSize int) []byte {
	padding := blockSize - len(ciphertext)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(ciphertext, padtext...)
}

func PKCS7UnPadding(origData []byte, blockSize int) ([]byte, error) {
	length := len(origData)
	if length == 0 {
		return nil, InvalidCiphertextErr
	}

	unpadding := int(origData[length-1])
	if unpadding == 0 || unpadding > blockSize || unpadding > length {
		return nil, InvalidCiphertextErr
	}

	return origData[:(length - unpadding)], nil
}

// AesEncrypt encrypts a password with AES-CBC and returns it hex encoded.
func AesEncrypt(key []byte, pwd string) (string, error) {

	plaintext := []byte(pwd)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	blockSize := block.BlockSize()
	plaintext = PKCS7Padding(plaintext, blockSize)
	blockMode := cipher.NewCBCEncrypter(block, key[:blockSize])
	ciphertext := make([]byte, len(plaintext))
	blockMode.CryptBlocks(ciphertext, plaintext)
	return hex.EncodeToString(ciphertext), nil
}

func AesDecrypt(key []byte, pwd string) (string, error) {

	ciphertext, err := hex.DecodeString(pwd)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	blockSize := block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return "", InvalidCiphertextErr
	}

	blockMode := cipher.NewCBCDecrypter(block, key[:blockSize])
	plaintext := make([]byte, len(ciphertext))
	blockMode.CryptBlocks(plaintext, ciphertext)

	plaintext, err = PKCS7UnPadding(plaintext, blockSize)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
