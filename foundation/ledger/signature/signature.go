// Package signature provides support for hashing ledger content and for
// signing and verifying wallet submissions.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled
// to JSON first so the hash covers the canonical serialization, then
// run through sha256. The result is lowercase hex with no prefix since
// the proof of work inspects raw leading characters.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================

// Sign uses the specified private key to sign the value. The produced
// signature travels next to a submission, never inside the hashed
// transaction content.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the value for signing.
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(digest(data), privateKey)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(sig), nil
}

// RecoverAddress extracts the address for the account that signed the value.
func RecoverAddress(value any, sig string) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}

	// Capture the public key associated with this signature.
	publicKey, err := crypto.SigToPub(digest(data), sigBytes)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// Address converts a public key to an account address.
func Address(publicKey ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(publicKey).String()
}

// digest produces the 32 byte array that represents the data to sign or
// validate. The stamp keeps a signature from being valid for anything
// but a submission to this network.
func digest(data []byte) []byte {
	stamp := []byte(fmt.Sprintf("\x19DataCoin Signed Message:\n%d", 32))
	return crypto.Keccak256(stamp, crypto.Keccak256(data))
}
