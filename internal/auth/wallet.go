package auth

import (
	"errors"
	"strings"
)

// ErrInvalidWallet is returned when an address is not a 0x-prefixed 20 byte hex string.
var ErrInvalidWallet = errors.New("invalid wallet address")

// VerifyWallet validates the wallet address format. No signature is checked.
func VerifyWallet(address string) (string, error) {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return "", ErrInvalidWallet
	}
	for _, c := range address[2:] {
		if !isHex(c) {
			return "", ErrInvalidWallet
		}
	}
	return address, nil
}

func isHex(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
