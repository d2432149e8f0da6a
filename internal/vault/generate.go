// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordChars is the generator alphabet for suggested site passwords.
const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

// GeneratedPasswordLength is the length of generator output.
const GeneratedPasswordLength = 16

// GeneratePassword returns a random site password from a CSPRNG. Modulo
// bias is avoided by drawing uniformly below the alphabet size.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordChars)))
	out := make([]byte, GeneratedPasswordLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw randomness: %w", err)
		}
		out[i] = passwordChars[n.Int64()]
	}
	return string(out), nil
}
