package utils

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"
)

const BcryptCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ContestantID derives the stable identity of a player from the fields that
// are known at import time. Editing the player later never changes it.
func ContestantID(name, organization string, isMale bool) string {
	payload := strings.Join([]string{name, organization, strconv.FormatBool(isMale)}, "\x00")
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:16])
}
