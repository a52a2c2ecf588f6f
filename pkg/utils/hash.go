package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

const pwdSalt = "-sharesync-pwd"

// HashPwd derives the stored password hash.
func HashPwd(pwd string) string {
	sum := sha256.Sum256([]byte(pwd + pwdSalt))
	return hex.EncodeToString(sum[:])
}
