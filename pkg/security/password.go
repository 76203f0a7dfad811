package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// werkzeug used this count when the method string carried none.
const legacyPBKDF2Iterations = 260000

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var ErrUnsupportedHash = errors.New("unsupported password hash format")

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword checks password against a bcrypt hash or a legacy
// "pbkdf2:sha256[:iterations]$salt$hex" hash carried over from older data files.
func VerifyPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	if strings.HasPrefix(hash, "pbkdf2:") {
		ok, err := verifyPBKDF2(hash, password)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash should be replaced by a bcrypt hash.
func NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, "$2")
}

func verifyPBKDF2(hash, password string) (bool, error) {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false, ErrUnsupportedHash
	}
	method, salt, want := parts[0], parts[1], parts[2]

	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[1] != "sha256" {
		return false, ErrUnsupportedHash
	}
	iterations := legacyPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false, ErrUnsupportedHash
		}
		iterations = n
	}

	expected, err := hex.DecodeString(want)
	if err != nil {
		return false, ErrUnsupportedHash
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return subtle.ConstantTimeCompare(got, expected) == 1, nil
}

// ConstantTimeCompare compares two strings in constant time
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
