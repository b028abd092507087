// Package account creates and validates site user accounts.
package account

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/masonry-cms/mason/internal/messages"
)

// TableBase is the users table name before the site prefix is applied.
const TableBase = "users"

// AdminUID is the user id of the admin account created at install time.
const AdminUID = 1

// MaxNameLength bounds account names, matching the users table column.
const MaxNameLength = 60

// GeneratedPasswordLength is the length of generated admin passwords.
const GeneratedPasswordLength = 12

// passwordAlphabet avoids ambiguous characters (0/O, 1/l/I) so generated
// passwords survive being read aloud or retyped.
const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random password of n characters.
func GeneratePassword(n int) (string, error) {
	if n < 1 {
		n = GeneratedPasswordLength
	}
	var out strings.Builder
	out.Grow(n)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < n; i++ {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out.WriteByte(passwordAlphabet[index.Int64()])
	}
	return out.String(), nil
}

// HashPassword returns the bcrypt hash stored in the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf(messages.AccountHashFmt, err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a stored hash.
func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateName checks an account name against the users table constraints.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(messages.AccountNameEmpty)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf(messages.AccountNameTooLongFmt, MaxNameLength)
	}
	if strings.TrimSpace(name) != name {
		return errors.New(messages.AccountNameInvalid)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.New(messages.AccountNameInvalid)
		}
	}
	return nil
}
