package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/data/entity"

	"golang.org/x/crypto/hkdf"
)

const (
	defaultCodeTTL = time.Hour
	codeKeyInfo    = "yamdb confirmation code"
	macHexLen      = 20
)

// CodeGenerator produces confirmation codes of the form <base36 ts>-<mac>.
//
// The MAC covers the user id, email and last login time, so a code stops
// verifying as soon as a token is issued with it. Nothing is stored.
type CodeGenerator struct {
	key []byte
	ttl time.Duration
}

func NewCodeGenerator(secret string, ttl time.Duration) (*CodeGenerator, error) {
	if secret == "" {
		return nil, fmt.Errorf("confirmation code secret is empty")
	}
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive confirmation code key: %w", err)
	}

	return &CodeGenerator{key: key, ttl: ttl}, nil
}

func (g *CodeGenerator) TTL() time.Duration {
	return g.ttl
}

// Generate returns the code for u's current state at time now.
func (g *CodeGenerator) Generate(u *entity.User, now time.Time) string {
	ts := now.Unix()
	return strconv.FormatInt(ts, 36) + "-" + g.mac(u, ts)
}

// Verify reports whether code was generated for u's current state and is
// not older than the TTL.
func (g *CodeGenerator) Verify(u *entity.User, code string, now time.Time) bool {
	tsPart, macPart, ok := strings.Cut(code, "-")
	if !ok || tsPart == "" || len(macPart) != macHexLen {
		return false
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	age := now.Sub(time.Unix(ts, 0))
	if age < 0 || age > g.ttl {
		return false
	}

	return hmac.Equal([]byte(macPart), []byte(g.mac(u, ts)))
}

func (g *CodeGenerator) mac(u *entity.User, ts int64) string {
	// microseconds match what postgres keeps for last_login_at
	lastLogin := ""
	if u.LastLoginAt != nil {
		lastLogin = strconv.FormatInt(u.LastLoginAt.UnixMicro(), 10)
	}

	h := hmac.New(sha256.New, g.key)
	fmt.Fprintf(h, "%s|%s|%s|%d", u.ID, u.Email, lastLogin, ts)
	return hex.EncodeToString(h.Sum(nil))[:macHexLen]
}
