package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: "alice",
		Email:    "alice@example.com",
		Role:     entity.RoleModerator,
	}
}

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	u := testUser()
	now := time.Now()

	raw, err := issuer.Issue(u, now)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.False(t, claims.Superuser)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestIssuer_ParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewIssuer("secret", time.Hour).Issue(testUser(), time.Now())
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(raw)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestIssuer_ParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	raw, err := issuer.Issue(testUser(), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestIssuer_ParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Parse(raw)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Parse(unsigned)
	assert.Error(t, err)
}

func TestIssuer_ParseRejectsMissingExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Parse(raw)
	assert.Error(t, err)
}

func newGenerator(t *testing.T) *CodeGenerator {
	t.Helper()
	g, err := NewCodeGenerator("secret", time.Hour)
	require.NoError(t, err)
	return g
}

func TestCodeGenerator_RoundTrip(t *testing.T) {
	g := newGenerator(t)
	u := testUser()
	now := time.Now()

	code := g.Generate(u, now)

	assert.True(t, g.Verify(u, code, now))
	assert.True(t, g.Verify(u, code, now.Add(59*time.Minute)))
	assert.Equal(t, code, g.Generate(u, now))
}

func TestCodeGenerator_Expired(t *testing.T) {
	g := newGenerator(t)
	u := testUser()
	now := time.Now()

	code := g.Generate(u, now)

	assert.False(t, g.Verify(u, code, now.Add(61*time.Minute)))
	assert.False(t, g.Verify(u, code, now.Add(-time.Minute)))
}

func TestCodeGenerator_BoundToIdentityState(t *testing.T) {
	g := newGenerator(t)
	u := testUser()
	now := time.Now()
	code := g.Generate(u, now)

	loggedIn := *u
	ts := now.Add(time.Second)
	loggedIn.LastLoginAt = &ts
	assert.False(t, g.Verify(&loggedIn, code, now), "code must die once consumed")

	otherEmail := *u
	otherEmail.Email = "mallory@example.com"
	assert.False(t, g.Verify(&otherEmail, code, now))

	otherUser := *u
	otherUser.ID = uuid.New()
	assert.False(t, g.Verify(&otherUser, code, now))
}

func TestCodeGenerator_DifferentSecrets(t *testing.T) {
	u := testUser()
	now := time.Now()
	other, err := NewCodeGenerator("other", time.Hour)
	require.NoError(t, err)

	assert.False(t, other.Verify(u, newGenerator(t).Generate(u, now), now))
}

func TestCodeGenerator_Malformed(t *testing.T) {
	g := newGenerator(t)
	u := testUser()
	now := time.Now()
	valid := g.Generate(u, now)
	tsPart, _, _ := strings.Cut(valid, "-")

	for _, code := range []string{"", "abc", "-", tsPart + "-", tsPart + "-zz", "!!!-" + strings.Repeat("0", macHexLen), valid + "0"} {
		assert.False(t, g.Verify(u, code, now), code)
	}
}

func TestNewCodeGenerator_EmptySecret(t *testing.T) {
	_, err := NewCodeGenerator("", time.Hour)
	assert.Error(t, err)
}
