package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMakeReceiptNoFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^RCPT-[0-9A-Z]+-[0-9A-Z]{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		no := MakeReceiptNo()
		assert.Regexp(t, pattern, no)
		seen[no] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"receipt.jpg":           "receipt.jpg",
		"my receipt (1).jpg":    "my_receipt__1_.jpg",
		"../../etc/passwd":      "passwd",
		"slip#2025@bank.pdf":    "slip_2025_bank.pdf",
		"ünïcode.png":           "_n_code.png",
		"already_safe-name.txt": "already_safe-name.txt",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestPublicUploadPath(t *testing.T) {
	assert.Equal(t, "/uploads/donation-proofs/slip.jpg", PublicUploadPath(UploadDonationProofs, "slip.jpg"))
	assert.Equal(t, "/uploads/logo.png", PublicUploadPath("", "logo.png"))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(secret, "user-1", "donor", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "donor", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT([]byte("0123456789abcdef0123456789abcdef"), "user-1", "donor", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("ffffffffffffffffffffffffffffffff"), token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	token, err := GenerateJWT(secret, "user-1", "donor", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(secret, token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateETagStable(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	first := GenerateETag(id, at)
	assert.Equal(t, first, GenerateETag(id, at))
	assert.NotEqual(t, first, GenerateETag(id, at.Add(time.Second)))
	assert.NotEqual(t, first, GenerateETag(primitive.NewObjectID(), at))
}
