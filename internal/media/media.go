// Package media signs client-side upload requests for the image host (ImageKit).
// Image bytes never pass through this service; sellers upload directly and submit the
// resulting URLs with their product.
package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// UploadAuth is the credential the browser SDK sends along with an upload.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

type Signer struct {
	publicKey  string
	privateKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSigner(publicKey, privateKey string, ttl time.Duration) *Signer {
	return &Signer{
		publicKey:  publicKey,
		privateKey: []byte(privateKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Sign issues a single-use token valid for the signer's TTL.
// signature = hex(HMAC-SHA1(privateKey, token + expire)).
func (s *Signer) Sign() UploadAuth {
	token := uuid.NewString()
	expire := s.now().Add(s.ttl).Unix()
	return UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: s.signature(token, expire),
		PublicKey: s.publicKey,
	}
}

func (s *Signer) signature(token string, expire int64) string {
	mac := hmac.New(sha1.New, s.privateKey)
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
