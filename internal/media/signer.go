package media

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/crypto/hkdf"
)

var (
	ErrBadSignature = errors.New("media: bad signature")
	ErrExpired      = errors.New("media: link expired")
)

const hkdfInfo = "fitcoach media url v1"

// Signer mints and checks signed media URLs.
type Signer struct {
	key     []byte
	baseURL string
	now     func() time.Time
}

// NewSigner derives the URL signing key from secret.
func NewSigner(secret []byte, baseURL string) (*Signer, error) {
	if len(secret) < 16 {
		return nil, errors.New("media: signing secret too short")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return &Signer{key: key, baseURL: baseURL, now: time.Now}, nil
}

// Sign returns a URL for key valid for ttl, and its expiry.
func (s *Signer) Sign(key string, ttl time.Duration) (string, time.Time) {
	exp := s.now().Add(ttl).UTC().Truncate(time.Second)
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp.Unix(), 10))
	q.Set("sig", s.mac(key, exp.Unix()))
	return s.baseURL + "/media/" + url.PathEscape(key) + "?" + q.Encode(), exp
}

// Verify checks the exp and sig query values for key.
func (s *Signer) Verify(key, exp, sig string) error {
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	want := s.mac(key, expUnix)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > expUnix {
		return ErrExpired
	}
	return nil
}

func (s *Signer) mac(key string, exp int64) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(key))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(h.Sum(nil))
}
