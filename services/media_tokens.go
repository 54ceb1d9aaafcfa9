package services

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"regexp"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go/v4"
)

// mediaTokenLifetime is how long an issued media token stays valid
const mediaTokenLifetime = time.Hour

// pemMarkerPattern strips PEM armor lines so the key material can also be
// accepted as a bare base64 blob, the way deployment environments tend to
// mangle multi-line secrets
var pemMarkerPattern = regexp.MustCompile(`-----(BEGIN|END)[A-Z ]*-----|\\n|\s+`)

// MediaTokensService issues short-lived JWTs that grant the holder access
// to one media room on the video-conferencing provider
type MediaTokensService struct {
	AppID     string
	AppSecret string
	KeyID     string
}

// CreateToken creates a signed media-access token scoped to the given room
// and user
func (s *MediaTokensService) CreateToken(
	roomName string,
	userName string,
	userEmail string,
	userID string,
	isModerator bool,
) (string, error) {

	privateKey, err := s.parsePrivateKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"aud":  "jitsi",
		"iss":  "chat",
		"sub":  s.AppID,
		"room": roomName,
		"iat":  now.Unix(),
		"exp":  now.Add(mediaTokenLifetime).Unix(),
		"context": map[string]interface{}{
			"user": map[string]interface{}{
				"id":        userID,
				"name":      userName,
				"email":     userEmail,
				"avatar":    "",
				"moderator": isModerator,
			},
			// The provider requires the features object to be present
			"features": map[string]interface{}{
				"livestreaming": "true",
				"recording":     "true",
				"transcription": "true",
				"outbound-call": "true",
			},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.KeyID
	return token.SignedString(privateKey)

}

// parsePrivateKey loads the RSA signing key from the configured secret.
// Both full PEM blocks and bare base64-encoded PKCS#8/PKCS#1 key material
// are accepted.
func (s *MediaTokensService) parsePrivateKey() (*rsa.PrivateKey, error) {

	raw := strings.TrimSpace(s.AppSecret)
	if len(raw) == 0 {
		return nil, errors.New("media token signing key is not configured")
	}

	var der []byte
	if block, _ := pem.Decode([]byte(raw)); block != nil {
		der = block.Bytes
	} else {
		cleaned := pemMarkerPattern.ReplaceAllString(raw, "")
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, errors.New("media token signing key is not valid PEM or base64")
		}
		der = decoded
	}

	// Try PKCS#8 first, then fall back to PKCS#1
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("media token signing key is not an RSA key")
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PrivateKey(der)

}
