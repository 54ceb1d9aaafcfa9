package services

import (
	"errors"
	"time"

	jwt "github.com/dgrijalva/jwt-go/v4"
)

// LiveKitTokensService issues access tokens for a LiveKit media server,
// the self-hosted alternative to the managed conferencing provider. The
// token is an HS256 JWT in LiveKit's grant shape: the API key as issuer,
// the participant as subject, and a video grant naming the room.
type LiveKitTokensService struct {
	APIKey    string
	APISecret string
}

// CreateToken creates a signed room-join token for the given participant
func (s *LiveKitTokensService) CreateToken(roomName, participantName string) (string, error) {

	if len(s.APIKey) == 0 || len(s.APISecret) == 0 {
		return "", errors.New("livekit credentials are not configured")
	}
	if len(participantName) == 0 {
		return "", ErrUserRequired
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.APIKey,
		"sub":  participantName,
		"jti":  participantName,
		"nbf":  now.Unix(),
		"exp":  now.Add(mediaTokenLifetime).Unix(),
		"name": participantName,
		"video": map[string]interface{}{
			"room":     roomName,
			"roomJoin": true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.APISecret))

}
