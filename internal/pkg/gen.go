package pkg

import (
	"crypto/rand"
	"math/big"
)

// GenerateGameToken - generates a short random identifier for a game.
// Uniqueness is probabilistic; callers that need a hard guarantee
// reserve the token through the repository layer.
func GenerateGameToken() string {
	n, err := rand.Int(rand.Reader, big.NewInt(99999999))
	if err != nil {
		return ""
	}
	return n.String()
}
