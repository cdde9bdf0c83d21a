package rooms

import "math/rand"

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// generateRoomCode returns a short human-typeable room code. Collisions are
// possible and handled by retrying on the unique constraint.
func generateRoomCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(code)
}
