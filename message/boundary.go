package message

import (
	"strings"

	"github.com/google/uuid"
)

// boundaryPrefix cannot appear in base64 or quoted-printable output, so a
// boundary starting with it never collides with encoded content.
const boundaryPrefix = "=_"

// RandomizeBoundary sets Boundary to a new random token and returns it. Each
// call returns a different token.
func (m *Message) RandomizeBoundary() string {
	m.Boundary = boundaryPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	return m.Boundary
}
