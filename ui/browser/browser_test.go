package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_RejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "", "::"} {
		assert.Error(t, Open(u), u)
	}
}
