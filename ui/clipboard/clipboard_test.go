package clipboard

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSC52_Framing(t *testing.T) {
	seq := OSC52("héllo")
	assert.True(t, strings.HasPrefix(seq, "\033]52;c;"))
	assert.True(t, strings.HasSuffix(seq, "\a"))

	payload := strings.TrimSuffix(strings.TrimPrefix(seq, "\033]52;c;"), "\a")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	assert.Equal(t, "héllo", string(decoded))
}
