package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelKeys(t *testing.T) {
	assert.Equal(t, "com.docker.compose.project", LabelProject)
	assert.Equal(t, "com.docker.compose.service", LabelService)
	assert.Equal(t, "com.docker.compose.container-number", LabelContainerNumber)
	assert.Equal(t, "com.docker.compose.oneoff", LabelOneOff)
}

// TestProjectFilter checks that the daemon-side filter selects exactly the
// project label.
func TestProjectFilter(t *testing.T) {
	f := ProjectFilter("shop")

	assert.Equal(t, []string{"com.docker.compose.project=shop"}, f.Get("label"))
	assert.True(t, f.ExactMatch("label", "com.docker.compose.project=shop"))
	assert.Equal(t, 1, f.Len())
}

func TestIsOneOff(t *testing.T) {
	assert.True(t, IsOneOff(map[string]string{LabelOneOff: "True"}))
	assert.False(t, IsOneOff(map[string]string{LabelOneOff: "False"}))
	assert.False(t, IsOneOff(nil))
}
