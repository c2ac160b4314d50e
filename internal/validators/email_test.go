package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	valid := []string{
		"ana@example.com",
		"carlos.perez+rent@mail.pe",
		" trimmed@example.com ",
	}
	for _, e := range valid {
		assert.True(t, IsEmail(e), e)
	}

	invalid := []string{
		"",
		"ana",
		"@example.com",
		"ana@",
		"Ana <ana@example.com>",
		"ana@@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsEmail(e), e)
	}
}
