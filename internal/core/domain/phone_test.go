package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	valid := []string{"09171234567", "09998887766", "+639171234567"}
	for _, s := range valid {
		assert.True(t, ValidPhone(s), s)
	}

	invalid := []string{"", "0917123456", "091712345678", "639171234567", "+638171234567", "9171234567", "09-17-1234567"}
	for _, s := range invalid {
		assert.False(t, ValidPhone(s), s)
	}
}
