package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samudraneel05/TDSProject1/internal/conventions"
)

func TestDefaultDBPath(t *testing.T) {
	assert.Equal(t, "/home/grader/.grader/grader.db", conventions.DefaultDBPath("/home/grader"))
	assert.Equal(t, "/var/lib/grader/grader.db", conventions.DBPath("/var/lib/grader"))
}
