package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"syriazone/internal/domain"
)

func TestModels_IncludeCoreTables(t *testing.T) {
	ms := Models()
	assert.IsType(t, &domain.User{}, ms[0])
	assert.Contains(t, ms, any(&domain.Store{}))
	assert.Len(t, ms, 11)
}
