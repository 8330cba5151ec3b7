package service

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	p := &models.Product{
		Name:        "Piel de Borrego",
		Description: "Gamuza suave para forros",
	}

	assert.True(t, matchesSearch(p, "borrego"))
	assert.True(t, matchesSearch(p, "PIEL"))
	assert.True(t, matchesSearch(p, "forros"), "description is searched too")
	assert.False(t, matchesSearch(p, "hilo"))
}
