package checkout

import (
	"strings"
	"testing"

	"storefront-service/internal/cart"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Name: "Hilo", Quantity: 2},
		{ProductID: "p2", Name: "Piel de borrego", Quantity: 1},
	}

	msg := BuildMessage("Hola, me gustaría hacer el siguiente pedido:", lines)

	assert.Equal(t,
		"Hola, me gustaría hacer el siguiente pedido:\n• 2 Hilo\n• 1 Piel de borrego",
		msg)
	assert.NotContains(t, msg, "$", "prices are omitted from the hand-off message")
}

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile Safari"))
	assert.False(t, IsMobileUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
	assert.False(t, IsMobileUserAgent(""))
}

func TestBuildRedirectURL(t *testing.T) {
	msg := BuildMessage("Pedido:", []cart.Line{{Name: "Hilo", Quantity: 2}})

	web := BuildRedirectURL("+524776381625", msg, false)
	assert.True(t, strings.HasPrefix(web, "https://wa.me/+524776381625?text="))
	assert.Contains(t, web, "%E2%80%A2%202%20Hilo", "bullet line is percent-encoded")
	assert.NotContains(t, web, "+2+Hilo", "spaces use %20, not plus")

	app := BuildRedirectURL("+524776381625", msg, true)
	assert.True(t, strings.HasPrefix(app, "whatsapp://send?phone=524776381625&text="))
	assert.Contains(t, app, "%E2%80%A2%202%20Hilo")

	// Same encoded payload on both forms.
	assert.Equal(t,
		web[strings.Index(web, "text="):],
		app[strings.Index(app, "text="):])
}
