package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"storefront-service/internal/cart"
)

// mobile user-agent tokens, coarse on purpose: the only decision is
// app deep-link vs universal web URL.
var mobileTokens = []string{"android", "iphone", "ipad", "ipod", "mobile"}

// BuildMessage renders the cart as the line-oriented WhatsApp text:
// a fixed header followed by one "• <quantity> <name>" line per item.
// Prices are left out; the recipient is a human operator who quotes
// unpriced items anyway.
func BuildMessage(header string, lines []cart.Line) string {
	var b strings.Builder
	b.WriteString(header)
	for _, line := range lines {
		b.WriteString(fmt.Sprintf("\n• %d %s", line.Quantity, line.Name))
	}
	return b.String()
}

// IsMobileUserAgent classifies the client device from its user-agent
// string
func IsMobileUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// BuildRedirectURL constructs the hand-off deep-link. Mobile clients
// get the whatsapp:// scheme so the installed app opens directly;
// everything else gets the universal wa.me URL. Both carry the same
// percent-encoded message and the fixed contact phone.
func BuildRedirectURL(phone, message string, mobile bool) string {
	// QueryEscape uses '+' for spaces; WhatsApp expects %20.
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	if mobile {
		return fmt.Sprintf("whatsapp://send?phone=%s&text=%s", strings.TrimPrefix(phone, "+"), encoded)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, encoded)
}
