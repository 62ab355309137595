package pricing

import (
	"fmt"
	"strings"

	"pricep/internal/models"
)

// LinkIcon marks where a product link is rendered in formatted text.
const LinkIcon = "🔗"

// FormatResponse renders each product as name, price and a link marker. The
// returned map keys "icon_<n>" to the URL of the n-th product.
func FormatResponse(resp *models.TextResponse) (string, map[string]string) {
	links := make(map[string]string)
	if resp == nil {
		return "", links
	}

	var b strings.Builder
	for i, p := range resp.ProductInfo {
		b.WriteString(p.Name)
		b.WriteString("\n")
		b.WriteString(p.Price)
		b.WriteString("\n")
		b.WriteString(LinkIcon)
		b.WriteString("\n\n")
		links[fmt.Sprintf("icon_%d", i)] = p.URL
	}
	return b.String(), links
}
