package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// Payment intent metadata layout, version 1. Processors cap metadata values
// at 500 characters and intents at 50 keys, so the items JSON is split over
// items, items_1, items_2 and so on.
const (
	MetadataSchemaVersion = "1"

	metaSchemaVersion = "schema_version"
	metaCustomerName  = "customer_name"
	metaCustomerEmail = "customer_email"
	metaCustomerPhone = "customer_phone"
	metaItems         = "items"

	metadataValueLimit = 500
	metadataMaxChunks  = 45
)

// MetadataLine is one cart line as carried in payment metadata. PriceCents
// is informational; admission always reprices from the catalog.
type MetadataLine struct {
	ProductID  string `json:"id"`
	Quantity   int    `json:"qty"`
	PriceCents int64  `json:"price"`
}

// OrderMetadata is the decoded checkout context of a payment intent.
type OrderMetadata struct {
	Customer model.Customer
	Lines    []MetadataLine
}

// CartLines converts metadata lines to admission input.
func (m OrderMetadata) CartLines() []model.CartLine {
	lines := make([]model.CartLine, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = model.CartLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return lines
}

// EncodeOrderMetadata renders the checkout context as payment metadata.
func EncodeOrderMetadata(customer model.Customer, items []model.OrderItem) (map[string]string, error) {
	lines := make([]MetadataLine, len(items))
	for i, item := range items {
		lines[i] = MetadataLine{ProductID: item.ProductID, Quantity: item.Quantity, PriceCents: model.ToCents(item.Price)}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode metadata items: %w", err)
	}

	meta := map[string]string{
		metaSchemaVersion: MetadataSchemaVersion,
		metaCustomerName:  truncate(customer.Name, metadataValueLimit),
		metaCustomerEmail: truncate(customer.Email, metadataValueLimit),
		metaCustomerPhone: truncate(customer.Phone, metadataValueLimit),
	}

	encoded := string(raw)
	for chunk := 0; len(encoded) > 0; chunk++ {
		if chunk >= metadataMaxChunks {
			return nil, fmt.Errorf("encode metadata items: cart too large")
		}
		n := runeBoundary(encoded, metadataValueLimit)
		meta[itemsKey(chunk)] = encoded[:n]
		encoded = encoded[n:]
	}
	return meta, nil
}

// DecodeOrderMetadata parses payment metadata. receiptEmail takes precedence
// over the customer_email key.
func DecodeOrderMetadata(meta map[string]string, receiptEmail string) (OrderMetadata, error) {
	version, ok := meta[metaSchemaVersion]
	if !ok {
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaSchemaVersion, Reason: "is missing"}
	}
	if version != MetadataSchemaVersion {
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaSchemaVersion, Reason: fmt.Sprintf("%q is not supported", version)}
	}

	email := strings.TrimSpace(receiptEmail)
	if email == "" {
		email = strings.TrimSpace(meta[metaCustomerEmail])
	}
	customer := model.Customer{
		Name:  strings.TrimSpace(meta[metaCustomerName]),
		Email: email,
		Phone: strings.TrimSpace(meta[metaCustomerPhone]),
	}
	switch {
	case customer.Name == "":
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaCustomerName, Reason: "is missing"}
	case customer.Email == "":
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaCustomerEmail, Reason: "is missing"}
	case customer.Phone == "":
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaCustomerPhone, Reason: "is missing"}
	}

	var sb strings.Builder
	for chunk := 0; ; chunk++ {
		part, ok := meta[itemsKey(chunk)]
		if !ok {
			break
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaItems, Reason: "is missing"}
	}

	var lines []MetadataLine
	if err := json.Unmarshal([]byte(sb.String()), &lines); err != nil {
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaItems, Reason: "is not valid JSON"}
	}
	if len(lines) == 0 {
		return OrderMetadata{}, &domainErrors.MetadataError{Field: metaItems, Reason: "is empty"}
	}
	for _, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return OrderMetadata{}, &domainErrors.MetadataError{Field: metaItems, Reason: "contain an empty product id"}
		}
		if l.Quantity <= 0 {
			return OrderMetadata{}, &domainErrors.MetadataError{Field: metaItems, Reason: "contain a non-positive quantity"}
		}
	}

	return OrderMetadata{Customer: customer, Lines: lines}, nil
}

func itemsKey(chunk int) string {
	if chunk == 0 {
		return metaItems
	}
	return fmt.Sprintf("%s_%d", metaItems, chunk)
}

// truncate cuts s to at most limit bytes without splitting a character.
func truncate(s string, limit int) string {
	return s[:runeBoundary(s, limit)]
}

// runeBoundary returns the largest index <= limit that starts a character.
func runeBoundary(s string, limit int) int {
	if len(s) <= limit {
		return len(s)
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
