package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptID builds a receipt identifier in the format
// RCP<YYYYMMDDHHMMSS><6-char-suffix>. The timestamp is rendered in UTC and
// the suffix is the upper-cased tail of a fresh UUID. Downstream consumers
// parse this format; do not change it.
func GenerateReceiptID(at time.Time) string {
	stamp := at.UTC().Format("20060102150405")
	id := uuid.NewString()
	suffix := strings.ToUpper(id[len(id)-6:])
	return fmt.Sprintf("RCP%s%s", stamp, suffix)
}

// GenerateTransactionID builds a simulated payment transaction reference.
func GenerateTransactionID() string {
	hexID := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN" + strings.ToUpper(hexID[:12])
}
