package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptID(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	receipt := GenerateReceiptID(at)

	require.Regexp(t, regexp.MustCompile(`^RCP20240115103000[A-Z0-9]{6}$`), receipt)
}

func TestGenerateReceiptID_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, loc)

	receipt := GenerateReceiptID(at)

	require.True(t, strings.HasPrefix(receipt, "RCP20240115000000"))
}

func TestGenerateReceiptID_Unique(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateReceiptID(at)
		require.False(t, seen[id], "duplicate receipt ID %s", id)
		seen[id] = true
	}
}

func TestGenerateTransactionID(t *testing.T) {
	txn := GenerateTransactionID()

	require.Regexp(t, regexp.MustCompile(`^TXN[0-9A-F]{12}$`), txn)
}
