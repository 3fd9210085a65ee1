package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const receiptAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MakeReceiptNo builds a RCPT-<base36 millis>-<6 char random> receipt
// number. Collisions are ruled out by the unique index on receipt_no.
func MakeReceiptNo() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	b := make([]byte, 6)
	for i := range b {
		b[i] = receiptAlphabet[rand.Intn(len(receiptAlphabet))]
	}

	return "RCPT-" + strings.ToUpper(ts) + "-" + strings.ToUpper(string(b))
}
