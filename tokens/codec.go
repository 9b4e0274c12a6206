package tokens

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix untuk kedua skema token ID. Keduanya tidak interoperable: satu
// deployment memilih satu skema lewat konfigurasi.
const (
	OpaquePrefix   = "TKN-"
	EmbeddedPrefix = "TKE-"
)

var ErrNotEmbedded = errors.New("token id is not an embedded token")

// embeddedPayload adalah struktur kecil yang dikodekan ke dalam token ID
// pada skema embedded. Nonce membedakan dua token untuk customer yang sama.
type embeddedPayload struct {
	Name  string `json:"n"`
	Phone string `json:"p"`
	Nonce string `json:"r"`
}

// NewOpaqueID menghasilkan token ID skema opaque: TKN-YYYYMMDD-NNNN.
// Semua data customer hanya hidup di row database.
func NewOpaqueID(now time.Time) string {
	random := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s%s-%04d", OpaquePrefix, now.Format("20060102"), random)
}

// NewEmbeddedID menghasilkan token ID skema embedded: prefix + base64url dari
// {name, phone, nonce}. Nama/telepon bisa didecode kembali tanpa query,
// dengan konsekuensi PII customer ikut tercetak di token.
func NewEmbeddedID(customerName, customerPhone string) string {
	payload := embeddedPayload{
		Name:  customerName,
		Phone: customerPhone,
		Nonce: uuid.NewString()[:8],
	}

	// Marshal struct kecil tidak pernah gagal
	data, _ := json.Marshal(payload)
	return EmbeddedPrefix + base64.RawURLEncoding.EncodeToString(data)
}

// IsEmbeddedID memeriksa apakah sebuah identifier membawa prefix embedded
func IsEmbeddedID(tokenID string) bool {
	return strings.HasPrefix(tokenID, EmbeddedPrefix)
}

// DecodeEmbeddedID membongkar token ID skema embedded menjadi nama dan
// telepon customer. Identifier yang rusak/dimodifikasi mengembalikan error,
// bukan panic; caller memperlakukannya sebagai inconclusive.
func DecodeEmbeddedID(tokenID string) (customerName, customerPhone string, err error) {
	if !IsEmbeddedID(tokenID) {
		return "", "", ErrNotEmbedded
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(tokenID, EmbeddedPrefix))
	if err != nil {
		return "", "", fmt.Errorf("malformed embedded token: %w", err)
	}

	var payload embeddedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", "", fmt.Errorf("malformed embedded token: %w", err)
	}

	if payload.Name == "" || payload.Phone == "" {
		return "", "", errors.New("embedded token missing customer data")
	}

	return payload.Name, payload.Phone, nil
}
