package tokens

import (
	"errors"

	"github.com/tokenworks/servicepos-app/models"
	"gorm.io/gorm"
)

// Outcome dari satu strategy: conclusive valid, conclusive invalid, atau
// inconclusive (lanjut ke strategy berikutnya). Tidak ada strategy yang
// memakai error/panic untuk control flow.
type outcomeKind int

const (
	outcomeInconclusive outcomeKind = iota
	outcomeValid
	outcomeInvalid
)

// Result adalah hasil akhir validasi token
type Result struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

type outcome struct {
	kind   outcomeKind
	result Result
}

type strategy func(tokenID string) outcome

// Validator menjalankan strategy berurutan dan berhenti di jawaban
// conclusive pertama: decode (skema embedded) -> cache -> backend.
type Validator struct {
	db    *gorm.DB
	cache *Cache
}

func NewValidator(db *gorm.DB, cache *Cache) *Validator {
	return &Validator{db: db, cache: cache}
}

// Validate memeriksa sebuah token ID. Identifier yang well-formed tapi tidak
// pernah ada selalu berakhir invalid, tidak pernah error.
func (v *Validator) Validate(tokenID string) Result {
	strategies := []strategy{
		v.decodeStrategy,
		v.cacheStrategy,
		v.backendStrategy,
	}

	for _, s := range strategies {
		if out := s(tokenID); out.kind != outcomeInconclusive {
			return out.result
		}
	}

	// Backend strategy selalu conclusive; sampai sini berarti bug
	return Result{Valid: false, Reason: "Invalid token"}
}

// decodeStrategy hanya berlaku untuk identifier berprefix embedded. Decode
// gagal diperlakukan sebagai kemungkinan tampering dan jatuh ke strategy
// berikutnya, bukan langsung invalid. Decode sukses mempercayai isi token
// untuk nama/telepon, tapi tetap cek status di cache: kalau cache tahu token
// sudah terpakai/dibatalkan, itu jawaban conclusive.
func (v *Validator) decodeStrategy(tokenID string) outcome {
	if !IsEmbeddedID(tokenID) {
		return outcome{kind: outcomeInconclusive}
	}

	name, phone, err := DecodeEmbeddedID(tokenID)
	if err != nil {
		return outcome{kind: outcomeInconclusive}
	}

	if cached, ok := v.cache.Lookup(tokenID); ok && cached.Status != models.TokenStatusActive {
		return outcome{
			kind:   outcomeInvalid,
			result: Result{Valid: false, Reason: "Token already used or cancelled"},
		}
	}

	return outcome{
		kind: outcomeValid,
		result: Result{
			Valid:         true,
			CustomerName:  name,
			CustomerPhone: phone,
		},
	}
}

// cacheStrategy: jalur instan tanpa network call, common case untuk cache
// yang sudah warm
func (v *Validator) cacheStrategy(tokenID string) outcome {
	cached, ok := v.cache.Lookup(tokenID)
	if !ok || cached.Status != models.TokenStatusActive {
		return outcome{kind: outcomeInconclusive}
	}

	return outcome{
		kind: outcomeValid,
		result: Result{
			Valid:         true,
			CustomerName:  cached.CustomerName,
			CustomerPhone: cached.CustomerPhone,
		},
	}
}

// backendStrategy: point query langsung ke database, satu-satunya jalur yang
// bisa melihat state lebih baru dari cache. Selalu conclusive.
func (v *Validator) backendStrategy(tokenID string) outcome {
	var token models.Token
	err := v.db.Where("token_id = ? AND status = ?", tokenID, models.TokenStatusActive).
		First(&token).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Kegagalan query diperlakukan sama dengan not-found untuk caller
			reason := "Invalid token"
			return outcome{
				kind:   outcomeInvalid,
				result: Result{Valid: false, Reason: reason},
			}
		}
		return outcome{
			kind:   outcomeInvalid,
			result: Result{Valid: false, Reason: "Token not found or already used"},
		}
	}

	return outcome{
		kind: outcomeValid,
		result: Result{
			Valid:         true,
			CustomerName:  token.CustomerName,
			CustomerPhone: token.CustomerPhone,
		},
	}
}
