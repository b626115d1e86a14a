package config

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QRConfig carries every generation-time setting of the QR payment
// subsystem. Bank code and account are server-side only and never accepted
// from clients.
type QRConfig struct {
	BankCode     string
	BankAccount  string
	MerchantName string
	MerchantCity string
	TTL          time.Duration

	// SigningKeys holds the rotating key set; ActiveKeyID selects the key
	// new payloads are signed with. Older entries stay verifiable until
	// the transactions signed under them expire.
	SigningKeys map[string][]byte
	ActiveKeyID string

	// Token bucket settings for the generation rate limiter.
	RateCapacity  float64
	RateRefillPer float64 // tokens per second
}

// devSigningKey keeps local development working without configuration.
// Not secure; set QR_SIGNING_KEYS in any real deployment.
const devSigningKey = "dev-secret-key-which-is-not-secure"

// LoadQRConfig reads the QR payment settings from the environment.
//
// QR_SIGNING_KEYS is a comma-separated list of id=base64url entries, e.g.
// "k2=c2Vjb25k,k1=Zmlyc3Q". QR_SIGNING_ACTIVE_KEY picks the signing key
// and defaults to the first entry.
func LoadQRConfig() (*QRConfig, error) {
	cfg := &QRConfig{
		BankCode:      GetEnv("QR_BANK_CODE", "vcb"),
		BankAccount:   GetEnv("QR_BANK_ACCOUNT", "12345678"),
		MerchantName:  GetEnv("QR_MERCHANT_NAME", "Ezami"),
		MerchantCity:  GetEnv("QR_MERCHANT_CITY", "HN"),
		TTL:           time.Duration(GetIntEnv("QR_TTL_SECONDS", 300)) * time.Second,
		SigningKeys:   make(map[string][]byte),
		RateCapacity:  getFloatEnv("QR_RATE_CAPACITY", 5),
		RateRefillPer: getFloatEnv("QR_RATE_REFILL_PER_SEC", 5.0/60),
	}

	raw := GetEnv("QR_SIGNING_KEYS", "")
	if raw == "" {
		cfg.SigningKeys["local-1"] = []byte(devSigningKey)
		cfg.ActiveKeyID = "local-1"
		return cfg, nil
	}

	var first string
	for _, entry := range strings.Split(raw, ",") {
		id, b64, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid QR_SIGNING_KEYS entry %q", entry)
		}
		key, err := base64.RawURLEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("signing key %s is not base64url: %w", id, err)
		}
		cfg.SigningKeys[id] = key
		if first == "" {
			first = id
		}
	}
	cfg.ActiveKeyID = GetEnv("QR_SIGNING_ACTIVE_KEY", first)
	if _, ok := cfg.SigningKeys[cfg.ActiveKeyID]; !ok {
		return nil, fmt.Errorf("active signing key %q is not in QR_SIGNING_KEYS", cfg.ActiveKeyID)
	}
	return cfg, nil
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := GetEnv(key, ""); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
