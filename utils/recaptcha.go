package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NavaUDP/Agenda-Revitek/config"

	"go.uber.org/zap"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// VerifyRecaptcha checks a reCAPTCHA v3 token against Google's verify endpoint.
// Accepts when success is true and the score is at least 0.5. With no secret
// configured, or when the verify API itself fails, the check passes (fail-open
// so a Google outage never blocks bookings).
func VerifyRecaptcha(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	secret := config.AppConfig.RecaptchaSecretKey
	if secret == "" {
		return true
	}

	form := url.Values{}
	form.Set("secret", secret)
	form.Set("response", token)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, recaptchaVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return true
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		GetLogger().Warn("reCAPTCHA verify request failed", zap.Error(err))
		return true
	}
	defer resp.Body.Close()

	var result struct {
		Success    bool     `json:"success"`
		Score      float64  `json:"score"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		GetLogger().Warn("reCAPTCHA verify decode failed", zap.Error(err))
		return true
	}

	if !result.Success {
		GetLogger().Warn("reCAPTCHA verification failed", zap.Strings("errorCodes", result.ErrorCodes))
		return false
	}
	if result.Score < 0.5 {
		GetLogger().Warn("reCAPTCHA score too low", zap.Float64("score", result.Score))
		return false
	}
	return true
}
