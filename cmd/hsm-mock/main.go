package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/config"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/logger"
)

// Development stand-in for the signing service: it HMACs whatever payload it
// receives and always reports success.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	key := []byte(cfg.HSMSigningKey)

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/sign", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Payload string `json:"payload"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid request body"}`))

			return
		}

		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(body.Payload))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "signed",
			"signature": hex.EncodeToString(mac.Sum(nil)),
		})
	})

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info().Str("addr", addr).Msg("starting mock hsm")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
