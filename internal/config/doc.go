// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package config provides centralized configuration management for Synthrec.

Configuration is loaded with Koanf v2 from layered sources, highest priority last:

 1. Built-in defaults (structs provider)
 2. YAML config file (CONFIG_PATH, ./config.yaml, /etc/synthrec/config.yaml)
 3. Environment variables (explicit mapping, unknown variables ignored)
 4. Command-line flags that were explicitly set (confmap provider)

# Sections

  - generate: synthetic data sizes, seed, per-domain sparsity, negative ratio
  - train: epochs, batch size, learning rate, embedding and hidden layer sizes
  - precompute: default top-K and the badger store location
  - paths: data, model and precomputed output directories
  - server: HTTP listen address, timeouts, rate limiting, CORS
  - logging: level, format, caller
  - metrics: optional Prometheus textfile for batch commands

# Environment Variables

	SYNTHREC_N_USERS, SYNTHREC_N_ITEMS, SYNTHREC_SEED
	SYNTHREC_SPARSITY_OTT, SYNTHREC_SPARSITY_SOCIAL, SYNTHREC_SPARSITY_MEDIA
	SYNTHREC_EPOCHS, SYNTHREC_BATCH_SIZE, SYNTHREC_LEARNING_RATE
	SYNTHREC_EMBEDDING_DIM, SYNTHREC_HIDDEN_DIMS (comma-separated)
	SYNTHREC_DATA_DIR, SYNTHREC_MODEL_DIR, SYNTHREC_OUTPUT_DIR
	HTTP_HOST, HTTP_PORT, RATE_LIMIT_REQUESTS, CORS_ORIGINS
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER, METRICS_TEXTFILE

# Validation

Validate runs the go-playground/validator tags declared on the config
structs through internal/validation, then checks cross-field rules.
*/
package config
