// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package api provides the HTTP API that serves dataset statistics and
recommendations produced by the pipeline.

# Endpoints

	GET  /api/health                                  liveness and loaded models
	GET  /api/stats?dataType=ott                      dataset metadata summary
	GET  /api/recommendations/{dataType}/{userId}     precomputed list from BadgerDB
	POST /api/recommend-simple                        precomputed list from the JSON file
	POST /api/recommend                               live inference on the loaded model
	GET  /metrics                                     Prometheus exposition

The POST endpoints take {"dataType": "ott", "userId": 3, "topK": 10}. topK
defaults to 10 and is capped at 100.

# Response Format

Every /api response uses the same envelope:

	{
	  "success": true,
	  "data": {"userId": 3, "dataType": "ott", "recommendations": [{"itemId": 7, "score": 0.93}]},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 0, "source": "precomputed"}
	}

Errors set success to false and carry {"code", "message", "details"}.
A missing dataset, model, file or user is a 404; malformed or out-of-range
input is a 400.

# Middleware

Global: request ID with logging context, real IP, panic recovery, Prometheus
request metrics and CORS. Under /api: security headers and gzip. Everything
except /api/health is rate limited per client IP with go-chi/httprate; a
limited request gets a JSON 429 with Retry-After.

# Models

ModelRegistry holds the newest checkpoint per domain. The server's reload
service calls ReloadAll on an interval so newly trained models are picked up
without a restart.
*/
package api
