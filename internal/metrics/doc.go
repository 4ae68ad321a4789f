// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package metrics provides Prometheus instrumentation for the pipeline.

All collectors are registered on the default registry through promauto and
are prefixed with synthrec_.

# Available Metrics

Generation:
  - synthrec_generated_interactions_total{domain,label}
  - synthrec_generated_sparsity_ratio{domain}
  - synthrec_negative_sampling_attempts_total{domain}

Training:
  - synthrec_training_epochs_total{domain}
  - synthrec_training_epoch_loss{domain}
  - synthrec_training_duration_seconds{domain}

Recommendations:
  - synthrec_recommendations_total{domain,source}
  - synthrec_recommendation_errors_total{domain,reason}
  - synthrec_precompute_duration_seconds{domain}
  - synthrec_precomputed_users{domain}

API:
  - synthrec_api_requests_total{method,endpoint,status_code}
  - synthrec_api_request_duration_seconds{method,endpoint}
  - synthrec_api_rate_limit_hits_total{endpoint}

# Batch Commands

The server exposes /metrics for scraping. The generate, train and precompute
commands exit before a scrape could happen, so they write the registry to
a node_exporter textfile when metrics.textfile is configured:

	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.Warn().Err(err).Msg("failed to write metrics textfile")
	}
*/
package metrics
