// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Server serves recommendations over HTTP.

It loads the newest checkpoint of every domain from the model directory and
polls for newer ones written by the train command. Precomputed lists are
read from the JSON files in the output directory and from the badger store
written by precompute.

	GET  /api/health
	GET  /api/stats?dataType=ott
	GET  /api/recommendations/{dataType}/{userId}?topK=10
	POST /api/recommend-simple   {"dataType":"ott","userId":3,"topK":10}
	POST /api/recommend          {"dataType":"ott","userId":3,"topK":10}
	GET  /metrics

The HTTP server and the model reload loop run under a suture supervisor
tree and stop on SIGINT or SIGTERM.

# Usage

	server [flags]

Flags:

	--host             listen host (server.host)
	--port             listen port (server.port)
	--store-path       badger store path (precompute.store_path)
	--reload-interval  checkpoint poll interval (server.reload_interval)
	--data-dir, --model-dir, --output-dir
	--log-level, --log-format, --metrics-textfile

Every setting can also come from config.yaml (or CONFIG_PATH) and from
environment variables such as HTTP_PORT and RATE_LIMIT_REQUESTS.

The badger store is locked by one process at a time. Run precompute before
starting the server, or the stored-list route answers 503.
*/
package main
