// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package supervisor runs the API server's long-lived goroutines under a
suture v4 supervisor tree.

	synthrec (root)
	├── model-layer
	│   └── model-reload      polls checkpoints, swaps in new models
	└── api-layer
	    └── http-server       chi router behind net/http

Each layer restarts its own failed services with suture's backoff. Supervisor
events are logged through sutureslog into the zerolog-backed slog handler
from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewModelReloadService(registry, reloadCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, logger))
	return tree.Serve(ctx)

The pipeline commands (generate, train, infer, precompute) are one-shot and
do not use the tree.
*/
package supervisor
