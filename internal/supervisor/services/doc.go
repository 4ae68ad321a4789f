// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

/*
Package services provides suture.Service wrappers for the API server.

Each wrapper implements suture's Serve(ctx) error, returns ctx.Err() on
cancellation and names itself through fmt.Stringer for supervisor events.

HTTPServerService:
  - Runs *http.Server.ListenAndServe in a goroutine
  - Calls Shutdown with a bounded timeout once ctx is canceled
  - Treats http.ErrServerClosed as a clean exit

ModelReloadService:
  - Polls the checkpoint directory through a ModelReloader
  - Optionally reloads once on startup
  - Logs failed cycles and keeps the previous models serving
  - Records synthrec_model_reloads_total by result
*/
package services
