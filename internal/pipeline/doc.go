// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package pipeline runs the batch stages behind the generate, train, infer
// and precompute commands.
//
// A Runner reads paths and hyperparameters from config.Config. Each stage
// takes a request struct validated with go-playground/validator, so bad
// command-line input fails before any file is touched.
//
//	generate:   synth.BuildTrainingSet -> dataset.Save (.npy + metadata JSON)
//	train:      dataset.Load -> algorithms.Trainer -> CheckpointStore.SaveCheckpoint
//	infer:      CheckpointStore.LoadCheckpoint -> Recommender.Recommend
//	precompute: Recommender.PrecomputeAll -> JSON file + badger RecommendationStore
//
// The badger store holds a directory lock, so precompute must not run while
// the API server has the same store open.
package pipeline
