// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

// Package algorithms implements the neural collaborative filtering model and
// its training loop.
//
// # Model
//
// NCF looks up a user row and an item row in two embedding tables,
// concatenates them and feeds the result through fully connected ReLU layers
// to a single logit, squashed by a sigmoid into an interaction probability:
//
//	x = [E_user[u], E_item[i]]        (2·D values)
//	h1 = relu(W1·x + b1)               (32 by default)
//	h2 = relu(W2·h1 + b2)              (16 by default)
//	p = sigmoid(W3·h2 + b3)            (1)
//
// Embeddings are Xavier-uniform initialized; dense layers use
// U(±1/sqrt(fan_in)) for weights and bias.
//
// # Training
//
// Trainer minimizes mean binary cross-entropy with Adam. Each epoch draws a
// fresh permutation of the samples from the injected *rand.Rand, walks it in
// contiguous batches and reports the mean of the batch losses:
//
//	rng := synth.NewRand(seed)
//	model, err := algorithms.NewNCF(algorithms.DefaultNCFConfig(nUsers, nItems), rng)
//	trainer := algorithms.NewTrainer(algorithms.DefaultTrainerConfig(), rng, logger)
//	losses, err := trainer.Train(ctx, model, users, items, labels)
//
// The model exposes the two halves of a step separately. ComputeGradients only
// reads parameters; ApplyGradientStep is the single mutator.
//
// # Persistence
//
// State and NewNCFFromState convert to and from storage.NCFModelState, which
// storage.CheckpointStore writes to disk.
//
// # Thread Safety
//
// Scoring (Score, PredictBatch, TopK) takes a shared lock and may run
// concurrently. ApplyGradientStep takes the exclusive lock.
package algorithms
