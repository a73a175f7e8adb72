package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Job queue errors
	ErrJobNotFound  = errors.New("retrain job not found")
	ErrJobFinalized = errors.New("retrain job already in a terminal state")
	ErrDuplicateJob = errors.New("an active retrain job already exists for this season")

	// Worker errors
	ErrNoTrainingOutput = errors.New("training pipeline returned no output")

	// Trainer errors
	ErrTrainerNotConfigured = errors.New("no training pipeline command configured")
)
