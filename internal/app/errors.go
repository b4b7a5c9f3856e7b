package service

import "github.com/okian/wordscore/internal/domain/dedupe"

// ErrSubmissionInFlight reports an Idempotency-Key whose first request has
// not completed yet.
var ErrSubmissionInFlight = dedupe.ErrKeyInFlight

// ErrIdempotencyKeyReused reports an Idempotency-Key sent again with
// different letters than its first request.
var ErrIdempotencyKeyReused = dedupe.ErrKeyReused
