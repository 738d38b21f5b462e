// Package manager serializes access to a single inference engine. It is
// structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, Close and simple getters.
//   - config.go: Config and package defaults; New applies defaults.
//   - types.go: request/result types (Mode, Request, CompletionResult, State).
//   - errors.go: error kinds and predicates (IsEngineNotReady, IsResponseParseFailure, ...).
//   - readiness.go: Load/Start/CheckReady, the gate that holds back draining.
//   - queue.go: SubmitText/SubmitCompletion and the Future handed to callers.
//   - processor.go: the single-flight drain loop (Idle/Draining).
//   - decode.go: conversion of raw engine output into text or JSON values.
//   - embed.go: direct embedding passthrough that bypasses the queue.
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors for queue and engine activity.
//   - status_report.go: Snapshot/Status reporting.
//
// Ordering guarantees:
//
//   - Engine Predict calls happen in exact submission order, one at a time.
//   - Requests submitted before the engine is ready are held, not dropped,
//     and drained in order once Load succeeds.
//   - If Load fails the queue is never drained; pending requests stay pending
//     until Close.
//
// Embed calls are not ordered relative to the queue and may overlap a
// Predict call; engines that cannot tolerate that must serialize internally.
package manager
