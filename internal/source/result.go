// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries the two sequence databases. Each client call
// completes with a Result: a FASTA entry, a clean miss, or a failure that
// has already been logged. No error from a remote service crosses this
// package boundary any other way.
package source

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/seqref/pkg/types"
)

// Kind tags a Result.
type Kind int

const (
	KindMiss Kind = iota
	KindFound
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindFailed:
		return "failed"
	default:
		return "miss"
	}
}

// Result is the outcome of one client lookup.
type Result struct {
	Kind Kind

	// Sequence is the FASTA entry when Kind is KindFound.
	Sequence string

	// Reason says why a lookup missed ("no identifier", "not a sequence
	// record"). Diagnostic only.
	Reason string

	// Err is the transport or service error when Kind is KindFailed.
	Err error
}

// Found wraps a sequence record.
func Found(seq string) Result { return Result{Kind: KindFound, Sequence: seq} }

// Miss records a lookup that completed without a usable record.
func Miss(reason string) Result { return Result{Kind: KindMiss, Reason: reason} }

// Failed records a transport or service failure.
func Failed(err error) Result { return Result{Kind: KindFailed, Err: err} }

// OK reports whether the result carries a sequence.
func (r Result) OK() bool { return r.Kind == KindFound }

func (r Result) String() string {
	switch r.Kind {
	case KindFound:
		return "found"
	case KindFailed:
		return fmt.Sprintf("failed: %v", r.Err)
	default:
		if r.Reason == "" {
			return "miss"
		}
		return "miss: " + r.Reason
	}
}

// Miss reasons.
const (
	reasonNoIdentifier = "no identifier"
	reasonNoMatch      = "no match"
	reasonNotFASTA     = "not a sequence record"
)

// accept classifies a response body. Only text starting with the FASTA
// header marker is kept; everything else is a miss, not an error.
func accept(body string, log *zap.Logger, msg string) Result {
	body = strings.TrimSpace(body)
	switch {
	case body == "":
		log.Debug(msg, zap.String("reason", reasonNoMatch))
		return Miss(reasonNoMatch)
	case !types.IsSequenceRecord(body):
		log.Debug(msg, zap.String("reason", reasonNotFASTA))
		return Miss(reasonNotFASTA)
	}
	return Found(body)
}
