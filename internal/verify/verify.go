package verify

import (
	"context"
	"log/slog"

	"github.com/opsrecon/hashverify/internal/lookup"
)

// Submitter performs one lookup round-trip. Calls are independent: no state
// is shared between the two submissions made for a token, which keeps the
// contract compatible with a concurrent variant even though this loop is
// strictly sequential.
type Submitter interface {
	Submit(ctx context.Context, token string) (*lookup.Result, error)
}

// FailureSink records tokens whose lookups failed at the transport or
// server level. Append errors abort the run.
type FailureSink interface {
	Append(token string) error
}

// Progress is invoked after each fully handled token with the running
// processed count and the fixed total. The loop itself never prints.
type Progress func(processed, total int)

// Decision classifies the pair of lookups performed for one token.
type Decision int

const (
	// TransientFailure: at least one submission produced no usable result.
	TransientFailure Decision = iota
	// NoMatch: both submissions succeeded but the keys are absent on either
	// side or unequal.
	NoMatch
	// Match: both submissions succeeded with equal, non-empty keys.
	Match
)

// Decide applies the match rule to two lookup results; nil stands for a
// failed submission. Key comparison is exact string equality, no folding.
func Decide(first, second *lookup.Result) Decision {
	if first == nil || second == nil {
		return TransientFailure
	}
	if first.Key == "" || second.Key == "" {
		return NoMatch
	}
	if first.Key != second.Key {
		return NoMatch
	}
	return Match
}

// Outcome is the result of one verification run.
type Outcome struct {
	// Matched reports whether some token produced a match before the
	// sequence was exhausted.
	Matched bool
	// Token is the matching token when Matched is true.
	Token string
	// Result is the representative payload for a match: the first of the
	// two lookups performed for the matching token.
	Result *lookup.Result
}

// Run verifies tokens one at a time, in order, two lookups per token.
//
// A token whose first lookup fails is logged to the sink and the second
// lookup is never issued for it. A failing token counts once toward the
// processed total even when both attempts would have failed. The loop halts
// on the first match; the matching token is not counted as processed
// because the run ends before its accounting branch.
//
// Only sink append errors abort the run; lookup failures never do.
func Run(ctx context.Context, tokens []string, client Submitter, sink FailureSink, onProgress Progress) (Outcome, error) {
	total := len(tokens)
	processed := 0

	advance := func() {
		processed++
		if onProgress != nil {
			onProgress(processed, total)
		}
	}

	for _, token := range tokens {
		first, err := client.Submit(ctx, token)
		if err != nil {
			slog.Warn("lookup failed", "token", token, "attempt", 1, "err", err)
			if err := sink.Append(token); err != nil {
				return Outcome{}, err
			}
			advance()
			continue
		}

		// The match rule requires two independent observations; a single
		// response is never sufficient.
		second, err := client.Submit(ctx, token)
		if err != nil {
			slog.Warn("lookup failed", "token", token, "attempt", 2, "err", err)
			if err := sink.Append(token); err != nil {
				return Outcome{}, err
			}
			advance()
			continue
		}

		if Decide(first, second) == Match {
			return Outcome{Matched: true, Token: token, Result: first}, nil
		}
		advance()
	}

	return Outcome{}, nil
}
