package dedupe

// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent AI judge calls. Two simultaneous requests for the same matchup
// share one OpenAI round-trip while both callers wait for the result.

import "golang.org/x/sync/singleflight"

// JudgeGroup deduplicates AI judgment requests. Keys include both battle
// texts, so an edited text never reuses a stale verdict.
var JudgeGroup singleflight.Group
