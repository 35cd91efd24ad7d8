package werger

import (
	"math"

	"github.com/happyhackingspace/werger/internal/textutil"
)

// bleuStats accumulates corpus-level clipped n-gram matches.
type bleuStats struct {
	matches []int
	totals  []int
	hypLen  int
	refLen  int
}

func newBleuStats(maxOrder int) *bleuStats {
	return &bleuStats{
		matches: make([]int, maxOrder),
		totals:  make([]int, maxOrder),
	}
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for _, g := range textutil.TokenNgrams(tokens, n, n) {
		counts[g]++
	}
	return counts
}

// add tallies one hypothesis against its reference. Each hypothesis
// n-gram counts at most as often as it appears in the reference.
func (b *bleuStats) add(hyp, ref []string) {
	b.hypLen += len(hyp)
	b.refLen += len(ref)
	for n := 1; n <= len(b.matches); n++ {
		if len(hyp) < n {
			break
		}
		b.totals[n-1] += len(hyp) - n + 1
		refCounts := ngramCounts(ref, n)
		for g, c := range ngramCounts(hyp, n) {
			if rc := refCounts[g]; rc < c {
				c = rc
			}
			b.matches[n-1] += c
		}
	}
}

// score returns corpus BLEU, the per-order modified precisions and the
// brevity penalty. Any zero precision zeroes the whole score.
func (b *bleuStats) score() (bleu float64, precisions []float64, bp float64) {
	precisions = make([]float64, len(b.matches))
	logSum := 0.0
	zero := false
	for i := range precisions {
		if b.totals[i] > 0 {
			precisions[i] = float64(b.matches[i]) / float64(b.totals[i])
		}
		if precisions[i] == 0 {
			zero = true
			continue
		}
		logSum += math.Log(precisions[i])
	}

	if b.hypLen == 0 {
		return 0, precisions, 0
	}
	bp = 1.0
	if b.hypLen < b.refLen {
		bp = math.Exp(1 - float64(b.refLen)/float64(b.hypLen))
	}
	if zero {
		return 0, precisions, bp
	}
	return bp * math.Exp(logSum/float64(len(precisions))), precisions, bp
}
