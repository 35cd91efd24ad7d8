package werger

import (
	"math"
	"testing"
)

func TestBleuPerfectMatch(t *testing.T) {
	b := newBleuStats(4)
	b.add([]string{"the", "cat", "sat", "down"}, []string{"the", "cat", "sat", "down"})

	bleu, precisions, bp := b.score()
	if math.Abs(bleu-1) > 1e-9 {
		t.Errorf("BLEU = %v, want 1", bleu)
	}
	for i, p := range precisions {
		if math.Abs(p-1) > 1e-9 {
			t.Errorf("precision[%d] = %v, want 1", i, p)
		}
	}
	if bp != 1 {
		t.Errorf("brevity penalty = %v, want 1", bp)
	}
}

func TestBleuClipping(t *testing.T) {
	b := newBleuStats(2)
	// "the" appears once in the reference, so only one of three counts.
	b.add([]string{"the", "the", "the"}, []string{"the", "cat"})

	bleu, precisions, _ := b.score()
	if math.Abs(precisions[0]-1.0/3.0) > 1e-9 {
		t.Errorf("unigram precision = %v, want 1/3", precisions[0])
	}
	if precisions[1] != 0 {
		t.Errorf("bigram precision = %v, want 0", precisions[1])
	}
	if bleu != 0 {
		t.Errorf("BLEU = %v, want 0", bleu)
	}
}

func TestBleuBrevityPenalty(t *testing.T) {
	b := newBleuStats(2)
	b.add([]string{"the", "cat"}, []string{"the", "cat", "sat"})

	bleu, _, bp := b.score()
	want := math.Exp(1 - 3.0/2.0)
	if math.Abs(bp-want) > 1e-9 {
		t.Errorf("brevity penalty = %v, want %v", bp, want)
	}
	// Both precisions are 1, so BLEU equals the penalty.
	if math.Abs(bleu-want) > 1e-9 {
		t.Errorf("BLEU = %v, want %v", bleu, want)
	}
}

func TestBleuEmptyHypothesis(t *testing.T) {
	b := newBleuStats(4)
	b.add(nil, []string{"the", "cat"})

	bleu, _, bp := b.score()
	if bleu != 0 || bp != 0 {
		t.Errorf("BLEU, bp = %v, %v; want 0, 0", bleu, bp)
	}
}

func TestBleuCorpusAccumulation(t *testing.T) {
	// Two sentences pooled: 3 of 4 unigrams match.
	b := newBleuStats(1)
	b.add([]string{"the", "cat"}, []string{"the", "cat"})
	b.add([]string{"a", "dog"}, []string{"one", "dog"})

	_, precisions, _ := b.score()
	if math.Abs(precisions[0]-0.75) > 1e-9 {
		t.Errorf("unigram precision = %v, want 0.75", precisions[0])
	}
}
