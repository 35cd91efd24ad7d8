package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/happyhackingspace/werger"
	"github.com/happyhackingspace/werger/decoder"
	"github.com/happyhackingspace/werger/internal/modelfile"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var tmPath string
	var lmPath string
	var beamSize int
	var maxTranslations int
	var jobs int
	var maxOrder int
	var diff bool

	cmd := &cobra.Command{
		Use:   "evaluate <source> <reference>",
		Short: "Score translations against a reference with corpus BLEU",
		Args:  cobra.ExactArgs(2),
		Example: `  # Score a test set
  wergêr evaluate test.fr test.en --tm phrase-table.txt --lm europarl.arpa

  # Compressed test sets work too
  wergêr evaluate test.fr.gz test.en.gz --tm phrase-table.db --lm europarl.arpa.gz

  # Wider beam, BLEU up to 2-grams only
  wergêr evaluate test.fr test.en --tm phrase-table.txt --lm europarl.arpa -b 32 --max-order 2

  # Show a diff for every mistranslated sentence
  wergêr evaluate test.fr test.en --tm phrase-table.txt --lm europarl.arpa --diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSentences(args[0])
			if err != nil {
				return err
			}
			refs, err := readSentences(args[1])
			if err != nil {
				return err
			}

			tmPath, lmPath, err = resolveModels(tmPath, lmPath)
			if err != nil {
				return err
			}
			tr, err := werger.Load(tmPath, lmPath, &werger.Config{
				BeamSize:        beamSize,
				MaxTranslations: maxTranslations,
				Jobs:            jobs,
			})
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			slog.Info("Evaluating", "sentences", len(sources))
			start := time.Now()
			results, decodeErr := tr.TranslateAll(sources)
			if decodeErr != nil {
				slog.Warn("Sentences failed during evaluation", "error", decodeErr)
			}
			res, err := werger.Score(results, refs, &werger.EvalConfig{MaxOrder: maxOrder})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			fmt.Printf("BLEU: %.2f\n", res.BLEU*100)
			fmt.Printf("Precisions:")
			for i, p := range res.Precisions {
				fmt.Printf("  %d-gram %.1f%%", i+1, p*100)
			}
			fmt.Printf("\n")
			fmt.Printf("Brevity penalty: %.3f (%d/%d words)\n",
				res.BrevityPenalty, res.HypothesisLen, res.ReferenceLen)
			fmt.Printf("Sentences: %d (%d failed)\n", res.Sentences, res.Failed)
			fmt.Printf("Average logprob: %.2f\n", res.AvgLogprob)

			if diff {
				printDiffs(results, refs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tmPath, "tm", "", "Path to phrase table (default: auto-detect or download)")
	cmd.Flags().StringVar(&lmPath, "lm", "", "Path to ARPA language model (default: auto-detect or download)")
	cmd.Flags().IntVarP(&beamSize, "beam-size", "b", 1, "Hypotheses expanded per stack")
	cmd.Flags().IntVarP(&maxTranslations, "max-translations", "k", 1, "Candidate translations per phrase (0 = all)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Sentences decoded in parallel (0 = all CPUs)")
	cmd.Flags().IntVar(&maxOrder, "max-order", 4, "Highest n-gram order scored")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff for every sentence that misses its reference")
	return cmd
}

// readSentences reads one whitespace-tokenized sentence per line. Blank
// lines stay in place as empty sentences to keep the files aligned.
func readSentences(path string) ([][]string, error) {
	f, err := modelfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var sentences [][]string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		sentences = append(sentences, strings.Fields(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sentences, nil
}

func printDiffs(results []*decoder.Result, refs [][]string) {
	dmp := diffmatchpatch.New()
	for i, r := range results {
		if r == nil {
			continue
		}
		hyp := r.Text()
		ref := strings.Join(refs[i], " ")
		if hyp == ref {
			continue
		}
		diffs := dmp.DiffMain(ref, hyp, false)
		fmt.Printf("\nsentence %d:\n%s\n", i+1, dmp.DiffPrettyText(diffs))
	}
}
