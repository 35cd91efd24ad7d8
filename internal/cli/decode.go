package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/happyhackingspace/werger"
	"github.com/happyhackingspace/werger/internal/htmlutil"
	"github.com/happyhackingspace/werger/internal/textutil"
	"github.com/spf13/cobra"
)

func (c *CLI) newDecodeCommand() *cobra.Command {
	var tmPath string
	var lmPath string
	var beamSize int
	var maxTranslations int
	var maxSentences int
	var jobs int
	var tokenize bool
	var html bool
	var scores bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "decode [url-or-file]",
		Short: "Translate sentences from a file, URL, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Translate a tokenized text file, one sentence per line
  wergêr decode input.txt --tm phrase-table.txt --lm europarl.arpa

  # Pipe sentences from stdin
  cat input.txt | wergêr decode --tm phrase-table.txt --lm europarl.arpa

  # Translate the text of a web page
  wergêr decode https://www.gouvernement.fr --tm phrase-table.db --lm europarl.arpa.gz

  # Tokenize raw text before decoding
  wergêr decode notes.txt --tokenize --tm phrase-table.txt --lm europarl.arpa

  # Wider beam and more candidate translations per phrase
  wergêr decode input.txt --tm phrase-table.txt --lm europarl.arpa -b 32 -k 10

  # Per-sentence model scores on stderr
  wergêr decode input.txt --tm phrase-table.txt --lm europarl.arpa --scores

  # Write translations to a file
  wergêr decode input.txt --tm phrase-table.txt --lm europarl.arpa -o out.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			var target string
			var err error

			if len(args) == 0 {
				if isStdinTerminal() {
					return cmd.Help()
				}
				content, target, err = readFromStdin()
				if err != nil {
					return err
				}
			} else {
				target = args[0]
				slog.Debug("Fetching input", "target", target)
				content, err = fetchContent(target)
				if err != nil {
					return err
				}
			}
			slog.Debug("Input fetched", "target", target, "bytes", len(content))

			isHTML := html || strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
			sentences, err := splitSentences(content, isHTML, tokenize)
			if err != nil {
				return err
			}
			if maxSentences > 0 && len(sentences) > maxSentences {
				sentences = sentences[:maxSentences]
			}

			tmPath, lmPath, err = resolveModels(tmPath, lmPath)
			if err != nil {
				return err
			}

			start := time.Now()
			tr, err := werger.Load(tmPath, lmPath, &werger.Config{
				BeamSize:        beamSize,
				MaxTranslations: maxTranslations,
				Jobs:            jobs,
			})
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()
			slog.Debug("Models loaded", "duration", time.Since(start))

			start = time.Now()
			results, decodeErr := tr.TranslateAll(sentences)
			slog.Debug("Decoding completed", "sentences", len(sentences), "duration", time.Since(start))

			out := io.Writer(os.Stdout)
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			for _, r := range results {
				if r == nil {
					fmt.Fprintln(out)
					continue
				}
				fmt.Fprintln(out, r.Text())
				if scores {
					fmt.Fprintf(os.Stderr, "LM = %f, TM = %f, Total = %f\n", r.LM, r.TM, r.Logprob)
				}
			}
			return decodeErr
		},
	}

	cmd.Flags().StringVar(&tmPath, "tm", "", "Path to phrase table (default: auto-detect or download)")
	cmd.Flags().StringVar(&lmPath, "lm", "", "Path to ARPA language model (default: auto-detect or download)")
	cmd.Flags().IntVarP(&beamSize, "beam-size", "b", 1, "Hypotheses expanded per stack")
	cmd.Flags().IntVarP(&maxTranslations, "max-translations", "k", 1, "Candidate translations per phrase (0 = all)")
	cmd.Flags().IntVarP(&maxSentences, "max-sentences", "n", 0, "Translate only the first n sentences (0 = all)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Sentences decoded in parallel (0 = all CPUs)")
	cmd.Flags().BoolVar(&tokenize, "tokenize", false, "Tokenize raw text before decoding")
	cmd.Flags().BoolVar(&html, "html", false, "Treat input as HTML and translate its text")
	cmd.Flags().BoolVar(&scores, "scores", false, "Print per-sentence model scores to stderr")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write translations to a file instead of stdout")
	return cmd
}

// splitSentences turns raw input into tokenized sentences. HTML input
// is parsed and its prose extracted line by line; plain text splits on
// newlines, with each line taken as pre-tokenized unless tokenize is
// set. Blank lines are dropped.
func splitSentences(content string, isHTML, tokenize bool) ([][]string, error) {
	var lines []string
	if isHTML {
		doc, err := htmlutil.LoadString(content)
		if err != nil {
			return nil, fmt.Errorf("parse HTML: %w", err)
		}
		if title := htmlutil.Title(doc); title != "" {
			slog.Debug("Parsed HTML page", "title", title)
		}
		lines = htmlutil.ExtractLines(doc)
		tokenize = true
	} else {
		lines = strings.Split(content, "\n")
	}

	var sentences [][]string
	for _, line := range lines {
		var words []string
		if tokenize {
			words = textutil.Tokenize(textutil.Normalize(line))
		} else {
			words = strings.Fields(line)
		}
		if len(words) > 0 {
			sentences = append(sentences, words)
		}
	}
	return sentences, nil
}

// resolveModels fills empty model paths by searching the working
// directory and the cache, downloading the default bundle on a miss.
func resolveModels(tmPath, lmPath string) (string, string, error) {
	if tmPath == "" {
		tmPath = findModel(defaultTM)
	}
	if lmPath == "" {
		lmPath = findModel(defaultLM)
	}
	if tmPath != "" && lmPath != "" {
		return tmPath, lmPath, nil
	}

	dir := werger.ModelDir()
	slog.Info("Models not found, downloading", "url", modelsURL, "dest", dir)
	if err := downloadModels(dir); err != nil {
		return "", "", err
	}
	if tmPath == "" {
		tmPath = filepath.Join(dir, defaultTM)
	}
	if lmPath == "" {
		lmPath = filepath.Join(dir, defaultLM)
	}
	return tmPath, lmPath, nil
}

// findModel looks for name in the current directory and its parents up
// to the module root (where go.mod lives), then in the cache directory.
// It returns "" when the file is nowhere to be found.
func findModel(name string) string {
	if dir, err := os.Getwd(); err == nil {
		for {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
			// Stop at module root
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	path := filepath.Join(werger.ModelDir(), name)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func fetchContent(target string) (string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		resp, err := http.Get(target)
		if err != nil {
			return "", fmt.Errorf("fetch URL: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		return string(body), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func readFromStdin() (string, string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return "", "", fmt.Errorf("stdin is empty")
	}

	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		slog.Debug("Stdin contains URL", "url", content)
		page, err := fetchContent(content)
		if err != nil {
			return "", "", err
		}
		return page, content, nil
	}

	return content, "stdin", nil
}
