package cli

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/happyhackingspace/werger"
	"github.com/spf13/cobra"
)

const modelsURL = "https://huggingface.co/datasets/happyhackingspace/werger/resolve/main/models.tar.gz"

// Names of the files inside the default model bundle.
const (
	defaultTM = "phrase-table.db"
	defaultLM = "lm.arpa.gz"
)

func (c *CLI) newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Manage model files (download/upload via Hugging Face)",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var downloadFolder string
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the default phrase table and language model",
		Example: `  wergêr data download
  wergêr data download --models-folder models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := downloadFolder
			if folder == "" {
				folder = werger.ModelDir()
			}
			return downloadModels(folder)
		},
	}
	downloadCmd.Flags().StringVar(&downloadFolder, "models-folder", "", "Destination folder (default: user cache dir)")

	var uploadFolder string
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload model files to Hugging Face",
		Example: `  wergêr data upload
  wergêr data upload --models-folder models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return modelsUpload(uploadFolder)
		},
	}
	uploadCmd.Flags().StringVar(&uploadFolder, "models-folder", "models", "Source folder for model files")

	dataCmd.AddCommand(downloadCmd, uploadCmd)
	return dataCmd
}

// downloadModels fetches the default model bundle and extracts it into
// folder, replacing whatever was there before.
func downloadModels(folder string) error {
	slog.Info("Downloading models", "url", modelsURL)
	resp, err := http.Get(modelsURL)
	if err != nil {
		return fmt.Errorf("download models: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download models: HTTP %d", resp.StatusCode)
	}

	if err := os.RemoveAll(folder); err != nil {
		return fmt.Errorf("remove existing %s: %w", folder, err)
	}

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	tr := tar.NewReader(gr)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target := filepath.Join(folder, strings.TrimPrefix(hdr.Name, "models/"))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent dir: %w", err)
			}
			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				_ = f.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			_ = f.Close()
			count++
		}
	}
	slog.Info("Models extracted", "files", count, "folder", folder)
	return nil
}

func modelsUpload(folder string) error {
	if _, err := exec.LookPath("huggingface-cli"); err != nil {
		return fmt.Errorf("huggingface-cli not found in PATH; install with: pip install huggingface_hub")
	}

	tarPath := "models.tar.gz"
	slog.Info("Creating archive", "source", folder, "dest", tarPath)

	tf, err := os.Create(tarPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", tarPath, err)
	}

	gw := gzip.NewWriter(tf)
	tw := tar.NewWriter(gw)

	err = filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(filepath.Join("models", rel))
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		_ = tw.Close()
		_ = gw.Close()
		_ = tf.Close()
		return fmt.Errorf("create archive: %w", err)
	}
	if err := tw.Close(); err != nil {
		_ = gw.Close()
		_ = tf.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		_ = tf.Close()
		return fmt.Errorf("close gzip: %w", err)
	}
	_ = tf.Close()
	slog.Info("Archive created", "path", tarPath)

	slog.Info("Uploading models.tar.gz")
	cmd := exec.Command("huggingface-cli", "upload", "happyhackingspace/werger", tarPath, "models.tar.gz", "--repo-type", "dataset")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upload models.tar.gz: %w", err)
	}

	slog.Info("Uploading models folder")
	cmd = exec.Command("huggingface-cli", "upload", "happyhackingspace/werger", folder, "models/", "--repo-type", "dataset")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upload models folder: %w", err)
	}

	slog.Info("Upload complete")
	return nil
}
