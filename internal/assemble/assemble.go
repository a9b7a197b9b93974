// Package assemble builds an embeddable Python runtime tree for the bridge:
// the interpreter distribution, optional wheels, and the helper module the
// native library imports from site-packages.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mt5bridge-go/internal/metrics"
)

// chunkSize is the 1 MiB read granularity download progress is reported at.
const chunkSize = 1 << 20

// ErrSupportFileMissing reports that the bridge helper module to install
// into site-packages does not exist.
var ErrSupportFileMissing = errors.New("bridge helper module missing")

// Spec describes one assembly run.
type Spec struct {
	PythonURL   string   // embeddable Python zip distribution
	Wheels      []string // wheel URLs extracted into site-packages
	OutputDir   string   // destination for the runtime tree
	SupportFile string   // helper module copied into site-packages
}

// Assembler downloads and unpacks the runtime strictly sequentially. Any
// failure aborts the run; partially written files are left in place.
type Assembler struct {
	client *http.Client
	log    zerolog.Logger
}

// New builds an Assembler logging progress through log.
func New(log zerolog.Logger) *Assembler {
	return &Assembler{client: &http.Client{}, log: log}
}

// Run executes the pipeline: runtime download and extract, wheel downloads
// and extracts through a scoped temp dir, then the support-file copy.
func (a *Assembler) Run(ctx context.Context, spec Spec) error {
	outputDir, err := filepath.Abs(spec.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	archive := filepath.Join(outputDir, "python_embed.zip")
	a.log.Info().Str("url", spec.PythonURL).Msg("downloading python runtime")
	if err := a.download(ctx, spec.PythonURL, archive); err != nil {
		return err
	}
	a.log.Info().Msg("extracting python runtime")
	if err := extractZip(archive, outputDir); err != nil {
		return err
	}
	metrics.ArchivesExtracted.WithLabelValues("runtime").Inc()

	sitePackages := filepath.Join(outputDir, "Lib", "site-packages")
	if err := os.MkdirAll(sitePackages, 0o755); err != nil {
		return fmt.Errorf("create site-packages: %w", err)
	}

	if err := a.installWheels(ctx, spec.Wheels, sitePackages); err != nil {
		return err
	}

	if err := copySupportFile(spec.SupportFile, sitePackages); err != nil {
		return err
	}
	a.log.Info().Str("module", filepath.Base(spec.SupportFile)).Msg("copied helper module into site-packages")
	return nil
}

// installWheels downloads each wheel into a temp dir that is removed when
// the step completes, extracting every archive into sitePackages.
func (a *Assembler) installWheels(ctx context.Context, wheels []string, sitePackages string) error {
	if len(wheels) == 0 {
		return nil
	}
	tmpDir, err := os.MkdirTemp("", "pyruntime-wheels-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, url := range wheels {
		name := url[strings.LastIndex(url, "/")+1:]
		dest := filepath.Join(tmpDir, name)
		a.log.Info().Str("wheel", name).Msg("downloading wheel")
		if err := a.download(ctx, url, dest); err != nil {
			return err
		}
		a.log.Info().Str("wheel", name).Msg("extracting wheel")
		if err := extractZip(dest, sitePackages); err != nil {
			return err
		}
		metrics.ArchivesExtracted.WithLabelValues("wheel").Inc()
	}
	return nil
}

// download streams url to dest in fixed-size chunks, reporting coarse
// percentage progress when the server announces a content length.
func (a *Assembler) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	total := resp.ContentLength
	buf := make([]byte, chunkSize)
	var written int64
	lastPercent := int64(-1)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			written += int64(n)
			metrics.DownloadBytes.Add(float64(n))
			if total > 0 {
				if percent := written * 100 / total; percent != lastPercent {
					lastPercent = percent
					a.log.Debug().Int64("percent", percent).Str("dest", filepath.Base(dest)).Msg("downloaded")
				}
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("download %s: %w", url, readErr)
		}
	}
}

func copySupportFile(src, sitePackages string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSupportFileMissing, src)
		}
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	dest := filepath.Join(sitePackages, filepath.Base(src))
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	return out.Close()
}
