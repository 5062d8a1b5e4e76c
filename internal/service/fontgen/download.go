package fontgen

import (
	"bytes"
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/hermesx-build/internal/logger"

	// Ensure SHA512 available for checksum verification.
	_ "crypto/sha512"
)

const (
	// ExecutableFileMode is applied to installed tool binaries.
	ExecutableFileMode os.FileMode = 0o755

	// checksumFunction verifies downloaded binaries.
	checksumFunction = crypto.SHA512
)

var errBadHTTPStatus = errors.New("unexpected http status")

// fetch opens url and checks the response status.
func (g *generator) fetch(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()

		return nil, fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	return response, nil
}

// downloadFile stores url at dest. The body goes to a temporary file next to
// dest that is renamed on success and removed on every failure.
func (g *generator) downloadFile(ctx context.Context, url, dest string) (err error) {
	logger.InfoKV(ctx, "Downloading", "url", url, "path", dest)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	response, err := g.fetch(ctx, url)
	if err != nil {
		return err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	part, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = part.Close()
			_ = os.Remove(part.Name())
		}
	}()

	if _, err = io.Copy(part, response.Body); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	if err = part.Close(); err != nil {
		return err
	}

	return os.Rename(part.Name(), dest)
}

// installBinary downloads an executable and applies it at target with go-update,
// verifying the configured checksum when there is one.
func (g *generator) installBinary(ctx context.Context, url, target string) error {
	logger.InfoKV(ctx, "Downloading", "url", url, "path", target)

	fetchCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	response, err := g.fetch(fetchCtx, url)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(response.Body)
	_ = response.Body.Close()

	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: ExecutableFileMode,
	}

	if g.cfg.BdfconvChecksum != "" {
		checksum, err := base64.StdEncoding.DecodeString(g.cfg.BdfconvChecksum)
		if err != nil {
			return fmt.Errorf("decode bdfconv checksum: %w", err)
		}

		options.Checksum = checksum
		options.Hash = checksumFunction
	}

	// go-update swaps an existing file, so give it one to replace.
	created := false

	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		if placeholder, err = os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY, ExecutableFileMode); err != nil {
			return err
		}

		if err = placeholder.Close(); err != nil {
			return err
		}

		created = true
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		if created {
			_ = os.Remove(target)
		}

		return fmt.Errorf("install %s: %w", target, err)
	}

	oldFileName := target + ".old"
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}
