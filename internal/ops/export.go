package ops

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/render"
)

// PayloadEncoding is the transport encoding of ExportOutput.Payload.
const PayloadEncoding = "base64"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ID     string
	Format string // txt, md, html, docx, pdf, vtt; unknown falls back to txt

	// Both default to true when nil
	IncludeChapters    *bool
	IncludeActionItems *bool

	// Path optionally writes the artifact to disk. It must sit directly in
	// ~/.callsnap/exports or an allowed path and carry the format's extension.
	Path string
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Export   meeting.ExportDescriptor `json:"export"`
	Payload  string                   `json:"payload"`
	Encoding string                   `json:"encoding"`
	Path     string                   `json:"path,omitempty"`
}

// Export renders a processed meeting, appends the descriptor to the export
// history and returns the payload. Requires a non-empty summary.
func Export(ctx context.Context, env *Env, input ExportInput) (_ *ExportOutput, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "export", id)
	defer func() { done(err) }()

	format, known := render.ResolveFormat(input.Format)
	if !known && strings.TrimSpace(input.Format) != "" {
		logger.Warnf("unknown export format %q, using %s", input.Format, format)
	}

	if input.Path != "" {
		if err := ValidatePath(input.Path, render.Extension(format), env.config()); err != nil {
			return nil, err
		}
	}

	current, err := env.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(current.Summary) == "" {
		return nil, errors.NewPreconditionFailed("meeting has no summary yet; process it first")
	}

	opts := render.DefaultOptions()
	if input.IncludeChapters != nil {
		opts.IncludeChapters = *input.IncludeChapters
	}
	if input.IncludeActionItems != nil {
		opts.IncludeActionItems = *input.IncludeActionItems
	}

	artifact, err := render.Render(current, format, opts)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := env.now()
	exportID, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	descriptor := meeting.ExportDescriptor{
		ID:        exportID,
		CreatedAt: now,
		Format:    artifact.Format,
		FileName:  artifact.FileName,
		MimeType:  artifact.MimeType,
		Size:      len(artifact.Data),
	}

	var written string
	if input.Path != "" {
		written, err = writeArtifact(input.Path, artifact.Data)
		if err != nil {
			return nil, err
		}
	}

	_, err = env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		if strings.TrimSpace(m.Summary) == "" {
			return errors.NewPreconditionFailed("meeting has no summary yet; process it first")
		}
		m.Exports = append(m.Exports, descriptor)
		return nil
	})
	if err != nil {
		if written != "" {
			os.Remove(written)
		}
		return nil, err
	}

	env.metrics().RecordExport(artifact.Format, descriptor.Size)
	return &ExportOutput{
		Export:   descriptor,
		Payload:  base64.StdEncoding.EncodeToString(artifact.Data),
		Encoding: PayloadEncoding,
		Path:     written,
	}, nil
}

// writeArtifact writes data to path via a temp file and an atomic rename, so
// an existing file is preserved on failure. Returns the absolute path.
func writeArtifact(path string, data []byte) (string, error) {
	exportPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return "", errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return "", errors.NewInternal(err)
	}

	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("export path is a symlink")
	}

	// On Windows os.Rename fails if the destination exists. Fail safely and keep
	// the existing file rather than delete-then-rename.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return "", errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return "", errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return exportPath, nil
}
