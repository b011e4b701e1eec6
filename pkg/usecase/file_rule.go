package usecase

import (
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// FileRule decides which local files a view accepts. A file passes when its MIME type
// matches or its lowercase extension is listed.
type FileRule struct {
	MIMEPrefixes []string
	MIMETypes    []string
	Extensions   []string
	Message      string
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

var (
	// DocumentRule accepts PDFs and images for document upload
	DocumentRule = FileRule{
		MIMEPrefixes: []string{"image/"},
		MIMETypes:    []string{"application/pdf"},
		Extensions:   append([]string{".pdf"}, imageExtensions...),
		Message:      "Please select a PDF or image file (JPG, PNG, BMP, TIFF)",
	}

	// ImageRule accepts images for image analysis
	ImageRule = FileRule{
		MIMEPrefixes: []string{"image/"},
		Extensions:   imageExtensions,
		Message:      "Please select an image file (JPG, PNG, BMP, TIFF)",
	}
)

// Accepts reports whether the file satisfies the rule
func (r FileRule) Accepts(f *model.SelectedFile) bool {
	if f == nil {
		return false
	}
	if f.ContentType != "" {
		if slices.Contains(r.MIMETypes, f.ContentType) {
			return true
		}
		for _, prefix := range r.MIMEPrefixes {
			if strings.HasPrefix(f.ContentType, prefix) {
				return true
			}
		}
	}
	return slices.Contains(r.Extensions, strings.ToLower(filepath.Ext(f.Name)))
}

// InspectFile describes a local file. The MIME type comes from the extension and, when the
// extension is unknown, from the file content. It may be empty.
func InspectFile(path string) (*model.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(model.NewValidationFailure("File not found: "+path), "selected file does not exist",
				goerr.V(model.PathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to stat selected file", goerr.V(model.PathKey, path))
	}
	if info.IsDir() {
		return nil, goerr.Wrap(model.NewValidationFailure(path+" is a directory"), "selected path is a directory",
			goerr.V(model.PathKey, path))
	}

	return &model.SelectedFile{
		Path:        path,
		Name:        info.Name(),
		ContentType: detectContentType(path),
		Size:        info.Size(),
	}, nil
}

func detectContentType(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			if base, _, err := mime.ParseMediaType(ct); err == nil {
				return base
			}
			return ct
		}
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil || detected.Is("application/octet-stream") || detected.Is("text/plain") {
		return ""
	}
	base, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return ""
	}
	return base
}

// SelectFile inspects a file and checks it against the rule. A rejected file is
// reported with the rule's message as a validation failure.
func SelectFile(rule FileRule, path string) (*model.SelectedFile, error) {
	file, err := InspectFile(path)
	if err != nil {
		return nil, err
	}
	if !rule.Accepts(file) {
		return nil, goerr.Wrap(model.NewValidationFailure(rule.Message), "file rejected",
			goerr.V(FileNameKey, file.Name), goerr.V(MIMETypeKey, file.ContentType))
	}
	return file, nil
}
