package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// configuration returns a relaxed pdfcpu configuration carrying the password.
func configuration(password string) *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}
	return conf
}

// Info is the structural metadata of a document.
type Info struct {
	PageCount int
	Encrypted bool
	Title     string
	Author    string
	Creator   string
	Producer  string
}

// Inspect reads the document structure.
func Inspect(path, password string) (*Info, error) {
	const op = "Inspect"

	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(op, err, "failed to open file")
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, configuration(password))
	if err != nil {
		return nil, classifyStructureError(op, err, password)
	}

	return &Info{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		Title:     ctx.Title,
		Author:    ctx.Author,
		Creator:   ctx.Creator,
		Producer:  ctx.Producer,
	}, nil
}

// Decrypt returns an unencrypted copy of the document.
func Decrypt(path, password string) ([]byte, error) {
	const op = "Decrypt"

	f, err := os.Open(path)
	if err != nil {
		return nil, WrapError(op, err, "failed to open file")
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.Decrypt(f, &buf, configuration(password)); err != nil {
		return nil, classifyStructureError(op, err, password)
	}
	return buf.Bytes(), nil
}

// Image is one image extracted from a document.
type Image struct {
	Path  string
	Name  string
	Page  int
	Bytes int64
}

// imageNamePattern matches pdfcpu output names: <base>_<page>_<id>.<ext>.
// The resource id may itself contain underscores.
func imageNamePattern(base string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `_(\d+)_.+\.\w+$`)
}

// ExtractImages writes the images of the selected pages (all when empty) into dir
// and returns them ordered by page and name.
func ExtractImages(ctx context.Context, path, dir string, pages []int, password string) ([]Image, error) {
	const op = "ExtractImages"

	if err := ctx.Err(); err != nil {
		return nil, WrapError(op, err, "extraction canceled")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, WrapError(op, err, "failed to create image directory")
	}

	var selected []string
	for _, p := range pages {
		if p > 0 {
			selected = append(selected, strconv.Itoa(p))
		}
	}

	if err := api.ExtractImagesFile(path, dir, selected, configuration(password)); err != nil {
		return nil, classifyStructureError(op, err, password)
	}

	return listImages(dir, strings.TrimSuffix(filepath.Base(path), ".pdf"))
}

func listImages(dir, base string) ([]Image, error) {
	imageName := imageNamePattern(base)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapError("listImages", err, dir)
	}

	var images []Image
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		img := Image{
			Path:  filepath.Join(dir, e.Name()),
			Name:  e.Name(),
			Bytes: info.Size(),
		}
		if m := imageName.FindStringSubmatch(e.Name()); m != nil {
			img.Page, _ = strconv.Atoi(m[1])
		}
		images = append(images, img)
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].Page != images[j].Page {
			return images[i].Page < images[j].Page
		}
		return images[i].Name < images[j].Name
	})
	return images, nil
}

func classifyStructureError(op string, err error, password string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password") && password == "":
		return WrapError(op, ErrCredentialRequired, err.Error())
	case strings.Contains(msg, "password"):
		return WrapError(op, ErrCredentialInvalid, err.Error())
	default:
		return WrapError(op, ErrExtractionFailed, fmt.Sprintf("pdfcpu: %v", err))
	}
}
