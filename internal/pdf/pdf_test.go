package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()

	doc := filepath.Join(dir, "report.PDF")
	if err := os.WriteFile(doc, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	folder := filepath.Join(dir, "folder.pdf")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"existing pdf", doc, nil},
		{"missing file", filepath.Join(dir, "missing.pdf"), ErrNotFound},
		{"wrong extension", notes, ErrNotAPDF},
		{"directory", folder, ErrNotAPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(tt.path)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("ValidatePath() error = %v", err)
				}
				if got != tt.path {
					t.Errorf("ValidatePath() = %q, want %q", got, tt.path)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidatePath() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidatePathRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got, err := ValidatePath("doc.pdf")
	if err != nil {
		t.Fatalf("ValidatePath() error = %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "doc.pdf" {
		t.Errorf("ValidatePath() = %q, want absolute path to doc.pdf", got)
	}
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(path, make([]byte, 3*1024*1024/2), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := FileSize(path, 1)
	if err != nil {
		t.Fatalf("FileSize() error = %v", err)
	}
	if info.MB != 1.5 {
		t.Errorf("MB = %v, want 1.5", info.MB)
	}
	if !info.RecommendChunking {
		t.Error("RecommendChunking = false, want true above threshold")
	}

	info, err = FileSize(path, 0)
	if err != nil {
		t.Fatalf("FileSize() error = %v", err)
	}
	if info.RecommendChunking {
		t.Error("RecommendChunking = true, want false below default threshold")
	}
}

func TestSelectPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		opts  Options
		want  []int
	}{
		{"all pages", 3, Options{}, []int{1, 2, 3}},
		{"max pages", 5, Options{MaxPages: 2}, []int{1, 2}},
		{"max above total", 2, Options{MaxPages: 10}, []int{1, 2}},
		{"explicit pages", 5, Options{Pages: []int{4, 2, 2, 9, 0}, MaxPages: 1}, []int{2, 4}},
		{"no pages", 0, Options{MaxPages: 3}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectPages(tt.total, tt.opts)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selectPages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOneShotPassword(t *testing.T) {
	pw := oneShotPassword("secret")
	if got := pw(); got != "secret" {
		t.Fatalf("first call = %q, want secret", got)
	}
	if got := pw(); got != "" {
		t.Fatalf("second call = %q, want empty", got)
	}
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf document"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewReader().ExtractText(context.Background(), path, Options{})
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("ExtractText() error = %v, want ErrExtractionFailed", err)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := NewReader().ExtractText(context.Background(), filepath.Join(t.TempDir(), "none.pdf"), Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ExtractText() error = %v, want ErrNotFound", err)
	}
}

func TestErrorWrapping(t *testing.T) {
	err := WrapError("ExtractText", ErrCredentialRequired, "provide the password parameter")
	if !errors.Is(err, ErrCredentialRequired) {
		t.Fatal("wrapped error does not match its sentinel")
	}
	if again := WrapError("Other", err, ""); again != err {
		t.Error("WrapError re-wrapped an *Error")
	}
	if WrapError("x", nil, "") != nil {
		t.Error("WrapError(nil) != nil")
	}
	if !strings.Contains(UserMessage(err), "password parameter") {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{WrapError("ValidatePath", ErrNotFound, "/tmp/a.pdf"), "File not found: /tmp/a.pdf"},
		{WrapError("ValidatePath", ErrNotAPDF, "/tmp/a.txt"), "File is not a PDF: /tmp/a.txt"},
		{WrapError("Inspect", ErrCredentialInvalid, ""), "PDF is password protected. Please provide the correct password using the password parameter."},
		{ErrExtractionFailed, "failed to parse PDF"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"doc_2_Im0.png", "doc_1_Im3.jpg", "doc_1_Im1.png", "doc_3_X_1.png", "stray.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	images, err := listImages(dir, "doc")
	if err != nil {
		t.Fatalf("listImages() error = %v", err)
	}

	var got []string
	for _, img := range images {
		got = append(got, img.Name)
	}
	want := []string{"stray.txt", "doc_1_Im1.png", "doc_1_Im3.jpg", "doc_2_Im0.png", "doc_3_X_1.png"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("listImages() order = %v, want %v", got, want)
	}
	if images[3].Page != 2 {
		t.Errorf("page of %s = %d, want 2", images[3].Name, images[3].Page)
	}
	if images[4].Page != 3 {
		t.Errorf("page of %s = %d, want 3", images[4].Name, images[4].Page)
	}
}

func TestListImagesBaseWithUnderscores(t *testing.T) {
	dir := t.TempDir()
	name := "q3_report_12_Im_7.jpg"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	images, err := listImages(dir, "q3_report")
	if err != nil {
		t.Fatalf("listImages() error = %v", err)
	}
	if len(images) != 1 || images[0].Page != 12 {
		t.Errorf("listImages() = %+v, want one image on page 12", images)
	}
}
