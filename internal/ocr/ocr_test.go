package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"pdftools/internal/pdf"
)

// TestHelperProcess stands in for the tesseract binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("HELPER_FAIL") == "1" {
		fmt.Fprint(os.Stderr, "Error: unable to read image")
		os.Exit(1)
	}
	fmt.Fprint(os.Stdout, "  Invoice 42\nTotal $100  \n")
	os.Exit(0)
}

func fakeCommand(fail bool) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		if fail {
			cmd.Env = append(cmd.Env, "HELPER_FAIL=1")
		}
		return cmd
	}
}

func stubExec(t *testing.T, fail bool) {
	t.Helper()
	orig := execCommand
	execCommand = fakeCommand(fail)
	t.Cleanup(func() { execCommand = orig })
}

func stubLookPath(t *testing.T, found bool) {
	t.Helper()
	orig := lookPath
	lookPath = func(file string) (string, error) {
		if found {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestTesseractAvailable(t *testing.T) {
	engine := NewTesseractCLI("", "")

	stubLookPath(t, false)
	if engine.Available(context.Background()) {
		t.Error("Available() = true without binary")
	}

	stubLookPath(t, true)
	if !engine.Available(context.Background()) {
		t.Error("Available() = false with binary on PATH")
	}
}

func TestTesseractRecognize(t *testing.T) {
	stubExec(t, false)

	text, err := NewTesseractCLI("tesseract", "eng").Recognize(context.Background(), "page_1_Im0.png")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != "Invoice 42\nTotal $100" {
		t.Errorf("Recognize() = %q", text)
	}
}

func TestTesseractRecognizeFailure(t *testing.T) {
	stubExec(t, true)

	_, err := NewTesseractCLI("tesseract", "eng").Recognize(context.Background(), "broken.png")
	var ocrErr *OCRError
	if !errors.As(err, &ocrErr) {
		t.Fatalf("Recognize() error = %v, want *OCRError", err)
	}
	if ocrErr.Engine != "tesseract" || ocrErr.Details != "Error: unable to read image" {
		t.Errorf("unexpected error fields: %+v", ocrErr)
	}
}

type fakeEngine struct {
	name      string
	available bool
	fail      map[string]bool
}

func (f *fakeEngine) Name() string                       { return f.name }
func (f *fakeEngine) Available(ctx context.Context) bool { return f.available }
func (f *fakeEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if f.fail[imagePath] {
		return "", WrapOCRError(f.name, "Recognize", ErrOCRFailed, imagePath)
	}
	return "text of " + imagePath, nil
}

func TestSelect(t *testing.T) {
	missing := &fakeEngine{name: "missing"}
	present := &fakeEngine{name: "present", available: true}

	got, err := Select(context.Background(), []Engine{missing, present})
	if err != nil || got != present {
		t.Fatalf("Select() = %v, %v; want present engine", got, err)
	}

	_, err = Select(context.Background(), []Engine{missing})
	if !errors.Is(err, ErrNoEngine) || !errors.Is(err, pdf.ErrToolUnavailable) {
		t.Fatalf("Select() error = %v, want ErrNoEngine matching pdf.ErrToolUnavailable", err)
	}
}

func TestRecognizeAll(t *testing.T) {
	engine := &fakeEngine{name: "fake", available: true, fail: map[string]bool{"/tmp/b.png": true}}
	images := []string{"/tmp/a.png", "/tmp/b.png", "/tmp/c.png"}

	results := RecognizeAll(context.Background(), engine, images, 2)
	if len(results) != 3 {
		t.Fatalf("RecognizeAll() returned %d results", len(results))
	}
	for i, res := range results {
		if res.ImagePath != images[i] {
			t.Errorf("result %d is for %s, want %s", i, res.ImagePath, images[i])
		}
	}
	if results[0].Text != "text of /tmp/a.png" || results[0].Name != "a.png" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if !errors.Is(results[1].Err, ErrOCRFailed) {
		t.Errorf("second result error = %v, want ErrOCRFailed", results[1].Err)
	}
	if results[2].Err != nil {
		t.Errorf("third result error = %v", results[2].Err)
	}
}

func TestRecognizeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RecognizeAll(ctx, &fakeEngine{name: "fake", available: true}, []string{"a.png"}, 0)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", results[0].Err)
	}
}

func TestEngines(t *testing.T) {
	if got := Engines(Settings{Mode: ModeNone}); len(got) != 0 {
		t.Errorf("ModeNone returned %d engines", len(got))
	}

	got := Engines(Settings{Mode: ModeTesseract})
	if len(got) != 1 || got[0].Name() != "tesseract" {
		t.Errorf("ModeTesseract returned %v", got)
	}

	auto := Engines(Settings{Mode: ModeAuto})
	if len(auto) < 2 {
		t.Fatalf("ModeAuto returned %d engines", len(auto))
	}
	if auto[len(auto)-2].Name() != "tesseract" || auto[len(auto)-1].Name() != "vision" {
		t.Errorf("ModeAuto order ends with %s, %s", auto[len(auto)-2].Name(), auto[len(auto)-1].Name())
	}
}

func TestVisionAvailable(t *testing.T) {
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if NewVision().Available(context.Background()) {
		t.Error("Available() = true without credentials")
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/gcloud/key.json")
	if !NewVision().Available(context.Background()) {
		t.Error("Available() = false with credentials file configured")
	}
}
