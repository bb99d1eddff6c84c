//go:build !gosseract

package ocr

// NewNative returns nil when the binary was built without the gosseract tag.
func NewNative(language string) Engine {
	return nil
}
