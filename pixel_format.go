package lottieview

// PixelFormat is an enumeration of pixel formats
type PixelFormat int

const (
	// RGB32 is 32-bit RGB format (0xffRRGGBB)
	RGB32 PixelFormat = iota
	// RGB16 is 16-bit RGB format (5-6-5)
	RGB16
)

// GetPixelSize returns the size of one pixel in bytes.
func GetPixelSize(pixFormat PixelFormat) int {
	if pixFormat == RGB16 {
		return 2
	}
	return 4
}

// GetPixelDepth returns the number of significant color bits per pixel.
func GetPixelDepth(pixFormat PixelFormat) int {
	if pixFormat == RGB16 {
		return 16
	}
	return 24
}
